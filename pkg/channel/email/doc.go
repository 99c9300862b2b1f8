// Package email implements the email delivery channel on Postmark, with a
// filesystem-backed dev adapter for local work.
package email
