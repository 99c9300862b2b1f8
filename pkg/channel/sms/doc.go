// Package sms implements the sms delivery channel against a generic HTTP
// gateway using bearer authentication.
package sms
