// Package inapp implements the in_app delivery channel by writing inbox
// messages.
package inapp
