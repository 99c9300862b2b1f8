// Package telegram implements the telegram delivery channel through the
// Bot API.
package telegram
