// Package api exposes the notification engine over HTTP.
//
// The router covers four surfaces: submitting notifications, managing a
// user's channel preferences, reading the in-app inbox, and the provider
// webhooks that confirm or bounce individual delivery attempts. Scheduled
// job routes are mounted only when a scheduler is attached.
//
// All request and response bodies are JSON. Domain errors map onto HTTP
// status codes in one place, statusFor, so handlers stay thin.
package api
