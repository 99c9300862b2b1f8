// Package push implements the push delivery channel against an
// FCM-compatible HTTP endpoint.
package push
