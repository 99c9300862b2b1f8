// Package httpserver runs the API's HTTP listener with graceful shutdown.
//
// Run blocks until the context is cancelled or a SIGINT/SIGTERM arrives,
// then drains in-flight requests within the configured shutdown timeout.
// Healthcheck builds the probe endpoint from the daemon's dependency pings.
package httpserver
