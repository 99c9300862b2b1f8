package httpserver

import "errors"

var (
	// ErrServer is returned when the server stops with an error other
	// than a clean close.
	ErrServer = errors.New("httpserver: server failed")
	// ErrShutdown is returned when graceful shutdown does not finish in
	// time.
	ErrShutdown = errors.New("httpserver: shutdown failed")
)
