// Package config loads typed configuration structs from environment
// variables, with optional .env support for local development.
//
// Every component of the notification engine declares its own small config
// struct with `env` tags and loads it through config.Load or
// config.MustLoad at startup, keeping configuration close to the code that
// consumes it.
package config
