package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load populates the configuration struct from environment variables.
//
// The default .env file is loaded once per process before the first parse;
// a missing .env file is not an error. Struct fields are bound via `env`
// tags as understood by github.com/caarlos0/env.
//
// Example:
//
//	type SMSConfig struct {
//		APIURL   string `env:"SMS_API_URL,required"`
//		APIKey   string `env:"SMS_API_KEY,required"`
//		SenderID string `env:"SMS_SENDER_ID" envDefault:"University"`
//	}
//
//	var cfg SMSConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvLoaded.Do(func() {
		// The .env file is optional outside local development.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use for configuration without which the service cannot start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
