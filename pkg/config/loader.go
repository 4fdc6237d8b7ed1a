package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load populates the configuration struct from environment variables
// based on `env` field tags. The default .env file is loaded once per
// process before the first parse; a missing file is not an error.
//
// Example:
//
//	type StoreConfig struct {
//		URL     string `env:"MONGODB_URL,required"`
//		Timeout time.Duration `env:"MONGODB_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional; runtime environments set real vars.
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilConfig
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParseFailed, fmt.Errorf("%T: %w", v, err))
	}
	return nil
}

// MustLoad is like Load but panics on failure. Intended for process
// startup where a bad environment should prevent the service from
// serving at all.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}
