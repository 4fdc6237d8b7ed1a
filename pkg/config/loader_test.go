package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolkit/schoolkit/pkg/config"
)

type testConfig struct {
	Name    string        `env:"SCHOOLKIT_TEST_NAME" envDefault:"default-name"`
	Timeout time.Duration `env:"SCHOOLKIT_TEST_TIMEOUT" envDefault:"5s"`
	Port    int           `env:"SCHOOLKIT_TEST_PORT" envDefault:"8080"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "default-name", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SCHOOLKIT_TEST_NAME", "from-env")
	t.Setenv("SCHOOLKIT_TEST_PORT", "9090")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[testConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilConfig)
}

type requiredConfig struct {
	Value string `env:"SCHOOLKIT_TEST_REQUIRED,required"`
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParseFailed)
}
