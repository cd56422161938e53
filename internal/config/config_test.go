package config_test

import (
	"testing"
	"time"

	"chiyasathi/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	cfg := config.FromViper(v)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "http://127.0.0.1:5000/api", cfg.APIBaseURL)
	assert.Equal(t, 8*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 5*time.Second, cfg.OrderPollInterval)
	assert.Equal(t, 10*time.Second, cfg.BoardPollInterval)
	assert.Equal(t, "sqlite", cfg.StateDriver)
	assert.False(t, cfg.Production())
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_BASE_URL", "http://backend:5000/api")
	t.Setenv("ORDER_POLL_INTERVAL", "2s")

	v := viper.New()
	config.SetDefaults(v)
	v.AutomaticEnv()

	cfg := config.FromViper(v)
	assert.True(t, cfg.Production())
	assert.Equal(t, "http://backend:5000/api", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.OrderPollInterval)
}
