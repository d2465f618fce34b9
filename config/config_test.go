package config

import (
	"testing"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "8288")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PORT", "5432")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("SCHEDULER_ENABLED", "true")

	config, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8288, config.ServerPort)
	assert.Equal(t, "localhost", config.DatabaseHost)
	assert.Equal(t, 5432, config.DatabasePort)
	assert.Equal(t, 15*time.Minute, config.CacheTTL)
	assert.True(t, config.SchedulerEnabled)
	assert.Equal(t, config, GetConfig())
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	config, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultCacheTTL, config.CacheTTL)
	assert.Equal(t, -1, config.DatabaseCacheReset)
	assert.Equal(t, "http://localhost:3000", config.CorsAllowOrigins)
	assert.False(t, config.SchedulerEnabled)
}

func TestValidateConfig(t *testing.T) {
	valid := Config{ServerPort: 80, JWTSecret: "secret", CacheTTL: time.Minute}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, expectErr: false},
		{name: "missing port", mutate: func(c *Config) { c.ServerPort = 0 }, expectErr: true},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, expectErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.CacheTTL = 0 }, expectErr: true},
		{name: "wildcard cors", mutate: func(c *Config) { c.CorsAllowOrigins = "*" }, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)

			err := validateConfig(config, logger.New("test"))
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
