package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string        `mapstructure:"GENERAL_VERSION"`
	Environment          string        `mapstructure:"ENVIRONMENT"`
	ServerPort           int           `mapstructure:"SERVER_PORT"`
	DatabaseHost         string        `mapstructure:"DB_HOST"`
	DatabasePort         int           `mapstructure:"DB_PORT"`
	DatabaseName         string        `mapstructure:"DB_NAME"`
	DatabaseUser         string        `mapstructure:"DB_USER"`
	DatabasePassword     string        `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string        `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int           `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int           `mapstructure:"DB_CACHE_RESET"`
	CacheTTL             time.Duration `mapstructure:"CACHE_TTL"`
	CorsAllowOrigins     string        `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	JWTIssuer            string        `mapstructure:"JWT_ISSUER"`
	SchedulerEnabled     bool          `mapstructure:"SCHEDULER_ENABLED"`
}

const DefaultCacheTTL = 1 * time.Hour

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET", "CACHE_TTL",
	"CORS_ALLOW_ORIGINS",
	"JWT_SECRET", "JWT_ISSUER",
	"SCHEDULER_ENABLED",
}

var ConfigInstance Config

func New() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v.AutomaticEnv()
	v.SetDefault("CACHE_TTL", DefaultCacheTTL)
	v.SetDefault("DB_CACHE_RESET", -1)
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")

	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	if v.IsSet("SERVER_PORT") && v.IsSet("DB_HOST") {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	ConfigInstance = config
	log.Info("Successfully initialized config", "environment", config.Environment)
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error("Fatal error: invalid server port", "port", config.ServerPort)
	}

	if config.JWTSecret == "" {
		return log.ErrMsg("Fatal error: JWT_SECRET is required")
	}

	// Credentialed CORS cannot use a wildcard origin.
	if config.CorsAllowOrigins == "*" {
		return log.ErrMsg("Fatal error: CORS_ALLOW_ORIGINS must list origins explicitly")
	}

	if config.CacheTTL <= 0 {
		return log.Error("Fatal error: CACHE_TTL must be positive", "ttl", config.CacheTTL)
	}

	return nil
}
