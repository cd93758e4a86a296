package config

import (
	"github.com/recharge-travels/service-quotes/pkg/config"
)

// ServiceConfig holds all configuration for the quotes service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    config.DatabaseConfig
	JWTConfig   config.JWTConfig
	KafkaConfig config.KafkaConfig
	RedisConfig config.RedisConfig
	// MapsAPIKey enables live route distance lookups. Empty means the
	// service runs on tabulated distances and the default leg estimate.
	MapsAPIKey string
}

// Load reads configuration from environment variables with the QUOTES prefix.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("QUOTES")
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "travel_quotes")

	return &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      config.GetAppEnv(v),
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:   config.LoadJWTConfig(v),
		KafkaConfig: config.LoadKafkaConfig(v),
		RedisConfig: config.LoadRedisConfig(v),
		MapsAPIKey:  v.GetString("MAPS_API_KEY"),
	}, nil
}
