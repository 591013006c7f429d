package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port        string `yaml:"port"`
		CORSOrigins string `yaml:"corsOrigins"`
	} `yaml:"server"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret"`
		TokenTTL  string `yaml:"tokenTtl"`
	} `yaml:"auth"`
	Presence struct {
		IdleTimeout  string `yaml:"idleTimeout"`
		GraceTimeout string `yaml:"graceTimeout"`
	} `yaml:"presence"`
}

// Load reads YAML config from path and layers environment overrides on
// top, so containers can run without a config file at all.
func Load(path string) (Config, error) {
	cfg := Config{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	overlay(&cfg.Env, "APP_ENV")
	overlay(&cfg.Server.Port, "PORT")
	overlay(&cfg.Server.CORSOrigins, "CORS_ALLOWED_ORIGINS")
	overlay(&cfg.Postgres.DSN, "POSTGRES_DSN")
	overlay(&cfg.Redis.Addr, "REDIS_ADDR")
	overlay(&cfg.Redis.Password, "REDIS_PASSWORD")
	overlay(&cfg.Auth.JWTSecret, "JWT_SECRET")

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "super-secret-key-change-in-production"
	}
	return cfg, nil
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
