package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultTokenTTLHours = 30 * 24

// Config holds the application's configuration. It is built once at startup
// and treated as read-only afterwards.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int64  `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// LoadConfig reads configuration from the specified YAML file, then applies
// environment overrides (DATABASE_URL, SECRET_KEY, PORT). A .env file in the
// working directory is picked up first if present. The JWT secret has no
// default; loading fails when it is unset.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is not set: provide auth.jwt_secret or SECRET_KEY")
	}
	if config.Database.URL == "" {
		return nil, fmt.Errorf("database url is not set: provide database.url or DATABASE_URL")
	}
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Auth.TokenTTLHours == 0 {
		config.Auth.TokenTTLHours = defaultTokenTTLHours
	}

	return config, nil
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}
