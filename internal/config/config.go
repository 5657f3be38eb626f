package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        int
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	AdminUser     string
	AdminPassword string
	MaxConns      int32
	MinConns      int32
	AutoMigrate   bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

// Load reads envFile (when present) into the process environment and builds a Config from it.
// A missing env file is not an error; deployed instances configure through the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("PORT", 8080),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnvAsInt("DB_PORT", 5432),
			User:          getEnv("DB_USERNAME", "postgres"),
			Password:      getEnv("DB_PASSWORD", ""),
			Name:          getEnv("DB_DATABASE", "projectops"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			AdminUser:     getEnv("DB_ADMIN_USER", ""),
			AdminPassword: getEnv("DB_ADMIN_PASSWORD", ""),
			MaxConns:      int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:      int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			AutoMigrate:   getEnvAsBool("AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			AccessTokenSecret:  []byte(os.Getenv("ACCESS_TOKEN_SECRET")),
			RefreshTokenSecret: []byte(os.Getenv("REFRESH_TOKEN_SECRET")),
			AccessTokenTTL:     getEnvAsDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL:    getEnvAsDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("PORT must be a positive integer")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if len(c.Auth.AccessTokenSecret) == 0 {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if len(c.Auth.RefreshTokenSecret) == 0 {
		return fmt.Errorf("REFRESH_TOKEN_SECRET is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
