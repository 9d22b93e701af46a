// Package config loads application settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devSecretKey is used when SECRET_KEY is unset.
const devSecretKey = "default"

// Config holds the application settings.
type Config struct {
	Port               string
	SecretKey          string
	LogToStdout        bool
	LogFile            string // 空ならlogger.DefaultLogFile
	EnterprisesPerPage int
	LoginRateLimit     int
	LoginRateWindow    time.Duration
	CORSOrigins        []string
	SecureCookies      bool

	Redis RedisConfig
}

// RedisConfig holds the Redis connection settings. Empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the environment.
func Load() Config {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		slog.Debug("no env file loaded", "file", envFile)
	}
	return FromEnv()
}

// FromEnv reads the configuration from environment variables only.
func FromEnv() Config {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		slog.Warn("SECRET_KEY is not set. Set a strong secret in production.")
		secret = devSecretKey
	}
	return Config{
		Port:               getEnv("PORT", "8080"),
		SecretKey:          secret,
		LogToStdout:        os.Getenv("LOG_TO_STDOUT") != "",
		LogFile:            os.Getenv("LOG_FILE"),
		EnterprisesPerPage: getEnvInt("ENTERPRISES_PER_PAGE", 3),
		LoginRateLimit:     getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:    time.Minute,
		CORSOrigins:        splitList(os.Getenv("CORS_ORIGINS")),
		SecureCookies:      getEnv("SECURE_COOKIES", "") == "true",
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}
}

// getEnv gets the env by key or falls back.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
