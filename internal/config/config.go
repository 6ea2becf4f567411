package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	dbUserEmptyError = errors.New("DB User is Empty")
	dbNameEmptyError = errors.New("DB Name is Empty")
	envLoadError     = errors.New(".env load Error")
	invalidValueErr  = errors.New("invalid config value")
)

type AppConfig struct {
	Env      string
	Port     string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	Password string
	User     string
	URL      string
	MaxConns int32
	MinConns int32
}

type HTTPConfig struct {
	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type ImportConfig struct {
	MaxUploadBytes int64
}

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
	Import   ImportConfig
}

func LoadConfig() (*Config, error) {
	// .env необязателен, в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", envLoadError, err)
	}

	var err error
	c := &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "dev"),
			Port:     getEnv("APP_PORT", "8080"),
			LogLevel: getEnv("LOG_LEVEL", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			Name:     getEnv("DATABASE_NAME", "postgres"),
			Password: getEnv("DATABASE_PASSWORD", "postgres"),
			User:     getEnv("DATABASE_USER", "postgres"),
			URL:      getEnv("DATABASE_URL", ""),
		},
	}

	if c.Database.MaxConns, err = getEnvInt32("DATABASE_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if c.Database.MinConns, err = getEnvInt32("DATABASE_MIN_CONNS", 2); err != nil {
		return nil, err
	}
	if c.HTTP.RequestTimeout, err = getEnvDuration("HTTP_REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if c.HTTP.ReadTimeout, err = getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if c.HTTP.WriteTimeout, err = getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	maxUpload, err := getEnvInt32("IMPORT_MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	c.Import.MaxUploadBytes = int64(maxUpload)

	if err := makeDbUrl(c); err != nil {
		return nil, err
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) (int32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", invalidValueErr, key, v)
	}
	return int32(n), nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", invalidValueErr, key, v)
	}
	return d, nil
}

func makeDbUrl(cfg *Config) error {
	if cfg.Database.URL == "" {
		if cfg.Database.User == "" {
			return dbUserEmptyError
		}
		if cfg.Database.Name == "" {
			return dbNameEmptyError
		}
		cfg.Database.URL = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Name,
		)
	}
	return nil
}
