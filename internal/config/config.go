package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

type EnvConfig struct {
	APP_PORT      string
	LOG_FILE_PATH string
	LOG_LEVEL     string

	DB_HOST              string
	DB_PORT              string
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration

	ELASTIC_URL    string
	GCP_PROJECT_ID string

	REPORTS_FILE        string
	ROWS_PER_SHEET      int
	EMPTY_TABLE_MESSAGE string
}

var DefaultEnvConfig EnvConfig

// LoadEnvConfig loads .env (when present) into the environment and fills
// DefaultEnvConfig. Variables already set in the environment win.
func LoadEnvConfig(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg, err := FromEnv()
	if err != nil {
		return err
	}
	DefaultEnvConfig = cfg
	return nil
}

// FromEnv reads the configuration from the process environment.
func FromEnv() (EnvConfig, error) {
	var errs *multierror.Error
	cfg := EnvConfig{
		APP_PORT:      getEnv("APP_PORT", "8080"),
		LOG_FILE_PATH: getEnv("LOG_FILE_PATH", ""),
		LOG_LEVEL:     getEnv("LOG_LEVEL", "info"),

		DB_HOST:              getEnv("DB_HOST", "localhost"),
		DB_PORT:              getEnv("DB_PORT", "5432"),
		DB_USER:              getEnv("DB_USER", "postgres"),
		DB_PASSWORD:          getEnv("DB_PASSWORD", ""),
		DB_NAME:              getEnv("DB_NAME", ""),
		DB_SSL_MODE:          getEnv("DB_SSL_MODE", "disable"),
		DB_MAX_OPEN_CONNS:    getInt("DB_MAX_OPEN_CONNS", 25, &errs),
		DB_MAX_IDLE_CONNS:    getInt("DB_MAX_IDLE_CONNS", 5, &errs),
		DB_CONN_MAX_LIFETIME: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute, &errs),

		ELASTIC_URL:    getEnv("ELASTIC_URL", ""),
		GCP_PROJECT_ID: getEnv("GCP_PROJECT_ID", ""),

		REPORTS_FILE:        getEnv("REPORTS_FILE", "reports.yaml"),
		ROWS_PER_SHEET:      getInt("ROWS_PER_SHEET", 0, &errs),
		EMPTY_TABLE_MESSAGE: getEnv("EMPTY_TABLE_MESSAGE", ""),
	}
	return cfg, errs.ErrorOrNil()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int, errs **multierror.Error) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = multierror.Append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs **multierror.Error) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = multierror.Append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
