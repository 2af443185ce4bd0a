package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatasetPath    string
	ModelPath      string
	SchemaPath     string
	ModelEndpoint  string
	LogTransformed bool
	Horizon        int
	MaxHorizon     int

	HTTPPort string
	LogLevel string

	PostgresEnabled    bool
	PostgresHost       string
	PostgresPort       string
	PostgresUser       string
	PostgresPassword   string
	PostgresDB         string
	PostgresSSLMode    string
	PersistPredictions bool
	MaxRetries         int

	ForecastCSVPath string
	ChartOutputDir  string
	ChromeBin       string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		DatasetPath:    getEnv("DATASET_PATH", "./data/vgsales.csv"),
		ModelPath:      getEnv("MODEL_PATH", "./data/model.yaml"),
		SchemaPath:     getEnv("SCHEMA_PATH", "./data/columns.yaml"),
		ModelEndpoint:  getEnv("MODEL_ENDPOINT", ""),
		LogTransformed: getEnvBool("MODEL_LOG_TRANSFORMED", false),
		Horizon:        getEnvInt("FORECAST_HORIZON", 6),
		MaxHorizon:     getEnvInt("MAX_FORECAST_HORIZON", 50),

		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		PostgresEnabled:    getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:       getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:       getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:       getEnv("POSTGRES_USER", "vgsales"),
		PostgresPassword:   getEnv("POSTGRES_PASSWORD", "vgsales"),
		PostgresDB:         getEnv("POSTGRES_DB", "vgsales"),
		PostgresSSLMode:    getEnv("POSTGRES_SSLMODE", "disable"),
		PersistPredictions: getEnvBool("PERSIST_PREDICTIONS", false),
		MaxRetries:         getEnvInt("MAX_RETRIES", 5),

		ForecastCSVPath: getEnv("FORECAST_CSV_PATH", "./output/forecast.csv"),
		ChartOutputDir:  getEnv("CHART_OUTPUT_DIR", ""),
		ChromeBin:       getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.HTTPPort, ":")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return fallback
}
