package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Report     ReportConfig
	Cron       CronConfig
	Migrations MigrationsConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
}

// JWTConfig holds the verification settings for tokens issued by the hosted
// auth provider.
type JWTConfig struct {
	Secret string
	Skew   time.Duration
}

type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Version     string
	FrontendURL string
	CORSOrigins []string
	Timezone    string
}

// ReportConfig tunes the aggregation read models.
type ReportConfig struct {
	TrendMonths int
	// PDFFontPath points at a TrueType font with Hangul coverage, such as
	// NanumGothic.ttf, used by PDF exports.
	PDFFontPath string
}

type CronConfig struct {
	Enabled              bool
	ClientCacheInterval  time.Duration
	OverdueSweepInterval time.Duration
}

type MigrationsConfig struct {
	RunOnBoot bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if getEnv("APP_ENV", "development") == "production" {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("No .env file loaded", "error", err)
	}

	config := &Config{}
	var errs []error

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432, &errs),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "crewbook"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        getEnvInt("DB_MAX_CONNS", 25, &errs),
		MinConns:        getEnvInt("DB_MIN_CONNS", 5, &errs),
		MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour, &errs),
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")
	origins := getEnvSlice("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{frontendURL}
	}

	config.App = AppConfig{
		Port:        getEnvInt("APP_PORT", 8080, &errs),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Version:     getEnv("APP_VERSION", "dev"),
		FrontendURL: frontendURL,
		CORSOrigins: origins,
		Timezone:    getEnv("APP_TIMEZONE", "Asia/Seoul"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
		Skew:   getEnvDuration("JWT_ACCEPTABLE_SKEW", 30*time.Second, &errs),
	}

	config.Report = ReportConfig{
		TrendMonths: getEnvInt("REPORT_TREND_MONTHS", 12, &errs),
		PDFFontPath: getEnv("REPORT_PDF_FONT", ""),
	}

	config.Cron = CronConfig{
		Enabled:              getEnvBool("CRON_ENABLED", true, &errs),
		ClientCacheInterval:  getEnvDuration("CRON_CLIENT_CACHE_INTERVAL", 15*time.Minute, &errs),
		OverdueSweepInterval: getEnvDuration("CRON_OVERDUE_SWEEP_INTERVAL", time.Hour, &errs),
	}

	config.Migrations = MigrationsConfig{
		RunOnBoot: getEnvBool("MIGRATIONS_RUN_ON_BOOT", true, &errs),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	if c.Report.TrendMonths < 1 {
		return fmt.Errorf("REPORT_TREND_MONTHS must be at least 1")
	}
	return nil
}

// LoadPDFFont reads REPORT_PDF_FONT. It returns nil when no font is
// configured. Only plain TrueType files are accepted; the PDF writer cannot
// embed OpenType CFF fonts or collections.
func (r ReportConfig) LoadPDFFont() ([]byte, error) {
	if r.PDFFontPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(r.PDFFontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read REPORT_PDF_FONT: %w", err)
	}
	if len(data) < 12 {
		return nil, fmt.Errorf("REPORT_PDF_FONT %q is not a TrueType font", r.PDFFontPath)
	}
	switch string(data[:4]) {
	case "\x00\x01\x00\x00", "true":
		return data, nil
	default:
		return nil, fmt.Errorf("REPORT_PDF_FONT %q is not a TrueType font", r.PDFFontPath)
	}
}

// Location returns the business timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto slog levels; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
