package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	CORS          CORSConfig
	Log           LogConfig
	Availability  AvailabilityConfig
	Collaborators CollaboratorsConfig
	SideEffects   SideEffectsConfig
	Exports       ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AvailabilityConfig tunes caching of resolved availability reads.
type AvailabilityConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	MaxRangeDays int
}

// CollaboratorsConfig points at the external job/application/notification
// services invoked after lifecycle transitions.
type CollaboratorsConfig struct {
	Enabled            bool
	JobDirectoryURL    string
	ApplicationsURL    string
	NotificationsURL   string
	RequestTimeout     time.Duration
	VerifyApplications bool
}

// SideEffectsConfig controls the async dispatcher for collaborator calls.
type SideEffectsConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// ExportsConfig gates interview roster exports.
type ExportsConfig struct {
	Enabled     bool
	MaxRowCount int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Availability = AvailabilityConfig{
		CacheEnabled: v.GetBool("AVAILABILITY_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("AVAILABILITY_CACHE_TTL"), time.Minute),
		MaxRangeDays: v.GetInt("AVAILABILITY_MAX_RANGE_DAYS"),
	}

	cfg.Collaborators = CollaboratorsConfig{
		Enabled:            v.GetBool("COLLABORATORS_ENABLED"),
		JobDirectoryURL:    v.GetString("JOB_DIRECTORY_URL"),
		ApplicationsURL:    v.GetString("APPLICATIONS_URL"),
		NotificationsURL:   v.GetString("NOTIFICATIONS_URL"),
		RequestTimeout:     parseDuration(v.GetString("COLLABORATOR_TIMEOUT"), 3*time.Second),
		VerifyApplications: v.GetBool("VERIFY_APPLICATIONS"),
	}

	cfg.SideEffects = SideEffectsConfig{
		Workers:    v.GetInt("SIDE_EFFECT_WORKERS"),
		BufferSize: v.GetInt("SIDE_EFFECT_BUFFER"),
		MaxRetries: v.GetInt("SIDE_EFFECT_RETRIES"),
		RetryDelay: parseDuration(v.GetString("SIDE_EFFECT_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Exports = ExportsConfig{
		Enabled:     v.GetBool("ENABLE_EXPORTS"),
		MaxRowCount: v.GetInt("EXPORT_MAX_ROWS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "interview_booking")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AVAILABILITY_CACHE_ENABLED", true)
	v.SetDefault("AVAILABILITY_CACHE_TTL", "1m")
	v.SetDefault("AVAILABILITY_MAX_RANGE_DAYS", 31)

	v.SetDefault("COLLABORATORS_ENABLED", false)
	v.SetDefault("JOB_DIRECTORY_URL", "http://localhost:9001")
	v.SetDefault("APPLICATIONS_URL", "http://localhost:9002")
	v.SetDefault("NOTIFICATIONS_URL", "http://localhost:9003")
	v.SetDefault("COLLABORATOR_TIMEOUT", "3s")
	v.SetDefault("VERIFY_APPLICATIONS", false)

	v.SetDefault("SIDE_EFFECT_WORKERS", 2)
	v.SetDefault("SIDE_EFFECT_BUFFER", 64)
	v.SetDefault("SIDE_EFFECT_RETRIES", 3)
	v.SetDefault("SIDE_EFFECT_RETRY_DELAY", "2s")

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORT_MAX_ROWS", 2000)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
