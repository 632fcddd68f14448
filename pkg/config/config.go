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

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Sync     SyncConfig
	AI       AIConfig
	Tutor    TutorConfig
	Email    EmailConfig
	Cache    CacheConfig
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

// SyncConfig drives the client-side sync gateway and its local mirror.
type SyncConfig struct {
	BaseURL      string
	APIPrefix    string
	Timeout      time.Duration
	PollInterval time.Duration
	MirrorPath   string
}

// AIConfig points the grader and tutor at an OpenAI-compatible endpoint.
type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// TutorConfig tunes the course-chat tutor.
type TutorConfig struct {
	Enabled      bool
	HistoryLimit int
	Workers      int
}

// EmailConfig targets an EmailJS-compatible transactional send endpoint.
type EmailConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	Timeout    time.Duration
}

// CacheConfig governs the Redis read-through cache for collection reads.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
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

	cfg.Sync = SyncConfig{
		BaseURL:      v.GetString("SYNC_BASE_URL"),
		APIPrefix:    v.GetString("SYNC_API_PREFIX"),
		Timeout:      parseDuration(v.GetString("SYNC_TIMEOUT"), 10*time.Second),
		PollInterval: parseDuration(v.GetString("SYNC_POLL_INTERVAL"), 10*time.Second),
		MirrorPath:   v.GetString("SYNC_MIRROR_PATH"),
	}

	cfg.AI = AIConfig{
		BaseURL: v.GetString("AI_BASE_URL"),
		APIKey:  v.GetString("AI_API_KEY"),
		Model:   v.GetString("AI_MODEL"),
		Timeout: parseDuration(v.GetString("AI_TIMEOUT"), 60*time.Second),
	}

	cfg.Tutor = TutorConfig{
		Enabled:      v.GetBool("TUTOR_ENABLED"),
		HistoryLimit: v.GetInt("TUTOR_HISTORY_LIMIT"),
		Workers:      v.GetInt("TUTOR_WORKERS"),
	}

	cfg.Email = EmailConfig{
		Endpoint:   v.GetString("EMAIL_ENDPOINT"),
		ServiceID:  v.GetString("EMAIL_SERVICE_ID"),
		TemplateID: v.GetString("EMAIL_TEMPLATE_ID"),
		PublicKey:  v.GetString("EMAIL_PUBLIC_KEY"),
		Timeout:    parseDuration(v.GetString("EMAIL_TIMEOUT"), 10*time.Second),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "it_ustoz")
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

	v.SetDefault("SYNC_BASE_URL", "http://localhost:8080")
	v.SetDefault("SYNC_API_PREFIX", "/api")
	v.SetDefault("SYNC_TIMEOUT", "10s")
	v.SetDefault("SYNC_POLL_INTERVAL", "10s")
	v.SetDefault("SYNC_MIRROR_PATH", "./mirror.db")

	v.SetDefault("AI_BASE_URL", "")
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_TIMEOUT", "60s")

	v.SetDefault("TUTOR_ENABLED", true)
	v.SetDefault("TUTOR_HISTORY_LIMIT", 10)
	v.SetDefault("TUTOR_WORKERS", 1)

	v.SetDefault("EMAIL_ENDPOINT", "https://api.emailjs.com/api/v1.0/email/send")
	v.SetDefault("EMAIL_SERVICE_ID", "")
	v.SetDefault("EMAIL_TEMPLATE_ID", "")
	v.SetDefault("EMAIL_PUBLIC_KEY", "")
	v.SetDefault("EMAIL_TIMEOUT", "10s")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "1m")
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
