package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported fallback cache backends.
const (
	FallbackMemory   = "memory"
	FallbackFile     = "file"
	FallbackRedis    = "redis"
	FallbackPostgres = "postgres"
)

// Supported sources for admission applications.
const (
	ApplicationsSourceREST  = "rest"
	ApplicationsSourceMongo = "mongo"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream     UpstreamConfig
	Fallback     FallbackConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Mongo        MongoConfig
	Applications ApplicationsConfig
	Auth         AuthConfig
	CORS         CORSConfig
	Log          LogConfig
	Refresh      RefreshConfig
}

// UpstreamConfig points the gateway at the school backend REST API.
type UpstreamConfig struct {
	BaseURL            string
	Timeout            time.Duration
	Token              string
	StrictClientErrors bool
}

// FallbackConfig selects where local fallback snapshots are persisted.
type FallbackConfig struct {
	Backend string
	Dir     string
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

// MongoConfig configures the admission applications document store.
type MongoConfig struct {
	URI                    string
	Database               string
	ApplicationsCollection string
	ConnectTimeout         time.Duration
}

// ApplicationsConfig chooses how admission applications are synchronised.
type ApplicationsConfig struct {
	Source string
}

// AuthConfig controls bearer token verification for the dashboards.
type AuthConfig struct {
	Enabled bool
	Secret  string
	Issuer  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RefreshConfig tunes background reloads of the resource stores.
type RefreshConfig struct {
	Interval time.Duration
	Workers  int
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL:            strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout:            parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 10*time.Second),
		Token:              v.GetString("UPSTREAM_TOKEN"),
		StrictClientErrors: v.GetBool("UPSTREAM_STRICT_CLIENT_ERRORS"),
	}

	cfg.Fallback = FallbackConfig{
		Backend: strings.ToLower(v.GetString("FALLBACK_BACKEND")),
		Dir:     v.GetString("FALLBACK_DIR"),
	}

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

	cfg.Mongo = MongoConfig{
		URI:                    v.GetString("MONGO_URI"),
		Database:               v.GetString("MONGO_DATABASE"),
		ApplicationsCollection: v.GetString("MONGO_APPLICATIONS_COLLECTION"),
		ConnectTimeout:         parseDuration(v.GetString("MONGO_CONNECT_TIMEOUT"), 10*time.Second),
	}

	cfg.Applications = ApplicationsConfig{Source: strings.ToLower(v.GetString("APPLICATIONS_SOURCE"))}

	cfg.Auth = AuthConfig{
		Enabled: v.GetBool("AUTH_ENABLED"),
		Secret:  v.GetString("JWT_SECRET"),
		Issuer:  v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Refresh = RefreshConfig{
		Interval: parseDuration(v.GetString("REFRESH_INTERVAL"), 0),
		Workers:  v.GetInt("REFRESH_WORKERS"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:5000")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("UPSTREAM_TOKEN", "")
	v.SetDefault("UPSTREAM_STRICT_CLIENT_ERRORS", false)

	v.SetDefault("FALLBACK_BACKEND", FallbackMemory)
	v.SetDefault("FALLBACK_DIR", "./fallback")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("APPLICATIONS_SOURCE", ApplicationsSourceREST)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "school_portal")
	v.SetDefault("MONGO_APPLICATIONS_COLLECTION", "applications")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REFRESH_INTERVAL", "")
	v.SetDefault("REFRESH_WORKERS", 2)
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
