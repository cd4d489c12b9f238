package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Source modes for the store's backing data.
const (
	SourceHTTP  = "http"
	SourceRedis = "redis"
)

// Server captures process-level configuration. Every backing service is
// optional: an empty URL or broker list disables it.
type Server struct {
	Addr     string
	LogLevel string

	Codelist CodelistConfig
	Admin    AdminConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
}

// CodelistConfig configures the reference data store and its source.
type CodelistConfig struct {
	BaseURL      string
	APIKey       string
	FetchTimeout time.Duration
	Collation    string
	Source       string
	// RefreshLogSize bounds the in-memory refresh log used without a database.
	RefreshLogSize int
}

// AdminConfig configures bearer-token validation for admin endpoints.
type AdminConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// DevJWTSigningKey is used when ADMIN_JWT_SIGNING_KEY is unset.
const DevJWTSigningKey = "dev-secret-key-change-in-production"

// UsesDevSigningKey reports whether admin tokens are signed with the
// well-known development key.
func (a AdminConfig) UsesDevSigningKey() bool {
	return a.JWTSigningKey == DevJWTSigningKey
}

// RedisConfig configures the snapshot mirror connection.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures the refresh log database.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig configures the refresh trigger consumer.
type KafkaConfig struct {
	Brokers       string
	CodelistTopic string
	ConsumerGroup string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:     getEnv("POLLY_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Codelist: CodelistConfig{
			BaseURL:        strings.TrimSpace(os.Getenv("CODELIST_BASE_URL")),
			APIKey:         os.Getenv("CODELIST_API_KEY"),
			FetchTimeout:   getDuration("CODELIST_FETCH_TIMEOUT", 10*time.Second),
			Collation:      getEnv("CODELIST_COLLATION", "nb"),
			Source:         strings.ToLower(getEnv("CODELIST_SOURCE", SourceHTTP)),
			RefreshLogSize: getInt("CODELIST_REFRESH_LOG_SIZE", 50),
		},
		Admin: AdminConfig{
			JWTSigningKey: getEnv("ADMIN_JWT_SIGNING_KEY", DevJWTSigningKey),
			JWTIssuer:     getEnv("ADMIN_JWT_ISSUER", "polly"),
			JWTAudience:   getEnv("ADMIN_JWT_AUDIENCE", "polly-admin"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:       os.Getenv("KAFKA_BROKERS"),
			CodelistTopic: getEnv("KAFKA_CODELIST_TOPIC", "codelist.changed"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "polly-codelist"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
