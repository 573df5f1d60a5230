package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string
	Timezone    string

	DatabaseURL    string
	DatabaseDriver string

	RedisURL string

	MongoURI string
	MongoDB  string

	JWTSecret            string
	JWTAccessExpiry      time.Duration
	OperatorEmail        string
	OperatorPasswordHash string

	MinIOEndpoint       string
	MinIOPublicEndpoint string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOBucket         string
	MinIOUseSSL         bool
	MinIOPublicUseSSL   bool

	CORSOrigins string
	// TrustedProxies lists the proxy IPs or CIDR ranges whose forwarding
	// headers are believed. Empty means the socket address is always used.
	TrustedProxies []string

	ResendAPIKey  string
	FromEmail     string
	PublicBaseURL string

	IPLookupMode      string
	IPLookupURL       string
	PostalLookupURL   string
	HTTPClientTimeout time.Duration
	AcceptRetries     int

	LocalesPath string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", ""),
		Timezone:    getEnv("TIMEZONE", "America/Sao_Paulo"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),

		RedisURL: getEnv("REDIS_URL", ""),

		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "mr3x_notificacoes"),

		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:      getDurationEnv("JWT_ACCESS_EXPIRY", 12*time.Hour),
		OperatorEmail:        getEnv("OPERATOR_EMAIL", ""),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),

		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", ""),
		MinIOPublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "")),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:         getEnv("MINIO_BUCKET", "notificacoes"),
		MinIOUseSSL:         getBoolEnv("MINIO_USE_SSL", false),
		MinIOPublicUseSSL:   getBoolEnv("MINIO_PUBLIC_USE_SSL", true),

		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:5173"),
		TrustedProxies: getListEnv("TRUSTED_PROXIES"),

		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		FromEmail:     getEnv("FROM_EMAIL", "onboarding@resend.dev"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:5173"),

		IPLookupMode:      getEnv("IP_LOOKUP_MODE", "request"),
		IPLookupURL:       getEnv("IP_LOOKUP_URL", "https://api.ipify.org?format=json"),
		PostalLookupURL:   getEnv("POSTAL_LOOKUP_URL", "https://viacep.com.br/ws"),
		HTTPClientTimeout: getDurationEnv("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		AcceptRetries:     getIntEnv("ACCEPT_RETRIES", 3),

		LocalesPath: getEnv("LOCALES_PATH", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location returns the configured time zone used for date filters and
// printed dates, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
