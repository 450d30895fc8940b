package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"

	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	Storage                      string
	MongoURI                     string
	MongoDatabase                string
	ProfileCollection            string
	ReviewCollection             string
	FailedNotificationCollection string
	Timeout                      time.Duration
	Timezone                     string
	ServerLog                    *log.Logger
	JWT                          JWTConfig
	JWTAudience                  string
	PublicBaseURL                string
	AllowedOrigins               []string

	RateLimitBackend string
	RateLimitMax     int
	RateLimitWindow  time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisPrefix      string

	SessionTTL            time.Duration
	DeepLinkFallbackDelay time.Duration

	MessengerEndpoint    string
	MessengerDestination string
	MessengerTimeout     time.Duration
	MessengerRPS         float64
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET must be configured")
	}

	storage := strings.ToLower(envOrDefault("STORAGE", StorageMongo))
	if storage != StorageMongo && storage != StorageMemory {
		log.Fatalf("STORAGE must be %q or %q, got %q", StorageMongo, StorageMemory, storage)
	}

	rateLimitBackend := strings.ToLower(envOrDefault("RATE_LIMIT_BACKEND", RateLimitMemory))
	if rateLimitBackend != RateLimitMemory && rateLimitBackend != RateLimitRedis {
		log.Fatalf("RATE_LIMIT_BACKEND must be %q or %q, got %q", RateLimitMemory, RateLimitRedis, rateLimitBackend)
	}

	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8080"),
		Storage:                      storage,
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "review-guard"),
		ProfileCollection:            envOrDefault("PROFILE_COLLECTION", "profiles"),
		ReviewCollection:             envOrDefault("REVIEW_COLLECTION", "reviews"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		Timeout:                      durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		Timezone:                     envOrDefault("TIMEZONE", "Europe/Istanbul"),
		ServerLog:                    log.New(os.Stdout, "[review-guard] ", log.LstdFlags|log.Lshortfile),
		JWT: JWTConfig{
			Issuer: strings.TrimSpace(os.Getenv("AUTH_JWT_ISSUER")),
			Secret: []byte(secret),
		},
		JWTAudience:    strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		PublicBaseURL:  strings.TrimRight(envOrDefault("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		AllowedOrigins: parseList("API_ALLOWED_ORIGINS", []string{"*"}),

		RateLimitBackend: rateLimitBackend,
		RateLimitMax:     intOrDefault("RATE_LIMIT_MAX", 3),
		RateLimitWindow:  durationOrDefault("RATE_LIMIT_WINDOW", 60*time.Second),
		RedisAddr:        envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          intOrDefault("REDIS_DB", 0),
		RedisPrefix:      envOrDefault("REDIS_PREFIX", "review-guard:ratelimit"),

		SessionTTL:            durationOrDefault("SESSION_TTL", 30*time.Minute),
		DeepLinkFallbackDelay: durationOrDefault("DEEPLINK_FALLBACK_DELAY", 300*time.Millisecond),

		MessengerEndpoint:    strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL")),
		MessengerDestination: envOrDefault("MESSENGER_DESTINATION", "line"),
		MessengerTimeout:     durationOrDefault("MESSENGER_TIMEOUT", 3*time.Second),
		MessengerRPS:         floatOrDefault("MESSENGER_RPS", 1),
	}

	cfg.ServerLog.Printf("loaded config: storage=%s rateLimit=%s(%d/%s) publicBaseURL=%q messengerEndpoint=%q",
		cfg.Storage, cfg.RateLimitBackend, cfg.RateLimitMax, cfg.RateLimitWindow, cfg.PublicBaseURL, cfg.MessengerEndpoint)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func intOrDefault(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}

func floatOrDefault(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
