package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// Server
	Env            string
	HTTPAddr       string
	AllowedOrigins []string

	// Storage
	DatabaseURL   string
	RedisAddrs    []string
	RedisPass     string
	RedisDB       int
	RedisPoolSize int
	RedisCluster  bool
	WorkspaceTTL  time.Duration

	// Remote generation
	GeminiAPIKey      string
	GeminiModel       string
	AITimeout         time.Duration
	KnowledgeBasePath string
	KnowledgeMaxChars int

	// JWT
	JWTSecret string
	JWTIssuer string

	// Archive
	S3              S3Config
	ArchiveSchedule string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		Env:            getEnv("APP_ENV", "production"),
		HTTPAddr:       ":" + strings.TrimPrefix(getEnv("HTTP_PORT", "8000"), ":"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddrs:    getEnvSlice("REDIS_ADDRESSES", nil),
		RedisPass:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
		RedisCluster:  strings.ToLower(getEnv("REDIS_CLUSTER", "false")) == "true",
		WorkspaceTTL:  getEnvDuration("WORKSPACE_TTL", 7*24*time.Hour),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		AITimeout:         getEnvDuration("AI_TIMEOUT", 60*time.Second),
		KnowledgeBasePath: getEnv("KNOWLEDGE_BASE_PATH", ""),
		KnowledgeMaxChars: getEnvInt("KNOWLEDGE_BASE_MAX_CHARS", 500000),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", ""),

		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "eu-west-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("S3_PREFIX", ""),
		},
		ArchiveSchedule: getEnv("ARCHIVE_SCHEDULE", "0 0 3 * * *"),
	}
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
