package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	DatabaseURL     string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	BackendBaseURL  string
	BackendAPIToken string
	BackendTimeout  time.Duration
	TranscribeURL   string

	UploadMaxBytes   int64
	UploadParseMode  string
	UploadParseDelay time.Duration

	UnansweredPolicy    string
	RetryBaseDelay      time.Duration
	AutoSubmitOnExpiry  bool
	AssessmentTimeLimit time.Duration
	AssessmentQuestions int

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Missing .env files are fine; real deployments inject env directly.
	for _, path := range []string{".env", "cmd/.env"} {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			log.Printf("config: load %s: %v", path, err)
		}
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		BackendBaseURL:  strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:8000/api"), "/"),
		BackendAPIToken: getEnv("BACKEND_API_TOKEN", ""),
		BackendTimeout:  time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 60)) * time.Second,
		TranscribeURL:   getEnv("TRANSCRIBE_URL", ""),

		UploadMaxBytes:   int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),
		UploadParseMode:  normalizeParseMode(getEnv("UPLOAD_PARSE_MODE", "extract")),
		UploadParseDelay: getEnvDuration("UPLOAD_PARSE_DELAY", 2*time.Second),

		UnansweredPolicy:    normalizePolicy(getEnv("ASSESSMENT_UNANSWERED_POLICY", "fabricate")),
		RetryBaseDelay:      getEnvDuration("ASSESSMENT_RETRY_BASE_DELAY", time.Second),
		AutoSubmitOnExpiry:  getEnvBool("ASSESSMENT_AUTO_SUBMIT_ON_EXPIRY", false),
		AssessmentTimeLimit: getEnvDuration("ASSESSMENT_TIME_LIMIT", 30*time.Minute),
		AssessmentQuestions: getEnvInt("ASSESSMENT_QUESTION_COUNT", 10),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config: %s invalid float: %v", key, err)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config: %s invalid bool: %v", key, err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: %s invalid duration: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeParseMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mock":
		return "mock"
	default:
		return "extract"
	}
}

func normalizePolicy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "skip":
		return "skip"
	default:
		return "fabricate"
	}
}
