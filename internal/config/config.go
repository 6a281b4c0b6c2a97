package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI        string
	MongoDatabase   string
	NATSURL         string
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOBucket     string
	MinIOUseSSL     bool
	RedisAddress    string
	HTTPPort        string
	JWTSecret       string
	GeocoderBaseURL string
	UploadWorkers   int
	SMTPHost        string
	SMTPPort        int
	SMTPEmail       string
	SMTPPassword    string
}

func Load() (*Config, error) {
	// .env is optional; environment variables are the primary source.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on environment variables")
	}

	cfg := &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "staybooking"),
		NATSURL:         getEnv("NATS_URL", "nats://localhost:4222"),
		MinIOEndpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:     getEnv("MINIO_BUCKET", "listing-photos"),
		MinIOUseSSL:     getBoolEnv("MINIO_USE_SSL", false),
		RedisAddress:    getEnv("REDIS_ADDRESS", "localhost:6379"),
		HTTPPort:        getEnv("HTTP_PORT", "8083"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		GeocoderBaseURL: getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		UploadWorkers:   getIntEnv("UPLOAD_WORKERS", 4),
		SMTPHost:        getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        getIntEnv("SMTP_PORT", 587),
		SMTPEmail:       getEnv("SMTP_EMAIL", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("FATAL: JWT_SECRET is not set. This is required for security.")
	}
	if cfg.UploadWorkers < 1 {
		log.Printf("Warning: UPLOAD_WORKERS must be at least 1, defaulting to 4")
		cfg.UploadWorkers = 4
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', defaulting to %v", key, raw, fallback)
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', defaulting to %d", key, raw, fallback)
		return fallback
	}
	return value
}
