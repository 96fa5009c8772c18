package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddress string

	MongoURI string
	MongoDB  string

	JWTSecret     string
	JWTExpiration time.Duration

	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	GCSBucket    string
	MapsAPIKey   string
	GeminiAPIKey string

	DataDir         string
	UploadDir       string
	PublicBaseURL   string
	MaxUploadSizeMB int64
}

func Load() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),

		MongoURI: getEnv("MONGODB_URI", ""),
		MongoDB:  getEnv("MONGODB_DB", "tailmate"),

		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration: 24 * time.Hour,

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),

		GCSBucket:    getEnv("GCS_BUCKET", ""),
		MapsAPIKey:   getEnv("MAPS_API_KEY", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		DataDir:         getEnv("DATA_DIR", "./data"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		MaxUploadSizeMB: getEnvInt64("MAX_UPLOAD_SIZE_MB", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
