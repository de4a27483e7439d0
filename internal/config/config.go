package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port        string
	DatabaseURL string // sqlite path, sqlite://path or postgres://...
	DataDir     string
	ImagesDir   string
	ExportsDir  string
	CORSOrigins []string
	JWTSecret   string // Empty disables admin auth

	InferenceURL    string // External CV/NLP service; empty uses keyword rules
	InferenceScript string // Local worker script, used when InferenceURL is empty
	PythonBin       string

	RedisAddr    string // Empty disables event publishing
	RedisChannel string

	DupRadiusMeters float64
	DupScanLimit    int
	RateLimit       int // POST /complaints per IP per minute

	MaxUploadBytes int64
}

// Load 加载配置
func Load() *Config {
	_ = godotenv.Load(".env")

	dataDir := getEnv("DATA_DIR", "./data")

	return &Config{
		Port:        normalizePort(getEnv("PORT", ":8000")),
		DatabaseURL: getEnv("DATABASE_URL", filepath.Join(dataDir, "complaints.db")),
		DataDir:     dataDir,
		ImagesDir:   getEnv("IMAGES_DIR", filepath.Join(dataDir, "images")),
		ExportsDir:  getEnv("EXPORTS_DIR", filepath.Join(dataDir, "exports")),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		InferenceURL:    getEnv("INFERENCE_URL", ""),
		InferenceScript: getEnv("INFERENCE_SCRIPT", ""),
		PythonBin:       getEnv("PYTHON_BIN", "python"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisChannel: getEnv("REDIS_CHANNEL", "smartcity:events"),

		DupRadiusMeters: getEnvFloat("DUP_RADIUS_METERS", 250.0),
		DupScanLimit:    getEnvInt("DUP_SCAN_LIMIT", 200),
		RateLimit:       getEnvInt("RATE_LIMIT", 30),

		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024,
	}
}

func normalizePort(p string) string {
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
