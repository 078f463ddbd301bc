package config

import (
	"os"
)

type Config struct {
	Env      string
	HttpPort string
	DBDriver string // sqlite|postgres
	DBPath   string // used when DBDriver=sqlite
	DBDsn    string // used when DBDriver=postgres (e.g., DATABASE_URL)

	Region      string
	Profile     string
	S3Endpoint  string // optional, for S3-compatible services (MinIO, LocalStack)
	S3AccessKey string
	S3SecretKey string
	S3PathStyle bool
}

func Load() *Config {
	cfg := &Config{
		Env:         getEnv("APP_ENV", "dev"),
		HttpPort:    getEnv("HTTP_PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DBPath:      getEnv("DB_PATH", "data/lakectl.db"),
		DBDsn:       getEnv("DATABASE_URL", getEnv("DB_DSN", "")),
		Region:      getEnv("AWS_REGION", "us-east-1"),
		Profile:     getEnv("AWS_PROFILE", ""),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3PathStyle: getEnv("S3_FORCE_PATH_STYLE", "") == "true",
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
