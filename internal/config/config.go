package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	BlobDir      string
	BlobBaseURL  string
	ShareBaseURL string
	SeedFile     string
}

// Load reads configuration from the environment, with a .env file as
// fallback for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		MongoURI:     getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGO_DB", "shareit"),
		JWTSecret:    getenv("JWT_SECRET", ""),
		BlobDir:      getenv("BLOB_DIR", "./data/blobs"),
		BlobBaseURL:  getenv("BLOB_BASE_URL", "http://localhost:8080/blobs"),
		ShareBaseURL: getenv("SHARE_BASE_URL", "https://shareit.app/r"),
		SeedFile:     getenv("SEED_FILE", "./seed/businesses.yaml"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
