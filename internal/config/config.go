package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	RedisURL    string
	FilterStore string
	FilterTTL   time.Duration
	CatalogTTL  time.Duration

	FlavorProfilesPath string
	CountMode          string

	SecretKey         string
	InternalSecretKey string
	CORSOrigin        string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    getEnv("APP_PORT", "8080"),
		AppEnv:     os.Getenv("APP_ENV"),

		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		FilterStore: strings.ToLower(getEnv("FILTER_STORE", StoreMemory)),
		FilterTTL:   getDuration("FILTER_TTL", 0),
		CatalogTTL:  getDuration("CATALOG_TTL", 5*time.Minute),

		FlavorProfilesPath: os.Getenv("FLAVOR_PROFILES_PATH"),
		CountMode:          getEnv("COUNT_MODE", "isolated"),

		SecretKey:         os.Getenv("SECRET_KEY"),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
		CORSOrigin:        getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go duration strings ("90s", "5m"). Invalid values fall back.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
