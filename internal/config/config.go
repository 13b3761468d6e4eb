package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string
	JWTSecret  string

	AccessTokenTTL time.Duration

	DefaultPageSize int
	MaxPageSize     int

	ScraperBaseURL   string
	ScraperRateLimit time.Duration
	ScraperRetries   int

	Environment string
	Debug       bool
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := getEnv("ENV", "development")

	var dbHost, dbSSLMode string
	if env == "production" {
		dbHost = getEnv("DB_HOST", "")
		dbSSLMode = getEnv("DB_SSLMODE", "require")
	} else {
		dbHost = getEnv("DB_HOST", "localhost")
		dbSSLMode = getEnv("DB_SSLMODE", "disable")
	}

	tokenTTLMinutes, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "30"))
	defaultPageSize, _ := strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "20"))
	maxPageSize, _ := strconv.Atoi(getEnv("MAX_PAGE_SIZE", "100"))
	scraperDelayMs, _ := strconv.Atoi(getEnv("SCRAPER_RATE_LIMIT_MS", "2000"))
	scraperRetries, _ := strconv.Atoi(getEnv("SCRAPER_MAX_RETRIES", "3"))

	cfg := &Config{
		DBHost:     dbHost,
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "offside_tool"),
		DBSSLMode:  dbSSLMode,

		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "default-jwt-secret-change-in-production"),

		AccessTokenTTL: time.Duration(tokenTTLMinutes) * time.Minute,

		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,

		ScraperBaseURL:   getEnv("SCRAPER_BASE_URL", "https://www.transfermarkt.com"),
		ScraperRateLimit: time.Duration(scraperDelayMs) * time.Millisecond,
		ScraperRetries:   scraperRetries,

		Environment: env,
		Debug:       getEnv("DEBUG", "false") == "true",
	}

	if env == "production" && cfg.JWTSecret == "default-jwt-secret-change-in-production" {
		log.Println("⚠️ JWT_SECRET not set in production, using insecure default")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
