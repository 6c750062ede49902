package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"party_trials/internal/logger"
)

type Config struct {
	AppPort   string
	LogLevel  string
	LogJSON   bool
	JWTSecret string

	// optional backing services; empty disables the feature
	DatabaseURL string
	RedisAddr   string
	RedisDB     int

	AllowedOrigin string

	// game tunables
	PuzzleDuration time.Duration
	TieBreak       string // "join_order" | "name"

	// rate limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Load reads configuration from the environment (.env honored in dev).
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	puzzleSeconds := envInt("PUZZLE_SECONDS", 300)

	tieBreak := os.Getenv("FINAL_TIE_BREAK")
	if tieBreak == "" {
		tieBreak = "join_order"
	}

	return &Config{
		AppPort:        port,
		LogLevel:       envDefault("LOG_LEVEL", "info"),
		LogJSON:        os.Getenv("LOG_JSON") == "true",
		JWTSecret:      jwtSecret,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisDB:        envInt("REDIS_DB", 0),
		AllowedOrigin:  os.Getenv("ALLOWED_ORIGIN"),
		PuzzleDuration: time.Duration(puzzleSeconds) * time.Second,
		TieBreak:       tieBreak,
		APIRateLimit:   envInt("API_RATE_LIMIT", 60),
		APIRateWindow:  time.Duration(envInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: time.Duration(envInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
