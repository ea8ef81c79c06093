package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                  string
	FrontendURL           string
	AllowedOrigins        []string
	DatabaseURL           string
	DBMaxOpenConns        int
	DBMaxIdleConns        int
	DBConnMaxLifetimeMin  int
	RedisAddr             string
	RedisPassword         string
	JWTSecret             string
	AccessTokenTTLMinutes int
	LobbyBotFallback      time.Duration
	OAuth                 OAuthConfig
}

var AppConfig *Config

func LoadConfig() *Config {
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")

	allowedOrigins := []string{frontendURL, "http://localhost:5173"}
	if extras := GetEnv("ALLOWED_ORIGINS", ""); extras != "" {
		for _, origin := range strings.Split(extras, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	AppConfig = &Config{
		Port:                  GetEnv("PORT", "8080"),
		FrontendURL:           frontendURL,
		AllowedOrigins:        allowedOrigins,
		DatabaseURL:           GetEnv("DATABASE_URL", ""),
		DBMaxOpenConns:        GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:        GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin:  GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisAddr:             GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:         GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:             GetEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AccessTokenTTLMinutes: GetEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 60),
		LobbyBotFallback:      time.Duration(GetEnvAsInt("LOBBY_BOT_FALLBACK_SECONDS", 10)) * time.Second,
		OAuth:                 LoadOAuthConfig(),
	}
	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
