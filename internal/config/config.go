package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	DatabaseDSN   string
	JWTSecret     string
	CORSOrigins   string
	AdminUsername string // bootstrap admin account
	AdminPassword string
}

const defaultJWTSecret = "secretkey"

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "5000"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=markettrack port=5432 sslmode=disable"),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}

	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("[WARN] JWT_SECRET is not set, falling back to the built-in default. Tokens signed with it are forgeable; set JWT_SECRET in any real deployment.")
	}
	if cfg.AdminPassword == "admin123" {
		log.Println("[WARN] ADMIN_PASSWORD is using the default value, change it for production.")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
