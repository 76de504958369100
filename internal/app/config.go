package app

import (
	"os"
	"strconv"
	"time"

	"go-leave/internal/auth"
	"go-leave/internal/shared/connection"
)

type Config struct {
	Env         string
	Port        string
	Postgres    connection.PostgresConfig
	RedisAddr   string
	KafkaBroker string
	JWTSecret   string
	JWTTTL      time.Duration
	SeedDemo    bool
}

// LoadConfig reads the process environment. Call godotenv.Load first to
// pick up a local .env file.
func LoadConfig() Config {
	cfg := Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "3001"),
		Postgres: connection.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "go_leave"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),
		JWTTTL:      auth.DefaultTokenTTL,
	}

	if v := os.Getenv("JWT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.JWTTTL = d
		}
	}
	if v, err := strconv.ParseBool(os.Getenv("SEED_DEMO")); err == nil {
		cfg.SeedDemo = v
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
