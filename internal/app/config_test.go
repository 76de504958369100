package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("success - defaults", func(t *testing.T) {
		for _, k := range []string{"APP_ENV", "PORT", "DB_HOST", "JWT_TTL", "SEED_DEMO", "KAFKA_BROKER"} {
			t.Setenv(k, "")
		}

		cfg := LoadConfig()

		assert.Equal(t, "3001", cfg.Port)
		assert.Equal(t, "localhost", cfg.Postgres.Host)
		assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
		assert.False(t, cfg.SeedDemo)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("success - overrides", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("PORT", "8080")
		t.Setenv("JWT_TTL", "2h")
		t.Setenv("SEED_DEMO", "true")

		cfg := LoadConfig()

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
		assert.True(t, cfg.SeedDemo)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("negative - bad ttl keeps default", func(t *testing.T) {
		t.Setenv("JWT_TTL", "soon")

		cfg := LoadConfig()
		assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	})
}
