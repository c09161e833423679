package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "LOG_MODE", "MAIL_PORT", "MAIL_FROM", "CORS_ORIGINS", "JWT_SECRET"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "pintare.db", cfg.DBDSN)
	assert.Equal(t, "development", cfg.LogMode)
	assert.Equal(t, 587, cfg.MailPort)
	assert.Equal(t, "sistema@pintare.com", cfg.MailFrom)
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("MAIL_ADMIN", "vendas@pintare.com")
	t.Setenv("JWT_SECRET", "s3cr3t")
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2525, cfg.MailPort)
	assert.Equal(t, "vendas@pintare.com", cfg.MailAdmin)
	assert.Equal(t, "s3cr3t", cfg.JWTSecret)
}

func TestLoadBadMailPort(t *testing.T) {
	t.Setenv("MAIL_PORT", "smtp")
	assert.Equal(t, 587, Load().MailPort)
}
