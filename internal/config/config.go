package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Port        string
	DBDSN       string
	LogFile     string
	LogMode     string
	JWTSecret   string
	MailHost    string
	MailPort    int
	MailUser    string
	MailPass    string
	MailFrom    string
	MailAdmin   string
	CORSOrigins string
}

// Load reads .env (when present) and then the environment. Variables
// already set in the environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	cfg := Config{
		Port:        getEnv("PORT", "3000"),
		DBDSN:       getEnv("DB_DSN", "pintare.db"), // sqlite file in working dir
		LogFile:     os.Getenv("LOG_FILE"),
		LogMode:     getEnv("LOG_MODE", "development"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		MailHost:    os.Getenv("MAIL_HOST"),
		MailPort:    cast.ToInt(getEnv("MAIL_PORT", "587")),
		MailUser:    os.Getenv("MAIL_USER"),
		MailPass:    os.Getenv("MAIL_PASS"),
		MailFrom:    getEnv("MAIL_FROM", "sistema@pintare.com"),
		MailAdmin:   os.Getenv("MAIL_ADMIN"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
	if cfg.MailPort <= 0 {
		log.Printf("[config] invalid MAIL_PORT=%q, using 587", os.Getenv("MAIL_PORT"))
		cfg.MailPort = 587
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s MAIL_HOST=%s MAIL_ADMIN=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.MailHost, cfg.MailAdmin)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
