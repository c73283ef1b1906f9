package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	BaseURL string
	LogFile string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
}

func Load() Config {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		DBDSN:    getenv("DB_DSN", "onlineshop.db"),
		BaseURL:  getenv("BASE_URL", "http://localhost:8080"),
		LogFile:  getenv("LOG_FILE", "./onlineshop.log"),
		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getenvInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getenv("MAIL_FROM", "noreply@onlineshop.test"),
	}

	log.Printf("[config] PORT=%s DB_DSN=%s BASE_URL=%s SMTP_HOST=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.BaseURL, cfg.SMTPHost, cfg.LogFile)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] bad %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
