package config

import (
	"os"
	"time"
)

// Config — вся конфигурация приложения, собирается один раз при старте.
type Config struct {
	Port string

	Database DatabaseConfig

	// Секрет для подписи JWT и срок жизни токена
	JWTSecret []byte
	TokenTTL  time.Duration
}

// DatabaseConfig — настройки подключения к PostgreSQL.
type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Load читает конфигурацию из переменных окружения.
func Load() *Config {
	cfg := &Config{
		Port: os.Getenv("PORT"),
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		},
		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:  time.Hour,
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Устанавливаем порт по умолчанию
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	return cfg
}
