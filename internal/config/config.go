package config

import "os"

type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	SessionSecret string
	UploadDir     string
	Admin         AdminConfig
}

type AdminConfig struct {
	Email    string
	Password string
}

func Load() *Config {
	return &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SessionSecret: getEnv("SESSION_SECRET", "cardapio-dev-secret"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@noirmenu.com"),
			Password: getEnv("ADMIN_PASSWORD", "senhaforte123"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
