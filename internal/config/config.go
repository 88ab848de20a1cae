package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	SessionSecret string
	GinMode       string

	OpenAIAPIKey string

	// Remote mirroring (Google Drive). Empty token disables mirroring.
	DriveAccessToken string
	DriveRootID      string

	// Local vault root for generated project folders.
	VaultPath string
}

func Load() *Config {
	// Missing .env is fine, env vars may be set directly.
	_ = godotenv.Load()

	return &Config{
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBUser:           getEnv("DB_USER", "pmuser"),
		DBPassword:       getEnv("DB_PASSWORD", "pmpassword"),
		DBName:           getEnv("DB_NAME", "pm_tool"),
		SessionSecret:    getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		DriveAccessToken: getEnv("DRIVE_ACCESS_TOKEN", ""),
		DriveRootID:      getEnv("DRIVE_ROOT_ID", ""),
		VaultPath:        getEnv("VAULT_PATH", "./vault"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
