package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Rowstore RowstoreConfig
	SMTP     SMTPConfig
	Webhook  WebhookConfig
	Debug    DebugConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	AuditTopicName     string
}

// DatabaseConfig points at the optional operational store. An empty
// connection string disables audit and transcript persistence.
type DatabaseConfig struct {
	Connection string
}

// RowstoreConfig points at the external row store holding the tenant
// registry and each tenant's lead table.
type RowstoreConfig struct {
	BaseURL        string
	ApiKey         string
	RegistryBaseId string
	CacheTTLMins   int
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type WebhookConfig struct {
	SigningKey      string
	TrackingMailbox string
}

type DebugConfig struct {
	Key string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AuditTopicName:     getEnv("AUDIT_TOPIC_NAME", "NOTES_AUDIT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Rowstore: RowstoreConfig{
			BaseURL:        getEnv("ROWSTORE_BASE_URL", "https://api.airtable.com/v0"),
			ApiKey:         getEnv("ROWSTORE_API_KEY", ""),
			RegistryBaseId: getEnv("ROWSTORE_REGISTRY_BASE_ID", ""),
			CacheTTLMins:   getEnvAsInt("TENANT_CACHE_TTL_MINS", 5),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Lead Inbox"),
		},
		Webhook: WebhookConfig{
			SigningKey:      getEnv("WEBHOOK_SIGNING_KEY", ""),
			TrackingMailbox: getEnv("TRACKING_MAILBOX", ""),
		},
		Debug: DebugConfig{
			Key: getEnv("DEBUG_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
