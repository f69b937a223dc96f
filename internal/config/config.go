package config

import (
	"fmt"
	"os"
)

// Config is the connection descriptor and server settings, read from the
// environment. main loads .env first via godotenv.
type Config struct {
	PostgresHost     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string
	PostgresPort     string

	HTTPAddr    string
	HTTPPort    string
	UploadDir   string
	ConsulAddr  string
	ServiceName string
}

func FromEnv() Config {
	return Config{
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresName:     getenv("POSTGRES_NAME", "knowledge_vault"),
		PostgresPort:     getenv("POSTGRES_PORT", "5432"),
		HTTPAddr:         getenv("VAULT_HTTP_ADDR", "localhost"),
		HTTPPort:         getenv("VAULT_HTTP_PORT", "8085"),
		UploadDir:        getenv("VAULT_UPLOAD_DIR", "static"),
		ConsulAddr:       os.Getenv("CONSUL_HTTP_ADDR"),
		ServiceName:      getenv("VAULT_SERVICE_NAME", "vaultd"),
	}
}

// DSN renders the lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresName, c.PostgresPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
