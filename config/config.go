package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Store backend names accepted in STORE_BACKEND.
const (
	StoreBackendDynamo   = "dynamo"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	StorageBackendMinio = "minio"
	StorageBackendGCS   = "gcs"
)

type Config struct {
	ServerPort     int
	JWTSecret      string
	StoreBackend   string
	StorageBackend string
	Database       DatabaseConfig
	Dynamo         DynamoConfig
	Minio          MinioConfig
	GCS            GCSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type DynamoConfig struct {
	Table    string
	Region   string
	Endpoint string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort:     getEnvInt("SERVER_PORT", 8080),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		StoreBackend:   getEnv("STORE_BACKEND", StoreBackendDynamo),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageBackendMinio),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "authwave"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "authwave_db"),
			UseSSL:   getEnvBool("DB_USE_SSL", false),
		},
		Dynamo: DynamoConfig{
			Table:    getEnv("DYNAMO_TABLE", "AuthUsers"),
			Region:   getEnv("AWS_REGION", "us-east-1"),
			Endpoint: getEnv("DYNAMO_ENDPOINT", ""),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "authwave-profile-images"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", "authwave-profile-images"),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		return value == "true" || value == "1"
	}
	return defaultValue
}
