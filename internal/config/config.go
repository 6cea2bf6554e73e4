package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config структура конфигурации
type Config struct {
	TelegramBotToken string
	JWTSecret        string
	DatabaseURL      string
	StorageDriver    string // postgres или memory
	DatabaseConfig   DatabaseConfig
	RedisConfig      RedisConfig
	CloudinaryConfig CloudinaryConfig
	DiscoveryConfig  DiscoveryConfig
	ServerConfig     ServerConfig
	AppEnv           string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig содержит конфигурацию хранилища сессий
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
	// External - REDIS_URL задан явно
	External   bool
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	UploadFolder string
}

// DiscoveryConfig содержит параметры поиска партнёров
type DiscoveryConfig struct {
	PageSize int
}

// ServerConfig содержит порты HTTP и WebSocket серверов
type ServerConfig struct {
	Port   string
	WSPort string
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	DefaultPageSize = 6
)

// LoadConfig загружает переменные из .env
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "skillswap_user"),
		Password: getEnv("PGPASSWORD", "skillswap_pass"),
		Name:     getEnv("PGDATABASE", "skillswap"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	// Формируем строку подключения к базе данных
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)

	redisConfig := RedisConfig{
		Addr:       getEnv("REDIS_URL", "localhost:6379"),
		Password:   getEnv("REDIS_PASSWORD", ""),
		DB:         getEnvInt("REDIS_DB", 0),
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),
	}
	_, redisConfig.External = os.LookupEnv("REDIS_URL")

	cloudinaryConfig := CloudinaryConfig{
		CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "skillswap_avatars"),
		UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "avatars"),
	}

	cfg := &Config{
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		DatabaseURL:      dbURL,
		StorageDriver:    getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		DatabaseConfig:   dbConfig,
		RedisConfig:      redisConfig,
		CloudinaryConfig: cloudinaryConfig,
		DiscoveryConfig:  DiscoveryConfig{PageSize: getEnvInt("DISCOVERY_PAGE_SIZE", DefaultPageSize)},
		ServerConfig: ServerConfig{
			Port:   getEnv("PORT", "8080"),
			WSPort: getEnv("WS_PORT", "8081"),
		},
		AppEnv: getEnv("APP_ENV", "production"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" || c.JWTSecret == "" {
		return fmt.Errorf("не заданы обязательные переменные окружения TELEGRAM_BOT_TOKEN и JWT_SECRET")
	}
	if c.StorageDriver != StorageDriverPostgres && c.StorageDriver != StorageDriverMemory {
		return fmt.Errorf("неизвестный STORAGE_DRIVER: %s", c.StorageDriver)
	}
	if c.DiscoveryConfig.PageSize < 1 {
		return fmt.Errorf("DISCOVERY_PAGE_SIZE должен быть положительным, получено %d", c.DiscoveryConfig.PageSize)
	}
	return nil
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️ Некорректное значение %s=%q, используем %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("⚠️ Некорректное значение %s=%q, используем %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
