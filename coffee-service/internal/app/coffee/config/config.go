package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host      string // Адрес хоста (по умолчанию 0.0.0.0)
	Port      string // Порт сервера (по умолчанию 8080)
	APIPrefix string // Версионированный префикс маршрутов
}

type StorageConfig struct {
	Driver      string // postgres или memory
	AutoMigrate bool   // AutoMigrate + уникальные индексы при старте
	Seed        bool   // Начальный каталог в одной транзакции
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogLevel string // уровень логгера gorm: silent, error, warn, info
}

type CacheConfig struct {
	Backend        string        // memory или redis
	DefaultExpiry  time.Duration // Абсолютное время жизни по умолчанию
	SlidingExpiry  time.Duration // Окно скользящего истечения (только memory)
	MaxCost        int64         // Бюджет memory кеша в байтах
	WarmupSchedule string        // cron выражение прогрева списков, пусто - выключено
}

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	InstanceName string // Префикс всех ключей
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий COFFEE_CREATED, CATEGORY_UPDATED и т.д.
}

type JWTConfig struct {
	Enabled bool   // Требовать токен на изменяющих маршрутах
	Secret  string // Секретный ключ для проверки JWT токенов
	Role    string // Роль, которой разрешены изменения; пусто - любая
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "0.0.0.0"),
			Port:      getEnv("SERVER_PORT", "8080"),
			APIPrefix: getEnv("API_PREFIX", "/api/v1"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
			Seed:        getEnvBool("DB_SEED", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "coffee_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
		Cache: CacheConfig{
			Backend:        strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
			DefaultExpiry:  getEnvDuration("CACHE_DEFAULT_EXPIRY", 30*time.Minute),
			SlidingExpiry:  getEnvDuration("CACHE_SLIDING_EXPIRY", 5*time.Minute),
			MaxCost:        int64(getEnvInt("CACHE_MAX_COST", 64<<20)),
			WarmupSchedule: os.Getenv("CACHE_WARMUP_SCHEDULE"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			InstanceName: getEnv("REDIS_INSTANCE_NAME", "coffee:"),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_TOPIC", "catalog_events"),
		},
		JWT: JWTConfig{
			Enabled: getEnvBool("AUTH_ENABLED", false),
			Secret:  getEnv("JWT_SECRET", ""),
			Role:    getEnv("AUTH_WRITE_ROLE", "admin"),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: os.Getenv("LOGSTASH_ADDR"),
		},
	}

	if _, ok := os.LookupEnv("CACHE_WARMUP_SCHEDULE"); !ok {
		cfg.Cache.WarmupSchedule = "@every 4m"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}

	if c.Cache.DefaultExpiry <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_EXPIRY must be positive")
	}
	if c.Cache.MaxCost <= 0 {
		return fmt.Errorf("CACHE_MAX_COST must be positive")
	}
	if c.JWT.Enabled && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED=true")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
