package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSqlite   = "sqlite"
	BackendRedis    = "redis"
)

// DBConfig holds catalog database configuration
type DBConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SqlitePath string
}

// DSN returns the lib/pq connection string
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// RedisConfig holds cart store configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type ServerConfig struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration
}

type CatalogConfig struct {
	Backend  string
	Seed     bool
	SeedFile string
}

type CartConfig struct {
	Backend string
	TTL     time.Duration
}

type Config struct {
	ServiceName string
	LogLevel    string
	Server      ServerConfig
	Catalog     CatalogConfig
	Cart        CartConfig
	DB          DBConfig
	Redis       RedisConfig
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: getEnv("SERVICE_NAME", "techstore"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "development"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Catalog: CatalogConfig{
			Backend:  getEnv("CATALOG_BACKEND", BackendMemory),
			Seed:     getEnvAsBool("SEED_CATALOG", true),
			SeedFile: getEnv("CATALOG_SEED_FILE", ""),
		},
		Cart: CartConfig{
			Backend: getEnv("CART_BACKEND", BackendMemory),
			TTL:     getEnvAsDuration("CART_TTL", 24*time.Hour),
		},
		DB: DBConfig{
			Host:       getEnv("DATABASE_HOST", "localhost"),
			Port:       getEnv("DATABASE_PORT", "5432"),
			User:       getEnv("DATABASE_USER", "postgres"),
			Password:   getEnv("DATABASE_PASSWORD", ""),
			Name:       getEnv("DATABASE_NAME", "techstore"),
			SSLMode:    getEnv("DATABASE_SSL_MODE", "disable"),
			SqlitePath: getEnv("SQLITE_PATH", "techstore.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Backend {
	case BackendMemory, BackendPostgres, BackendSqlite:
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q", c.Catalog.Backend)
	}
	switch c.Cart.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown CART_BACKEND %q", c.Cart.Backend)
	}
	if c.Cart.TTL <= 0 {
		return fmt.Errorf("CART_TTL must be positive, got %s", c.Cart.TTL)
	}
	return nil
}

// LogFields returns the configuration as zap fields, without secrets
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("catalog_backend", c.Catalog.Backend),
		zap.String("cart_backend", c.Cart.Backend),
		zap.Duration("cart_ttl", c.Cart.TTL),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
