package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Store drivers accepted by STORE_DRIVER
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config represents the application configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	Store       StoreConfig
	Mongo       MongoConfig
	Database    DatabaseConfig
	Chain       ChainConfig
	Log         LogConfig
	Metrics     MetricsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Env  string
}

// StoreConfig selects the record store backend
type StoreConfig struct {
	Driver string
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI            string
	Username       string
	Password       string
	Hostname       string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// GetURI returns MONGODB_URI when set, otherwise builds one from the credential parts
func (c *MongoConfig) GetURI() string {
	if c.URI != "" {
		return c.URI
	}
	u := url.URL{
		Scheme: "mongodb",
		Host:   c.Hostname + ":27017",
		Path:   "/" + c.Database,
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u.String()
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ChainConfig tunes the slug finalize step of chain creation
type ChainConfig struct {
	FinalizeRetries int
	FinalizeBackoff time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Prefix string
}

// Load loads the application configuration from environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: "cadena-service",
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", DriverMongo),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGODB_URI", ""),
			Username:       getEnv("MONGODB_USERNAME", ""),
			Password:       getEnv("MONGODB_PASSWORD", ""),
			Hostname:       getEnv("MONGODB_HOSTNAME", "localhost"),
			Database:       getEnv("MONGODB_DATABASE", "appdb"),
			Collection:     getEnv("MONGODB_COLLECTION", "cadenas"),
			ConnectTimeout: getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "cadenas_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnv("DB_LOG_LEVEL", "info"),
		},
		Chain: ChainConfig{
			FinalizeRetries: getEnvAsInt("CHAIN_FINALIZE_RETRIES", 3),
			FinalizeBackoff: getEnvAsDuration("CHAIN_FINALIZE_BACKOFF", 50*time.Millisecond),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "cadena"),
		},
	}

	switch cfg.Store.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}
	if cfg.Chain.FinalizeRetries < 1 {
		cfg.Chain.FinalizeRetries = 1
	}

	return cfg, nil
}

// LogFields returns the configuration as zap fields, without credentials
func (c *Config) LogFields() []zap.Field {
	fields := []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("store_driver", c.Store.Driver),
		zap.Int("finalize_retries", c.Chain.FinalizeRetries),
	}
	switch c.Store.Driver {
	case DriverMongo:
		fields = append(fields,
			zap.String("mongo_host", c.Mongo.Hostname),
			zap.String("mongo_database", c.Mongo.Database),
			zap.String("mongo_collection", c.Mongo.Collection))
	case DriverPostgres:
		fields = append(fields,
			zap.String("db_host", c.Database.Host),
			zap.String("db_port", c.Database.Port),
			zap.String("db_name", c.Database.Name))
	}
	return fields
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
