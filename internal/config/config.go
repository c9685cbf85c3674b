// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageBackendRedis  = "redis"
	StorageBackendMemory = "memory"
)

// Catalog sources
const (
	CatalogSourceStatic   = "static"
	CatalogSourcePostgres = "postgres"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Security SecurityConfig
	Storage  StorageConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	Company  CompanyConfig
	Email    EmailConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SeedCatalog  bool
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SessionConfig contains guest session token configuration
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// StorageConfig contains durable slot configuration
type StorageConfig struct {
	Backend      string
	CartKey      string
	WishlistKey  string
	LastOrderKey string
	TTL          time.Duration
}

// CatalogConfig contains product catalog configuration
type CatalogConfig struct {
	Source          string
	DefaultMaxPrice string
}

// CheckoutConfig contains mock checkout configuration
type CheckoutConfig struct {
	TaxRate        string
	Currency       string
	PaymentDelay   time.Duration
	StandardPrice  string
	ExpressPrice   string
	OvernightPrice string
	OrderNumberTag string
	ReceiptPDFDPI  uint
}

// CompanyConfig is printed on receipts
type CompanyConfig struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

// Email providers
const (
	EmailProviderLog  = "log"
	EmailProviderSMTP = "smtp"
)

// EmailConfig contains order confirmation mail configuration
type EmailConfig struct {
	Enabled      bool
	Provider     string
	FromEmail    string
	FromName     string
	ReplyTo      string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := FromEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds a Config from the current environment without reading .env
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Sithaphal Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "sithaphal_db"),
			User:         getEnv("DB_USER", "sithaphal_user"),
			Password:     getEnv("DB_PASSWORD", "sithaphal_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
			SeedCatalog:  getEnvAsBool("DB_SEED_CATALOG", true),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "change-me-sithaphal-session-secret-key"),
			TTL:        getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE", "sithaphal_session"),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-Session-Token"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Storage: StorageConfig{
			Backend:      getEnv("STORAGE_BACKEND", StorageBackendRedis),
			CartKey:      getEnv("CART_STORAGE_KEY", "sithaphal-cart"),
			WishlistKey:  getEnv("WISHLIST_STORAGE_KEY", "sithaphal-wishlist"),
			LastOrderKey: getEnv("LAST_ORDER_STORAGE_KEY", "lastOrder"),
			TTL:          getEnvAsDuration("STORAGE_TTL", 30*24*time.Hour),
		},
		Catalog: CatalogConfig{
			Source:          getEnv("CATALOG_SOURCE", CatalogSourceStatic),
			DefaultMaxPrice: getEnv("CATALOG_DEFAULT_MAX_PRICE", "30"),
		},
		Checkout: CheckoutConfig{
			TaxRate:        getEnv("TAX_RATE", "0.0875"),
			Currency:       getEnv("CURRENCY", "USD"),
			PaymentDelay:   getEnvAsDuration("PAYMENT_DELAY", 2*time.Second),
			StandardPrice:  getEnv("SHIPPING_STANDARD_PRICE", "5.99"),
			ExpressPrice:   getEnv("SHIPPING_EXPRESS_PRICE", "12.99"),
			OvernightPrice: getEnv("SHIPPING_OVERNIGHT_PRICE", "24.99"),
			OrderNumberTag: getEnv("ORDER_NUMBER_PREFIX", "SP"),
			ReceiptPDFDPI:  uint(getEnvAsInt("RECEIPT_PDF_DPI", 300)),
		},
		Company: CompanyConfig{
			Name:    getEnv("COMPANY_NAME", "Sithaphal Farms"),
			Address: getEnv("COMPANY_ADDRESS", ""),
			Phone:   getEnv("COMPANY_PHONE", ""),
			Email:   getEnv("COMPANY_EMAIL", "orders@sithaphal.example"),
			Website: getEnv("COMPANY_WEBSITE", ""),
		},
		Email: EmailConfig{
			Enabled:      getEnvAsBool("EMAIL_ENABLED", false),
			Provider:     getEnv("EMAIL_PROVIDER", EmailProviderLog),
			FromEmail:    getEnv("EMAIL_FROM", "orders@sithaphal.example"),
			FromName:     getEnv("EMAIL_FROM_NAME", "Sithaphal Farms"),
			ReplyTo:      getEnv("EMAIL_REPLY_TO", ""),
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			SMTPUseTLS:   getEnvAsBool("SMTP_USE_TLS", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	switch c.Storage.Backend {
	case StorageBackendRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required")
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.Storage.CartKey == "" {
		return fmt.Errorf("CART_STORAGE_KEY is required")
	}

	switch c.Catalog.Source {
	case CatalogSourceStatic:
	case CatalogSourcePostgres:
		if !c.Database.Enabled {
			return fmt.Errorf("CATALOG_SOURCE=postgres requires DB_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	}

	if c.Email.Enabled {
		switch c.Email.Provider {
		case EmailProviderLog:
		case EmailProviderSMTP:
			if c.Email.SMTPHost == "" {
				return fmt.Errorf("SMTP_HOST is required for EMAIL_PROVIDER=smtp")
			}
		default:
			return fmt.Errorf("unknown EMAIL_PROVIDER %q", c.Email.Provider)
		}
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
