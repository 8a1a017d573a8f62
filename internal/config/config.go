package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Reconcile     ReconcileConfig     `mapstructure:"reconcile"`
	Documents     DocumentsConfig     `mapstructure:"documents"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTL        int    `mapstructure:"token_ttl_hours"`
	TokenIssuer     string `mapstructure:"token_issuer"`
	LoginRateLimit  int    `mapstructure:"login_rate_limit"`
	LoginRateWindow int    `mapstructure:"login_rate_window_seconds"`
}

// NotificationsConfig holds notification dispatcher configuration
type NotificationsConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	Workers    int  `mapstructure:"workers"`
	MaxRetries int  `mapstructure:"max_retries"`
}

// CacheConfig holds caching configuration
type CacheConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	TourEventTTL int  `mapstructure:"tour_event_ttl"`
	TemplateTTL  int  `mapstructure:"template_ttl"`
}

// ReconcileConfig holds the capacity sweep configuration
type ReconcileConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// DocumentsConfig holds document storage configuration
type DocumentsConfig struct {
	StorageDir string `mapstructure:"storage_dir"`
}

// LoadConfig loads configuration from environment and config files
func LoadConfig() (*Config, error) {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 120)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.dbname", "touristhub")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("auth.token_ttl_hours", 24)
	viper.SetDefault("auth.token_issuer", "tourist-hub-api")
	viper.SetDefault("auth.login_rate_limit", 10)
	viper.SetDefault("auth.login_rate_window_seconds", 60)
	viper.SetDefault("notifications.enabled", true)
	viper.SetDefault("notifications.workers", 4)
	viper.SetDefault("notifications.max_retries", 3)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.tour_event_ttl", 300)
	viper.SetDefault("cache.template_ttl", 900)
	viper.SetDefault("reconcile.enabled", true)
	viper.SetDefault("reconcile.schedule", "15 3 * * *")
	viper.SetDefault("documents.storage_dir", "./data/documents")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
