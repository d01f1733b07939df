package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Token    TokenConfig    `mapstructure:"token"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Mail     MailConfig     `mapstructure:"mail"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Port        int    `mapstructure:"port"`
	Env         string `mapstructure:"env"`
	BaseURL     string `mapstructure:"base_url"`
	FrontendURL string `mapstructure:"frontend_url"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TokenConfig holds signing-link and access token settings. A signing
// token is the only credential an external signer ever holds, so its
// TTL is also the lifetime of an outstanding signing request.
type TokenConfig struct {
	Secret           string `mapstructure:"secret"`
	SigningTTLHours  int    `mapstructure:"signing_ttl_hours"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
}

type StorageConfig struct {
	BasePath         string `mapstructure:"base_path"`         // Base path for document files
	UploadsFolder    string `mapstructure:"uploads_folder"`    // Source documents
	SignaturesFolder string `mapstructure:"signatures_folder"` // Hand-drawn signature images
	SignedFolder     string `mapstructure:"signed_folder"`     // Composite signed documents
	MaxUploadBytes   int64  `mapstructure:"max_upload_bytes"`
}

type MailConfig struct {
	BaseURL   string        `mapstructure:"base_url"` // Mail gateway API base URL
	APIKey    string        `mapstructure:"api_key"`
	FromEmail string        `mapstructure:"from_email"`
	FromName  string        `mapstructure:"from_name"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func NewConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Enable environment variable override
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Convert timeout to duration
	cfg.Mail.Timeout = cfg.Mail.Timeout * time.Second

	if cfg.Token.SigningTTLHours <= 0 {
		cfg.Token.SigningTTLHours = 72
	}
	if cfg.Token.AccessTTLMinutes <= 0 {
		cfg.Token.AccessTTLMinutes = 30
	}
	if cfg.Storage.MaxUploadBytes <= 0 {
		cfg.Storage.MaxUploadBytes = 10 * 1024 * 1024
	}

	return &cfg, nil
}

// SigningTokenTTL returns the signing-link token lifetime.
func (c *Config) SigningTokenTTL() time.Duration {
	return time.Duration(c.Token.SigningTTLHours) * time.Hour
}

// AccessTokenTTL returns the session access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Token.AccessTTLMinutes) * time.Minute
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
