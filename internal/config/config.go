package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"` // public origin used to build gateway callback URLs
	Lang    string `yaml:"lang"`     // customer-facing message catalog: tr | en
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type StorageConfig struct {
	DataDir    string `yaml:"data_dir"`    // JSON documents (orders, users, coupons, config, logs)
	UploadsDir string `yaml:"uploads_dir"` // customer PDFs
}

type RedisConfig struct {
	URL      string `yaml:"url"` // empty disables rate limiting
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PaymentConfig struct {
	PayTR struct {
		// Merchant credentials come from the environment
		// (PAYTR_MERCHANT_ID / PAYTR_MERCHANT_KEY / PAYTR_MERCHANT_SALT);
		// yaml values act as a fallback for local development only.
		MerchantID   string        `yaml:"merchant_id"`
		MerchantKey  string        `yaml:"merchant_key"`
		MerchantSalt string        `yaml:"merchant_salt"`
		TestMode     bool          `yaml:"test_mode"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"paytr"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"` // env JWT_SECRET wins
	SessionTTL    time.Duration `yaml:"session_ttl"`
	AdminTTL      time.Duration `yaml:"admin_ttl"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"` // env ADMIN_PASSWORD wins; empty disables the admin panel
	Secure        bool          `yaml:"secure"` // Secure cookies; true behind TLS
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	Payment PaymentConfig `yaml:"payment"`
	Auth    AuthConfig    `yaml:"auth"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	// Minimal validation. Gateway credentials are validated lazily: their
	// absence is fatal for payment operations, not for process start.
	if cfg.Server.BaseURL == "" {
		return nil, errors.New("server.base_url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret (or JWT_SECRET) is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Lang == "" {
		cfg.Server.Lang = "tr"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.UploadsDir == "" {
		cfg.Storage.UploadsDir = "data/uploads"
	}
	if cfg.Payment.PayTR.Timeout <= 0 {
		cfg.Payment.PayTR.Timeout = 20 * time.Second
	}
	if cfg.Auth.SessionTTL <= 0 {
		cfg.Auth.SessionTTL = 30 * 24 * time.Hour
	}
	if cfg.Auth.AdminTTL <= 0 {
		cfg.Auth.AdminTTL = 30 * time.Minute
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PAYTR_MERCHANT_ID"); v != "" {
		cfg.Payment.PayTR.MerchantID = v
	}
	if v := os.Getenv("PAYTR_MERCHANT_KEY"); v != "" {
		cfg.Payment.PayTR.MerchantKey = v
	}
	if v := os.Getenv("PAYTR_MERCHANT_SALT"); v != "" {
		cfg.Payment.PayTR.MerchantSalt = v
	}
	if v := os.Getenv("PAYTR_TEST_MODE"); v == "1" {
		cfg.Payment.PayTR.TestMode = true
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Auth.AdminPassword = v
	}
}
