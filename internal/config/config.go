package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Auth     AuthConfig     `yaml:"auth"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Sales    SalesConfig    `yaml:"sales"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	// TrustedProxy makes client IPs come from X-Forwarded-For / X-Real-IP. Enable only
	// behind a proxy that overwrites those headers.
	TrustedProxy bool `yaml:"trusted_proxy"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver"` // pgx or postgres
	URL         string `yaml:"url"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// RabbitMQConfig with an empty URL makes outbound webhooks dispatch in-process.
type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

type SMTPConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	From         string `yaml:"from"`
	SupportInbox string `yaml:"support_inbox"`
}

type AuthConfig struct {
	SessionTTL      time.Duration `yaml:"session_ttl"`
	SessionCacheTTL time.Duration `yaml:"session_cache_ttl"`
	LoginRateLimit  int           `yaml:"login_rate_limit"` // attempts per minute per IP
	AdminEmail      string        `yaml:"admin_email"`
	AdminPassword   string        `yaml:"admin_password"`
}

type WebhookConfig struct {
	SalesToken      string        `yaml:"sales_token"`
	DeliveryTimeout time.Duration `yaml:"delivery_timeout"`
}

type SalesConfig struct {
	PendingTTL         time.Duration `yaml:"pending_ttl"` // 0 disables expiration
	ExpirationInterval time.Duration `yaml:"expiration_interval"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Driver:      "pgx",
			AutoMigrate: true,
		},
		SMTP: SMTPConfig{
			Port: 587,
			From: "nao-responda@salesdesk.local",
		},
		Auth: AuthConfig{
			SessionTTL:      24 * time.Hour,
			SessionCacheTTL: time.Minute,
			LoginRateLimit:  10,
		},
		Webhook: WebhookConfig{
			DeliveryTimeout: 10 * time.Second,
		},
		Sales: SalesConfig{
			ExpirationInterval: time.Minute,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path (skipped when
// missing), then environment variables.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL é obrigatório")
	}
	if c.Database.Driver != "pgx" && c.Database.Driver != "postgres" {
		return fmt.Errorf("DB_DRIVER inválido: %s (use pgx ou postgres)", c.Database.Driver)
	}
	if c.Sales.PendingTTL < 0 {
		return errors.New("SALE_PENDING_TTL não pode ser negativo")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")

	setString(&cfg.SMTP.Host, "MAIL_HOST")
	setString(&cfg.SMTP.User, "MAIL_USER")
	setString(&cfg.SMTP.Password, "MAIL_PASS")
	setString(&cfg.SMTP.From, "MAIL_FROM")
	setString(&cfg.SMTP.SupportInbox, "SUPPORT_INBOX")

	setString(&cfg.Auth.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.Auth.AdminPassword, "ADMIN_PASSWORD")
	setString(&cfg.Webhook.SalesToken, "WEBHOOK_SALES_TOKEN")

	var errs []error
	errs = append(errs,
		setInt(&cfg.SMTP.Port, "MAIL_PORT"),
		setInt(&cfg.Auth.LoginRateLimit, "LOGIN_RATE_LIMIT"),
		setBool(&cfg.Database.AutoMigrate, "AUTO_MIGRATE"),
		setBool(&cfg.Server.TrustedProxy, "TRUSTED_PROXY"),
		setDuration(&cfg.Auth.SessionTTL, "SESSION_TTL"),
		setDuration(&cfg.Auth.SessionCacheTTL, "SESSION_CACHE_TTL"),
		setDuration(&cfg.Webhook.DeliveryTimeout, "WEBHOOK_DELIVERY_TIMEOUT"),
		setDuration(&cfg.Sales.PendingTTL, "SALE_PENDING_TTL"),
		setDuration(&cfg.Sales.ExpirationInterval, "SALE_EXPIRATION_INTERVAL"),
	)
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

// setDuration accepts Go durations ("90s", "2h") or a bare number of seconds.
func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
