// Package config carga la configuración del servicio: defaults, archivo YAML
// opcional y variables de entorno (con .env opcional), en ese orden de precedencia.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del servicio.
type Config struct {
	// Env: development | production. En development se expone el detalle de errores 500.
	Env        string           `yaml:"env"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Mail       MailConfig       `yaml:"mail"`
	Donations  DonationsConfig  `yaml:"donations"`
	Pagination PaginationConfig `yaml:"pagination"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Tasks      TasksConfig      `yaml:"tasks"`
	Activity   ActivityConfig   `yaml:"activity"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// RequestTimeout es el deadline de cada request (incluye las consultas a la base).
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Driver: postgres | sqlite
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
	App    string `yaml:"app"`
}

// MailConfig: sin Host se usa un mailer que sólo registra en el log.
type MailConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Pass       string `yaml:"pass"`
	From       string `yaml:"from"`
	AdminEmail string `yaml:"admin_email"`
	SiteURL    string `yaml:"site_url"`
}

type DonationsConfig struct {
	MinAmount       float64 `yaml:"min_amount"`
	ReferencePrefix string  `yaml:"reference_prefix"`
	ReferenceWidth  int     `yaml:"reference_width"`
}

type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RateLimitConfig: Requests por Window, por IP. Requests=0 desactiva el límite.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type TasksConfig struct {
	Workers    int           `yaml:"workers"`
	MaxRetries uint64        `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
}

type ActivityConfig struct {
	RetentionDays   int    `yaml:"retention_days"`
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

func DefaultConfig() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    20 * time.Second,
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "database/afad.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			App:    "afad-api",
		},
		Mail: MailConfig{
			Port:       587,
			From:       "noreply@afad.org",
			AdminEmail: "admin@afad.org",
			SiteURL:    "http://localhost:3000",
		},
		Donations: DonationsConfig{
			MinAmount:       10,
			ReferencePrefix: "AFAD",
			ReferenceWidth:  6,
		},
		Pagination: PaginationConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   15 * time.Minute,
		},
		Tasks: TasksConfig{
			Workers:    32,
			MaxRetries: 3,
			Timeout:    10 * time.Second,
		},
		Activity: ActivityConfig{
			RetentionDays:   30,
			CleanupSchedule: "0 3 * * *",
		},
	}
}

// Load arma la configuración: .env (si existe) → defaults → YAML en path (si path != "") → env.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile carga un YAML sobre los defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ApplyEnv pisa los valores con las variables de entorno presentes.
// lookup es os.LookupEnv en producción; los tests pasan un mapa.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	var errs []error
	str := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := cast.ToIntE(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	if v, ok := get("PORT"); ok {
		if strings.Contains(v, ":") {
			c.Server.Addr = v
		} else {
			c.Server.Addr = ":" + v
		}
	}
	str("APP_ENV", &c.Env)
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_DSN", &c.Database.DSN)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)
	str("APP_NAME", &c.Log.App)
	str("SMTP_HOST", &c.Mail.Host)
	integer("SMTP_PORT", &c.Mail.Port)
	str("SMTP_USER", &c.Mail.User)
	str("SMTP_PASS", &c.Mail.Pass)
	str("SMTP_FROM", &c.Mail.From)
	str("ADMIN_EMAIL", &c.Mail.AdminEmail)
	str("FRONTEND_URL", &c.Mail.SiteURL)

	if v, ok := get("FRONTEND_URL"); ok {
		c.CORS.AllowedOrigins = []string{v}
	}
	if v, ok := get("DONATION_MIN_AMOUNT"); ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DONATION_MIN_AMOUNT: %w", err))
		} else {
			c.Donations.MinAmount = f
		}
	}
	if v, ok := get("REQUEST_TIMEOUT"); ok {
		d, err := cast.ToDurationE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT: %w", err))
		} else {
			c.Server.RequestTimeout = d
		}
	}
	integer("RATE_LIMIT_REQUESTS", &c.RateLimit.Requests)

	return errors.Join(errs...)
}

// Validate chequea que la configuración sea usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "postgresql", "pgx", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Donations.MinAmount <= 0 {
		return fmt.Errorf("donations.min_amount must be positive")
	}
	if strings.TrimSpace(c.Donations.ReferencePrefix) == "" {
		return fmt.Errorf("donations.reference_prefix is required")
	}
	if c.Donations.ReferenceWidth < 1 || c.Donations.ReferenceWidth > 18 {
		return fmt.Errorf("donations.reference_width must be between 1 and 18")
	}
	if c.Pagination.DefaultLimit < 1 || c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("pagination: need 1 <= default_limit <= max_limit")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rate_limit.requests must not be negative")
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive")
	}
	if c.Activity.RetentionDays < 0 {
		return fmt.Errorf("activity.retention_days must not be negative")
	}
	return nil
}

// IsDevelopment reporta si el servicio corre en modo desarrollo.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}
