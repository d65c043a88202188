package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config groups the application configuration (read via Viper from env and
// optionally a file).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Billing BillingConfig
	Stock   StockConfig
	SMTP    SMTPConfig
}

// AppConfig is general application configuration.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// BillingConfig pins the billing conventions per deployment. The company
// profile used to stamp invoices is an explicit reference resolved once at
// startup, not a constant buried in use-case code. Numbering picks exactly
// one strategy; the two formats are never mixed.
type BillingConfig struct {
	CompanyProfileID int64
	Currency         string
	Numbering        string // "monthly" (INV-YYYYMM-NNNN) or "order" (INV-<order id>)
	DueDays          int
}

// StockConfig holds stock-ledger policy.
type StockConfig struct {
	OverdraftPolicy   string // "clamp" or "reject"
	LowStockThreshold int    // aggregate units below which replenishment triggers
}

// SMTPConfig configures outbound mail (collaborator, post-commit only).
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// DBConfig is PostgreSQL configuration. A non-empty DatabaseURL wins over
// the individual fields.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString returns the DSN to use: DatabaseURL when set, otherwise
// one built from the parts.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds the PostgreSQL connection string, URL-encoding credentials.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configures token validation for actor resolution.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from environment variables (and optionally a
// .env file; env vars win).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "pharmstock-api"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "pharmstock"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "pharmstock-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Billing: BillingConfig{
			CompanyProfileID: int64(getInt(v, "BILLING_COMPANY_PROFILE_ID", 1)),
			Currency:         getString(v, "BILLING_CURRENCY", "INR"),
			Numbering:        getString(v, "BILLING_NUMBERING", "monthly"),
			DueDays:          getInt(v, "BILLING_DUE_DAYS", 7),
		},
		Stock: StockConfig{
			OverdraftPolicy:   getString(v, "STOCK_POLICY", "clamp"),
			LowStockThreshold: getInt(v, "LOW_STOCK_THRESHOLD", 20),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			Username: getString(v, "SMTP_USERNAME", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "no-reply@pharmstock.local"),
		},
	}

	if cfg.Billing.Numbering != "monthly" && cfg.Billing.Numbering != "order" {
		return nil, fmt.Errorf("config: BILLING_NUMBERING must be monthly or order, got %q", cfg.Billing.Numbering)
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
