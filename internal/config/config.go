package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	RetryStatuses []int
}

type SessionConfig struct {
	CookieName    string
	LoginRoute    string
	RedirectDelay time.Duration
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type PDFConfig struct {
	FontPath     string
	BoldFontPath string
}

type CompanyConfig struct {
	Name    string
	Address string
	ICO     string
	DIC     string
	Phone   string
	Email   string
}

type Config struct {
	Environment string
	Timezone    string
	Location    *time.Location
	HTTP        HTTPConfig
	API         APIConfig
	Session     SessionConfig
	DB          DBConfig
	Auth        AuthConfig
	PDF         PDFConfig
	Company     CompanyConfig
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	retryStatuses, err := parseStatuses(v.GetString("API_RETRY_STATUSES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		Timezone:    v.GetString("TIMEZONE"),
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			CORSOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		API: APIConfig{
			BaseURL:       strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Timeout:       v.GetDuration("API_TIMEOUT"),
			MaxRetries:    v.GetInt("API_MAX_RETRIES"),
			RetryBackoff:  v.GetDuration("API_RETRY_BACKOFF"),
			RetryStatuses: retryStatuses,
		},
		Session: SessionConfig{
			CookieName:    v.GetString("SESSION_COOKIE"),
			LoginRoute:    v.GetString("SESSION_LOGIN_ROUTE"),
			RedirectDelay: v.GetDuration("SESSION_REDIRECT_DELAY"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		PDF: PDFConfig{
			FontPath:     v.GetString("PDF_FONT_PATH"),
			BoldFontPath: v.GetString("PDF_FONT_BOLD_PATH"),
		},
		Company: CompanyConfig{
			Name:    v.GetString("COMPANY_NAME"),
			Address: v.GetString("COMPANY_ADDRESS"),
			ICO:     v.GetString("COMPANY_ICO"),
			DIC:     v.GetString("COMPANY_DIC"),
			Phone:   v.GetString("COMPANY_PHONE"),
			Email:   v.GetString("COMPANY_EMAIL"),
		},
	}

	applyDefaults(cfg, v)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config, v *viper.Viper) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Prague"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.CORSOrigins) == 0 && !cfg.IsProduction() {
		cfg.HTTP.CORSOrigins = []string{"*"}
	}
	// development talks to the backend on its fixed local port; production
	// deployments must name the origin explicitly.
	if cfg.API.BaseURL == "" && !cfg.IsProduction() {
		cfg.API.BaseURL = "http://localhost:5000"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if !v.IsSet("API_MAX_RETRIES") {
		cfg.API.MaxRetries = 3
	}
	if cfg.API.RetryBackoff == 0 {
		cfg.API.RetryBackoff = time.Second
	}
	if !v.IsSet("API_RETRY_STATUSES") {
		cfg.API.RetryStatuses = []int{408, 429}
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "rental_token"
	}
	if cfg.Session.LoginRoute == "" {
		cfg.Session.LoginRoute = "/login"
	}
	if cfg.Session.RedirectDelay == 0 {
		cfg.Session.RedirectDelay = 2 * time.Second
	}
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if !strings.HasPrefix(cfg.API.BaseURL, "http://") && !strings.HasPrefix(cfg.API.BaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL")
	}
	if cfg.API.MaxRetries < 0 {
		return fmt.Errorf("API_MAX_RETRIES must not be negative")
	}
	for _, status := range cfg.API.RetryStatuses {
		if status < 400 || status > 499 {
			return fmt.Errorf("API_RETRY_STATUSES accepts 4xx codes only, got %d", status)
		}
	}
	if cfg.PDF.BoldFontPath != "" && cfg.PDF.FontPath == "" {
		return fmt.Errorf("PDF_FONT_PATH is required when PDF_FONT_BOLD_PATH is set")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func parseStatuses(raw string) ([]int, error) {
	items := parseList(raw)
	result := make([]int, 0, len(items))
	for _, item := range items {
		status, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid API_RETRY_STATUSES entry %q", item)
		}
		result = append(result, status)
	}
	return result, nil
}
