package config

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	Mail      MailConfig
	Log       LogConfig
	Store     StoreConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	ClientURL string `mapstructure:"client_url"`
	StaticDir string `mapstructure:"static_dir"`
	UploadDir string `mapstructure:"upload_dir"`
}

type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`
}

type DatabaseConfig struct {
	Driver   string
	File     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string
}

type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

type AdminConfig struct {
	Email    string
	Password string
}

type MailConfig struct {
	Provider     string
	BrevoAPIKey  string `mapstructure:"brevo_api_key"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_pass"`
	SenderEmail  string `mapstructure:"sender_email"`
	SenderName   string `mapstructure:"sender_name"`
	AdminEmail   string `mapstructure:"admin_notification_email"`
}

type StoreConfig struct {
	Name       string
	Tagline    string
	Email      string
	Phone      string
	Address    string
	UPIID      string `mapstructure:"upi_id"`
	UPIPayee   string `mapstructure:"upi_payee_name"`
	UPIQRImage string `mapstructure:"upi_qr_image"`
}

type LogConfig struct {
	Level  string
	Format string
}

// IsDevelopment reports whether SERVER_ENV is unset or "development".
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "" || c.Server.Env == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("CLIENT_URL", "*")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("JWT_EXPIRES_IN", "168h")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_FILE", "./data/database.sqlite3")
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_MAX", 200)
	v.SetDefault("MAIL_PROVIDER", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SENDER_EMAIL", "noreply@goras.com")
	v.SetDefault("SENDER_NAME", "GORAS Orders")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("STORE_NAME", "GORAS")
	v.SetDefault("STORE_TAGLINE", "Pure dairy, straight from the farm")
	v.SetDefault("UPI_QR_IMAGE", "/images/upi-qr-code.png")
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, checking environment variables", "error", err)
	}

	v.AutomaticEnv()
	setDefaults(v)

	// Fallback to PORT if SERVER_PORT is missing
	v.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")
	v.BindEnv("DB_FILE", "DB_FILE", "DB_PATH")

	cfg := &Config{
		Server: ServerConfig{
			Port:      v.GetString("SERVER_PORT"),
			Env:       v.GetString("SERVER_ENV"),
			ClientURL: v.GetString("CLIENT_URL"),
			StaticDir: v.GetString("STATIC_DIR"),
			UploadDir: v.GetString("UPLOAD_DIR"),
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			JWTExpiresIn: parseExpiry(v.GetString("JWT_EXPIRES_IN")),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			File:     v.GetString("DB_FILE"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			URL:      v.GetString("DATABASE_URL"),
		},
		RateLimit: RateLimitConfig{
			Window: v.GetDuration("RATE_LIMIT_WINDOW"),
			Max:    v.GetInt("RATE_LIMIT_MAX"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Mail: MailConfig{
			Provider:     strings.ToLower(v.GetString("MAIL_PROVIDER")),
			BrevoAPIKey:  v.GetString("BREVO_API_KEY"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUser:     v.GetString("SMTP_USER"),
			SMTPPassword: v.GetString("SMTP_PASS"),
			SenderEmail:  v.GetString("SENDER_EMAIL"),
			SenderName:   v.GetString("SENDER_NAME"),
			AdminEmail:   v.GetString("ADMIN_NOTIFICATION_EMAIL"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Store: StoreConfig{
			Name:       v.GetString("STORE_NAME"),
			Tagline:    v.GetString("STORE_TAGLINE"),
			Email:      v.GetString("STORE_EMAIL"),
			Phone:      v.GetString("STORE_PHONE"),
			Address:    v.GetString("STORE_ADDRESS"),
			UPIID:      v.GetString("UPI_ID"),
			UPIPayee:   v.GetString("UPI_PAYEE_NAME"),
			UPIQRImage: v.GetString("UPI_QR_IMAGE"),
		},
	}

	if cfg.Mail.AdminEmail == "" {
		cfg.Mail.AdminEmail = cfg.Admin.Email
	}
	if cfg.Store.UPIPayee == "" {
		cfg.Store.UPIPayee = cfg.Store.Name
	}
	if cfg.Mail.Provider == "" {
		switch {
		case cfg.Mail.BrevoAPIKey != "":
			cfg.Mail.Provider = "brevo"
		case cfg.Mail.SMTPHost != "":
			cfg.Mail.Provider = "smtp"
		default:
			cfg.Mail.Provider = "log"
		}
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set. Generating a random secret for development; tokens will not survive a restart. PLEASE SET JWT_SECRET IN PRODUCTION!")
		cfg.Auth.JWTSecret = randomSecret(32)
	}
	if cfg.Auth.JWTExpiresIn <= 0 {
		cfg.Auth.JWTExpiresIn = 7 * 24 * time.Hour
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = 15 * time.Minute
	}

	slog.Info("Configuration loaded",
		"port", cfg.Server.Port,
		"env", cfg.Server.Env,
		"db_driver", cfg.Database.Driver,
		"db_file", cfg.Database.File,
		"database_url", setOrNot(cfg.Database.URL),
		"jwt_secret", setOrNot(v.GetString("JWT_SECRET")),
		"mail_provider", cfg.Mail.Provider,
		"admin_notification_email", cfg.Mail.AdminEmail,
	)

	return cfg, nil
}

// parseExpiry accepts Go durations ("168h") and whole days ("7d"). Anything
// else logs a warning and yields 0, which falls back to seven days.
func parseExpiry(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
	} else if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	slog.Warn("Invalid JWT_EXPIRES_IN, using 7 days", "value", raw)
	return 0
}

func setOrNot(s string) string {
	if s != "" {
		return "SET"
	}
	return "NOT SET"
}

func randomSecret(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		return "dev-secret-key-change-in-production-" + time.Now().Format(time.RFC3339Nano)
	}
	return hex.EncodeToString(b)
}
