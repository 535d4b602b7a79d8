package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the runtime configuration read from the environment.
type Config struct {
	Port   string `mapstructure:"PORT"`
	AppEnv string `mapstructure:"APP_ENV"`

	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBDSN          string `mapstructure:"DB_DSN"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `mapstructure:"DB_MAX_IDLE_CONNS"`

	RedisURL string `mapstructure:"REDIS_URL"`

	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	BcryptCost         int    `mapstructure:"BCRYPT_COST"`

	FrontendURL string `mapstructure:"FRONTEND_URL"`
	BackendURL  string `mapstructure:"BACKEND_URL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryAPIURL    string `mapstructure:"CLOUDINARY_API_URL"`

	MercadoPagoAccessToken string `mapstructure:"MERCADOPAGO_ACCESS_TOKEN"`
	MercadoPagoAPIURL      string `mapstructure:"MERCADOPAGO_API_URL"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `mapstructure:"GOOGLE_CALLBACK_URL"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

var keys = []string{
	"PORT", "APP_ENV",
	"DB_DRIVER", "DB_DSN", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"REDIS_URL",
	"JWT_SECRET", "JWT_EXPIRATION_HOURS", "BCRYPT_COST",
	"FRONTEND_URL", "BACKEND_URL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM",
	"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET", "CLOUDINARY_API_URL",
	"MERCADOPAGO_ACCESS_TOKEN", "MERCADOPAGO_API_URL",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_CALLBACK_URL",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
}

// Load reads the process environment. godotenv has already merged .env
// into it by the time this runs.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_DSN", "root:root@tcp(127.0.0.1:3306)/restaurant_hub?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("BACKEND_URL", "http://localhost:8080")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("CLOUDINARY_API_URL", "https://api.cloudinary.com/v1_1")
	v.SetDefault("MERCADOPAGO_API_URL", "https://api.mercadopago.com")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}
