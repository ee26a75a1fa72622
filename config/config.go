package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	MySQLURL    string `mapstructure:"MYSQL_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPass      string `mapstructure:"DB_PASS"`
	DBName      string `mapstructure:"DB_NAME"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`
	DBTracing   bool   `mapstructure:"DB_TRACING"`
	DBLogLevel  string `mapstructure:"DB_LOG_LEVEL"`

	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	CacheTTLMinutes int    `mapstructure:"CACHE_TTL_MINUTES"`

	JWTSecret     string `mapstructure:"JWT_SECRET"`
	JWTTTLHours   int    `mapstructure:"JWT_TTL_HOURS"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	OpenWeatherAPIKey  string `mapstructure:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string `mapstructure:"OPENWEATHER_BASE_URL"`
	GoogleMapsAPIKey   string `mapstructure:"GOOGLE_MAPS_API_KEY"`
	GoogleMapsBaseURL  string `mapstructure:"GOOGLE_MAPS_BASE_URL"`

	USDToMMKRate float64 `mapstructure:"USD_TO_MMK_RATE"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	UploadDir   string `mapstructure:"UPLOAD_DIR"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFromName string `mapstructure:"SMTP_FROM_NAME"`
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"GIN_MODE":             "",
	"DB_DRIVER":            "sqlite",
	"DATABASE_URL":         "",
	"MYSQL_URL":            "",
	"DB_HOST":              "127.0.0.1",
	"DB_PORT":              "",
	"DB_USER":              "root",
	"DB_PASS":              "",
	"DB_NAME":              "travel_db",
	"SQLITE_PATH":          "travel.db",
	"DB_TRACING":           false,
	"DB_LOG_LEVEL":         "warn",
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"CACHE_TTL_MINUTES":    30,
	"JWT_SECRET":           "dev-secret-change-me",
	"JWT_TTL_HOURS":        72,
	"ADMIN_PASSWORD":       "",
	"OPENWEATHER_API_KEY":  "",
	"OPENWEATHER_BASE_URL": "https://api.openweathermap.org",
	"GOOGLE_MAPS_API_KEY":  "",
	"GOOGLE_MAPS_BASE_URL": "https://maps.googleapis.com",
	"USD_TO_MMK_RATE":      2100.0,
	"CORS_ORIGINS":         "",
	"FRONTEND_URL":         "http://localhost:3000",
	"UPLOAD_DIR":           "uploads",
	"SMTP_HOST":            "",
	"SMTP_PORT":            "",
	"SMTP_USERNAME":        "",
	"SMTP_PASSWORD":        "",
	"SMTP_FROM_NAME":       "Myanmar Travel",
}

// LoadEnvFile loads .env when present. Real environment variables win.
func LoadEnvFile() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("warning: config unmarshal: %v", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.USDToMMKRate <= 0 {
		cfg.USDToMMKRate = 2100
	}
	if cfg.CacheTTLMinutes <= 0 {
		cfg.CacheTTLMinutes = 30
	}
	if cfg.JWTTTLHours <= 0 {
		cfg.JWTTTLHours = 72
	}
	return cfg
}

// Origins splits CORS_ORIGINS. An empty list means any origin.
func (c Config) Origins() []string {
	raw := strings.TrimSpace(c.CORSOrigins)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
