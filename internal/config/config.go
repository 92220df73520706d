package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

// ErrInsecureSecret is returned by Validate when production runs with the development JWT secret.
var ErrInsecureSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration

	DatabaseDSN  string
	DBMaxOpen    int
	DBMaxIdle    int
	DBMaxConnAge time.Duration

	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Weather WeatherConfig

	LogLevel  slog.Level
	LogFormat string
}

// WeatherConfig configures the outbound OpenWeatherMap client.
type WeatherConfig struct {
	APIKey  string
	BaseURL string
	GeoURL  string
	Units   string
	Lang    string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "5000"),
		Env:             getEnv("ENV", "development"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DatabaseDSN:  getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/weather?parseTime=true"),
		DBMaxOpen:    getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdle:    getInt("DB_MAX_IDLE_CONNS", 5),
		DBMaxConnAge: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		JWTSecret:  getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:  getDuration("JWT_EXPIRY", 7*24*time.Hour),
		BcryptCost: getInt("BCRYPT_COST", 10),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		Weather: WeatherConfig{
			APIKey:  getEnv("WEATHER_API_KEY", ""),
			BaseURL: getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
			GeoURL:  getEnv("WEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0"),
			Units:   getEnv("WEATHER_UNITS", "metric"),
			Lang:    getEnv("WEATHER_LANG", "ru"),
			Timeout: getDuration("WEATHER_TIMEOUT", 10*time.Second),
			RPS:     getFloat("WEATHER_RPS", 1),
			Burst:   getInt("WEATHER_BURST", 5),
		},

		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	format := "text"
	if cfg.IsProduction() {
		format = "json"
	}
	cfg.LogFormat = getEnv("LOG_FORMAT", format)

	// Stored hashes never use a cost below 10.
	if cfg.BcryptCost < 10 {
		slog.Warn("BCRYPT_COST below minimum, using 10", "requested", cfg.BcryptCost)
		cfg.BcryptCost = 10
	}

	return cfg
}

// Validate reports configuration that must stop the process.
func (c Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		return ErrInsecureSecret
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Logger builds the process-wide slog logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
