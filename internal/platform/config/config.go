package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StoreDriver    string
	MigrationsPath string
	LogLevel       slog.Level

	// Transfer retry policy
	TransferMaxAttempts    int
	TransferRetryBaseDelay time.Duration

	// Optional bearer-token auth on mutating routes; empty secret disables it.
	JWTSecret string
	JWTIssuer string

	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORE_DRIVER", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRANSFER_MAX_ATTEMPTS", 3)
	v.SetDefault("TRANSFER_RETRY_BASE_DELAY", "10ms")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		RateLimit:      v.GetString("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = StoreDriverMemory
		if cfg.DatabaseURL != "" {
			cfg.StoreDriver = StoreDriverPostgres
		}
	}
	switch cfg.StoreDriver {
	case StoreDriverMemory:
		log.Println("Warning: using the in-memory account store, data is lost on restart.")
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STORE_DRIVER=%s requires PGSQL_URL", StoreDriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (expected %s or %s)", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", v.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	cfg.TransferMaxAttempts = v.GetInt("TRANSFER_MAX_ATTEMPTS")
	if cfg.TransferMaxAttempts <= 0 {
		log.Printf("Warning: Invalid value for TRANSFER_MAX_ATTEMPTS (%d). Defaulting to 3.\n", cfg.TransferMaxAttempts)
		cfg.TransferMaxAttempts = 3
	}

	delayStr := v.GetString("TRANSFER_RETRY_BASE_DELAY")
	delay, err := time.ParseDuration(delayStr)
	if err != nil || delay < 0 {
		delay = 10 * time.Millisecond
		log.Printf("Warning: Invalid value for TRANSFER_RETRY_BASE_DELAY ('%s'). Defaulting to %s.\n", delayStr, delay)
	}
	cfg.TransferRetryBaseDelay = delay

	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set. Mutating routes are not authenticated.")
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	return cfg, nil
}
