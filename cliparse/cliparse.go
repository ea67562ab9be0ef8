package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/ldr-counter/db"
)

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	LogLevel     string

	RecaptchaSecret  string
	RecaptchaSiteKey string
	ExpectedHostname string
	VerifyURL        string
	VerifyTimeout    time.Duration
	StoreTimeout     time.Duration

	PusherAppID   string
	PusherKey     string
	PusherSecret  string
	PusherCluster string
	PusherUseTLS  bool

	// PublishTimeout bounds each broadcast call, independent of the request
	PublishTimeout time.Duration

	IdentitySalt string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, pusherTLS, verifyTimeout, storeTimeout, publishTimeout string

	fs := flag.NewFlagSet("ldr-counter", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", "", "Path to a .env file (default: .env if present)")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.RecaptchaSecret, "recaptcha-secret", "", "reCAPTCHA secret key (prefer env)")
	fs.StringVar(&cfg.RecaptchaSiteKey, "recaptcha-site-key", "", "reCAPTCHA site key")
	fs.StringVar(&cfg.ExpectedHostname, "expected-hostname", "", "Hostname the verifier must report")
	fs.StringVar(&cfg.VerifyURL, "verify-url", "", "Verification endpoint")
	fs.StringVar(&verifyTimeout, "verify-timeout", "", "Verification call timeout")
	fs.StringVar(&storeTimeout, "store-timeout", "", "Database call timeout")
	fs.StringVar(&cfg.PusherAppID, "pusher-app-id", "", "Pusher app ID")
	fs.StringVar(&cfg.PusherKey, "pusher-key", "", "Pusher key")
	fs.StringVar(&cfg.PusherSecret, "pusher-secret", "", "Pusher secret (prefer env)")
	fs.StringVar(&cfg.PusherCluster, "pusher-cluster", "", "Pusher cluster")
	fs.StringVar(&pusherTLS, "pusher-tls", "", "Use TLS for Pusher (default true)")
	fs.StringVar(&publishTimeout, "publish-timeout", "", "Pusher call timeout")
	fs.StringVar(&cfg.IdentitySalt, "identity-salt", "", "Identity hashing salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	fallback(&cfg.DatabaseURL, "DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	fallback(&cfg.DatabaseType, "DATABASE_TYPE")
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = InferDatabaseType(cfg.DatabaseURL)
	}
	if cfg.DatabaseType != db.DatabasePostgres && cfg.DatabaseType != db.DatabaseSQLite {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	fallback(&cfg.LogLevel, "LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	fallback(&cfg.ExpectedHostname, "EXPECTED_HOSTNAME")
	fallback(&cfg.VerifyURL, "RECAPTCHA_VERIFY_URL")
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultVerifyURL
	}

	var err error
	if cfg.VerifyTimeout, err = parseDuration(verifyTimeout, "VERIFY_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.StoreTimeout, err = parseDuration(storeTimeout, "STORE_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PublishTimeout, err = parseDuration(publishTimeout, "PUBLISH_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	fallback(&pusherTLS, "PUSHER_USE_TLS")
	cfg.PusherUseTLS = true
	if pusherTLS != "" {
		useTLS, err := strconv.ParseBool(pusherTLS)
		if err != nil {
			return Config{}, errors.New("invalid PUSHER_USE_TLS value")
		}
		cfg.PusherUseTLS = useTLS
	}

	// Secrets - MUST be provided
	required := []struct {
		value *string
		env   string
	}{
		{&cfg.RecaptchaSecret, "RECAPTCHA_SECRET_KEY"},
		{&cfg.RecaptchaSiteKey, "RECAPTCHA_SITE_KEY"},
		{&cfg.PusherAppID, "PUSHER_APP_ID"},
		{&cfg.PusherKey, "PUSHER_KEY"},
		{&cfg.PusherSecret, "PUSHER_SECRET"},
		{&cfg.PusherCluster, "PUSHER_CLUSTER"},
		{&cfg.IdentitySalt, "IDENTITY_SALT"},
	}
	for _, r := range required {
		fallback(r.value, r.env)
		if *r.value == "" {
			return Config{}, fmt.Errorf("%s required", r.env)
		}
	}

	return cfg, nil
}

// InferDatabaseType picks postgres for postgres:// URLs and sqlite otherwise
func InferDatabaseType(url string) string {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return db.DatabasePostgres
	}
	return db.DatabaseSQLite
}

func fallback(value *string, env string) {
	if *value == "" {
		*value = os.Getenv(env)
	}
}

func parseDuration(flagValue, env string, def time.Duration) (time.Duration, error) {
	fallback(&flagValue, env)
	if flagValue == "" {
		return def, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", env, flagValue)
	}
	return d, nil
}

// loadEnvFile loads an explicit .env path, or ./.env when it exists.
// Variables already present in the environment win.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}
