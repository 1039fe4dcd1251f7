package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress     string
	DatabaseURI    string
	BackendAddress string
	RequestTimeout time.Duration

	CheckoutAddress   string
	CheckoutPublicKey string
	CheckoutSecretKey string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	SessionSecret string
	TokenStrategy string
	SessionTTL    time.Duration
	AllowedOrigin string

	BalancePollInterval time.Duration
	PollWorkers         int
	ShutdownTimeout     time.Duration

	MinCustomDeposit  int64
	MinWithdrawal     int64
	CloseDelay        time.Duration
	ResolveRateLimit  int
	ResolveRateWindow time.Duration

	LogLevel string
}

const (
	defaultRunAddress          = ":8080"
	defaultCheckoutAddress     = "https://api.paystack.co"
	defaultRedisAddress        = "localhost:6379"
	defaultTokenStrategy       = "jwt"
	defaultSessionTTL          = 24 * time.Hour
	defaultRequestTimeout      = 10 * time.Second
	defaultBalancePollInterval = 10 * time.Second
	defaultPollWorkers         = 4
	defaultShutdownTimeout     = 10 * time.Second
	defaultMinCustomDeposit    = 5
	defaultMinWithdrawal       = 10
	defaultCloseDelay          = 3 * time.Second
	defaultResolveRateLimit    = 5
	defaultResolveRateWindow   = time.Minute
	defaultLogLevel            = "info"
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		BackendAddress:      getString(lookup, "BACKEND_ADDRESS", ""),
		RequestTimeout:      getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		CheckoutAddress:     getString(lookup, "CHECKOUT_ADDRESS", defaultCheckoutAddress),
		CheckoutPublicKey:   getString(lookup, "CHECKOUT_PUBLIC_KEY", ""),
		CheckoutSecretKey:   getString(lookup, "CHECKOUT_SECRET_KEY", ""),
		RedisAddress:        getString(lookup, "REDIS_ADDR", defaultRedisAddress),
		RedisPassword:       getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:             getInt(lookup, "REDIS_DB", 0),
		SessionSecret:       getString(lookup, "SESSION_SECRET", ""),
		TokenStrategy:       getString(lookup, "TOKEN_STRATEGY", defaultTokenStrategy),
		SessionTTL:          getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		AllowedOrigin:       getString(lookup, "ALLOWED_ORIGIN", ""),
		BalancePollInterval: getDuration(lookup, "BALANCE_POLL_INTERVAL", defaultBalancePollInterval),
		PollWorkers:         getInt(lookup, "POLL_WORKERS", defaultPollWorkers),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MinCustomDeposit:    int64(getInt(lookup, "MIN_CUSTOM_DEPOSIT", defaultMinCustomDeposit)),
		MinWithdrawal:       int64(getInt(lookup, "MIN_WITHDRAWAL", defaultMinWithdrawal)),
		CloseDelay:          getDuration(lookup, "CLOSE_DELAY", defaultCloseDelay),
		ResolveRateLimit:    getInt(lookup, "RESOLVE_RATE_LIMIT", defaultResolveRateLimit),
		ResolveRateWindow:   getDuration(lookup, "RESOLVE_RATE_WINDOW", defaultResolveRateWindow),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("wallet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.BalancePollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		sessionTTLStr      = cfg.SessionTTL.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.BackendAddress, "b", cfg.BackendAddress, "REST backend base URL")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address host:port")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for signing and sealing sessions")
	fs.StringVar(&cfg.TokenStrategy, "token-strategy", cfg.TokenStrategy, "Session token strategy: jwt or hmac")
	fs.IntVar(&cfg.PollWorkers, "poll-workers", cfg.PollWorkers, "Number of concurrent balance poll workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between balance polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Session lifetime")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.BalancePollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if secretFile, ok := lookup("SESSION_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read session secret file: %w", err)
		}
		cfg.SessionSecret = strings.TrimSpace(string(content))
	}

	if cfg.PollWorkers <= 0 {
		cfg.PollWorkers = defaultPollWorkers
	}

	if cfg.BalancePollInterval <= 0 {
		cfg.BalancePollInterval = defaultBalancePollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if cfg.MinCustomDeposit <= 0 {
		cfg.MinCustomDeposit = defaultMinCustomDeposit
	}

	if cfg.MinWithdrawal <= 0 {
		cfg.MinWithdrawal = defaultMinWithdrawal
	}

	if cfg.CloseDelay < 0 {
		cfg.CloseDelay = defaultCloseDelay
	}

	if cfg.ResolveRateLimit <= 0 {
		cfg.ResolveRateLimit = defaultResolveRateLimit
	}

	if cfg.ResolveRateWindow <= 0 {
		cfg.ResolveRateWindow = defaultResolveRateWindow
	}

	cfg.TokenStrategy = strings.ToLower(cfg.TokenStrategy)
	if cfg.TokenStrategy != "jwt" && cfg.TokenStrategy != "hmac" {
		return nil, fmt.Errorf("unknown token strategy %q", cfg.TokenStrategy)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.BackendAddress == "" {
		return nil, fmt.Errorf("backend address must be provided")
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("session secret must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
