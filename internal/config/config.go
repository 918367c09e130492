package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	JWTSecret           string
	AnalyticsURI        string
	AnalyticsDatabase   string
	AnalyticsTimeout    time.Duration
	GeocoderAddress     string
	GeocoderTimeout     time.Duration
	BaseCity            string
	NearRegionPrefixes  []string
	KafkaBrokers        []string
	NotificationTopic   string
	OverduePollInterval time.Duration
	ReminderWorkers     int
	RebuildOnStart      bool
	WorkerPoolSize      int
	ShutdownTimeout     time.Duration
	LogLevel            string
}

const (
	defaultRunAddress          = ":8080"
	defaultJWTSecret           = "change-me-in-production"
	defaultAnalyticsDatabase   = "catering_analytics"
	defaultAnalyticsTimeout    = 2 * time.Second
	defaultGeocoderTimeout     = 3 * time.Second
	defaultBaseCity            = "Bordeaux"
	defaultNearRegionPrefixes  = "33"
	defaultNotificationTopic   = "catering.notifications"
	defaultOverduePollInterval = time.Hour
	defaultReminderWorkers     = 2
	defaultWorkerPoolSize      = 4
	defaultShutdownTimeout     = 10 * time.Second
	defaultLogLevel            = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		JWTSecret:           getString(lookup, "JWT_SECRET", defaultJWTSecret),
		AnalyticsURI:        getString(lookup, "ANALYTICS_URI", ""),
		AnalyticsDatabase:   getString(lookup, "ANALYTICS_DATABASE", defaultAnalyticsDatabase),
		AnalyticsTimeout:    getDuration(lookup, "ANALYTICS_TIMEOUT", defaultAnalyticsTimeout),
		GeocoderAddress:     getString(lookup, "GEOCODER_ADDRESS", ""),
		GeocoderTimeout:     getDuration(lookup, "GEOCODER_TIMEOUT", defaultGeocoderTimeout),
		BaseCity:            getString(lookup, "BASE_CITY", defaultBaseCity),
		NotificationTopic:   getString(lookup, "NOTIFICATION_TOPIC", defaultNotificationTopic),
		OverduePollInterval: getDuration(lookup, "OVERDUE_POLL_INTERVAL", defaultOverduePollInterval),
		ReminderWorkers:     getInt(lookup, "REMINDER_WORKERS", defaultReminderWorkers),
		RebuildOnStart:      getBool(lookup, "ANALYTICS_REBUILD_ON_START", false),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("catering", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		nearPrefixes       = getString(lookup, "NEAR_REGION_PREFIXES", defaultNearRegionPrefixes)
		kafkaBrokers       = getString(lookup, "KAFKA_BROKERS", "")
		pollIntervalStr    = cfg.OverduePollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for verifying auth tokens")
	fs.StringVar(&cfg.AnalyticsURI, "analytics-uri", cfg.AnalyticsURI, "MongoDB URI of the analytics projection store")
	fs.StringVar(&cfg.GeocoderAddress, "geocoder", cfg.GeocoderAddress, "Routing service base URL")
	fs.StringVar(&cfg.BaseCity, "base-city", cfg.BaseCity, "City delivered without distance surcharge")
	fs.StringVar(&nearPrefixes, "near-prefixes", nearPrefixes, "Comma separated postal prefixes of the near region")
	fs.StringVar(&kafkaBrokers, "kafka-brokers", kafkaBrokers, "Comma separated Kafka brokers for notifications")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent analytics rebuild workers")
	fs.IntVar(&cfg.ReminderWorkers, "reminder-workers", cfg.ReminderWorkers, "Number of concurrent overdue material reminders")
	fs.BoolVar(&cfg.RebuildOnStart, "rebuild-analytics", cfg.RebuildOnStart, "Rebuild the analytics projection at startup")
	fs.StringVar(&pollIntervalStr, "overdue-interval", pollIntervalStr, "Interval between overdue material checks")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.OverduePollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid overdue interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	cfg.NearRegionPrefixes = splitCSV(nearPrefixes)
	cfg.KafkaBrokers = splitCSV(kafkaBrokers)

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ReminderWorkers <= 0 {
		cfg.ReminderWorkers = defaultReminderWorkers
	}

	if cfg.OverduePollInterval <= 0 {
		cfg.OverduePollInterval = defaultOverduePollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.AnalyticsTimeout <= 0 {
		cfg.AnalyticsTimeout = defaultAnalyticsTimeout
	}

	if cfg.GeocoderTimeout <= 0 {
		cfg.GeocoderTimeout = defaultGeocoderTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
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

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
