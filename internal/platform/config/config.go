package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	// Embedded zone database so PRINTER_LOCATION resolves on slim images.
	_ "time/tzdata"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string
	LogLevel    string
	SeedData    bool

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	JWT         JWTConfig
	Coupon      CouponConfig
	Printer     PrinterConfig
	RateLimit   RateLimitConfig
}

// RedisConfig configures the token revocation list backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit event sink.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
	Partitions int32
}

// JWTConfig configures staff access tokens.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
	TTL        time.Duration
}

// CouponConfig bounds coupon allocation retries.
type CouponConfig struct {
	MaxAttempts int
}

// PrinterConfig points at a raw-TCP (port 9100) receipt printer.
type PrinterConfig struct {
	Addr     string
	Name     string
	Timeout  time.Duration
	Location string
}

// RateLimitConfig bounds requests per client address. A zero limit disables it.
type RateLimitConfig struct {
	PerWindow int
	Window    time.Duration
}

// IsDevelopment reports whether the process runs with development defaults.
func (s Server) IsDevelopment() bool {
	return s.Environment == "" || s.Environment == "development"
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:        getEnv("BLOODCONNECT_ADDR", ":8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SeedData:    os.Getenv("SEED_DATA") == "true",
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			AuditTopic: getEnv("AUDIT_TOPIC", "bloodconnect.audit"),
			Partitions: 3,
		},
		JWT: JWTConfig{
			SigningKey: os.Getenv("JWT_SIGNING_KEY"),
			Issuer:     getEnv("JWT_ISSUER", "bloodconnect"),
			Audience:   getEnv("JWT_AUDIENCE", "bloodconnect-staff"),
		},
		Printer: PrinterConfig{
			Addr:     os.Getenv("PRINTER_ADDR"),
			Name:     getEnv("PRINTER_NAME", "receipt-printer"),
			Location: getEnv("PRINTER_LOCATION", "Asia/Karachi"),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}

	var err error
	if cfg.JWT.TTL, err = getDuration("JWT_TTL", 8*time.Hour); err != nil {
		return Server{}, err
	}
	if cfg.Printer.Timeout, err = getDuration("PRINTER_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Coupon.MaxAttempts, err = getInt("COUPON_MAX_ATTEMPTS", 5); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.PerWindow, err = getInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return Server{}, err
	}
	cfg.RateLimit.Window = time.Minute
	if cfg.Coupon.MaxAttempts < 1 {
		return Server{}, fmt.Errorf("COUPON_MAX_ATTEMPTS must be at least 1, got %d", cfg.Coupon.MaxAttempts)
	}
	if _, err := time.LoadLocation(cfg.Printer.Location); err != nil {
		return Server{}, fmt.Errorf("PRINTER_LOCATION: %w", err)
	}

	if cfg.JWT.SigningKey == "" {
		if !cfg.IsDevelopment() {
			return Server{}, fmt.Errorf("JWT_SIGNING_KEY is required outside development")
		}
		// Development default; production must override.
		cfg.JWT.SigningKey = "dev-secret-key-change-in-production"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
