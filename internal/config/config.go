// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"settleup/internal/models"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	DBPath string

	// Identity
	JWTSecret     string
	TokenDuration time.Duration

	// Payment gateway
	GatewayBaseURL   string
	GatewayKeyID     string
	GatewayKeySecret string
	GatewayCurrency  string
	GatewayMinAmount models.Money

	// AMQP event publishing (optional; empty URL disables it)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./data/settleup.db"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenDuration: getEnvDuration("TOKEN_DURATION", 24*time.Hour),

		GatewayBaseURL:   getEnv("GATEWAY_BASE_URL", "https://api.razorpay.com"),
		GatewayKeyID:     getEnv("GATEWAY_KEY_ID", ""),
		GatewayKeySecret: getEnv("GATEWAY_KEY_SECRET", ""),
		GatewayCurrency:  getEnv("GATEWAY_CURRENCY", "INR"),
		GatewayMinAmount: getEnvMoney("GATEWAY_MIN_AMOUNT", 100),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "settleup"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "settlement_events"),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET must be set")
	}

	if c.GatewayKeySecret == "" {
		problems = append(problems, "GATEWAY_KEY_SECRET must be set (signature verification needs it)")
	}
	if u, err := url.Parse(c.GatewayBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		problems = append(problems, fmt.Sprintf("invalid gateway base URL %q", c.GatewayBaseURL))
	}
	if c.GatewayMinAmount < 0 {
		problems = append(problems, "gateway minimum amount cannot be negative")
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: scheme must be amqp or amqps", c.AMQPURL))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is set")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is set")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvMoney(key string, fallback models.Money) models.Money {
	if value := os.Getenv(key); value != "" {
		if m, err := models.ParseMoney(value); err == nil {
			return m
		}
	}
	return fallback
}
