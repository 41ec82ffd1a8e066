package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"settleup/internal/auth"
	"settleup/internal/config"
	"settleup/internal/events"
	"settleup/internal/gateway"
	"settleup/internal/metrics"
	"settleup/internal/server"
	"settleup/internal/service"
	"settleup/internal/storage/sqlite"
	"settleup/pkg/logging"
)

func main() {
	logging.Setup()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env file")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to connect event publisher", "error", err)
			os.Exit(1)
		}
		publisher = amqpPub
		slog.Info("Event publisher connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}
	defer publisher.Close()

	gw := gateway.New(gateway.Config{
		BaseURL:   cfg.GatewayBaseURL,
		KeyID:     cfg.GatewayKeyID,
		KeySecret: cfg.GatewayKeySecret,
		Currency:  cfg.GatewayCurrency,
		MinAmount: cfg.GatewayMinAmount,
	})

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	settlements := service.NewSettlementService(store, gw, publisher, m)
	groups := service.NewGroupService(store, settlements)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)

	srv := server.New(settlements, groups, jwtManager, registry)

	// h2c allows HTTP/2 without TLS, e.g. behind a terminating proxy.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("Server starting", "address", addr, "currency", cfg.GatewayCurrency)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
