package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fcbox-relay/internal/config"
	"fcbox-relay/internal/crypto"
	"fcbox-relay/internal/handlers"
	"fcbox-relay/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load("config.yaml")

	// Structured logging; verbose mode enables debug output
	level := slog.LevelInfo
	if cfg.Server.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(logger)

	// Initialize the vendor gateway based on configuration (factory pattern)
	vendor, err := services.CreateVendor(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize vendor gateway: %v", err)
	}
	signer := crypto.NewCryptoService(logger)

	// Initialize handlers
	handler := handlers.NewRelayHandler(vendor, signer, cfg, logger)

	// Set up Gin router
	if cfg.Server.Verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.CORS())
	router.Use(handlers.RequestID())
	router.Use(handlers.RequestLogger(logger))
	router.Use(handlers.Metrics())

	// Auth flow
	router.POST("/send_verification_code", handler.SendVerificationCode)
	router.POST("/login", handler.Login)

	// Order queries (bearer token required)
	router.GET("/completed_orders", handler.CompletedOrders)
	router.GET("/pending_orders", handler.PendingOrders)

	// Cabinet operations (bearer token required)
	router.POST("/cabinet_location", handler.CabinetLocation)
	router.POST("/openBox", handler.OpenBox)

	// Operational endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("starting fcbox relay",
		slog.Int("port", cfg.Server.Port),
		slog.String("vendor_url", cfg.Vendor.BaseURL),
		slog.Bool("standalone_mode", cfg.Vendor.StandaloneMode),
	)
	if cfg.Vendor.StandaloneMode {
		logger.Info("running in STANDALONE mode - no vendor traffic will be sent")
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
