package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/superpos/terminal-api/internal/application/service"
	"github.com/superpos/terminal-api/internal/config"
	"github.com/superpos/terminal-api/internal/infrastructure/memory"
	"github.com/superpos/terminal-api/internal/presentation/http/handler"
	"github.com/superpos/terminal-api/internal/presentation/http/routes"
	"github.com/superpos/terminal-api/internal/scheduler"
	"github.com/superpos/terminal-api/pkg/logger"
	"github.com/superpos/terminal-api/pkg/printer"
	"github.com/superpos/terminal-api/pkg/smartsearch"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.Must(logger.New(cfg.App.Debug))
	defer log.Sync()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize repositories with seed data
	productRepo := memory.NewProductRepository(memory.SeedProducts())
	saleRepo := memory.NewSaleRepository()
	clientRepo := memory.NewClientRepository(memory.SeedClients())

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn("failed to initialize printer, falling back to null printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize AI search client (disabled when no API key is set)
	searchClient := smartsearch.NewClient(cfg.AI.APIKey)

	// Initialize services
	cartService := service.NewCartService(productRepo)
	catalogService := service.NewCatalogService(productRepo, searchClient, logger.Named(log, "catalog"))
	salesService := service.NewSalesService(saleRepo)
	clientService := service.NewClientService(clientRepo)
	checkoutService := service.NewCheckoutService(
		cartService,
		productRepo,
		saleRepo,
		clientRepo,
		memory.CardTerminals(),
		thermalPrinter,
		logger.Named(log, "checkout"),
		cfg.Checkout,
	)
	defer checkoutService.Close()

	// Initialize handlers
	handlers := &routes.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogService),
		Cart:     handler.NewCartHandler(cartService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Sales:    handler.NewSalesHandler(salesService),
		Client:   handler.NewClientHandler(clientService),
		Settings: handler.NewSettingsHandler(catalogService, cfg),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg: cfg,
		Log: logger.Named(log, "http"),
	})

	// Start the periodic sales summary job
	sched := scheduler.NewScheduler(cfg.Scheduler, salesService, logger.Named(log, "scheduler"))
	sched.Start()
	defer sched.Stop()

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
}
