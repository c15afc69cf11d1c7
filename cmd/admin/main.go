package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"github.com/joao-fontenele/menuflow/internal/menu"
	"github.com/joao-fontenele/menuflow/internal/orders"
	"github.com/joao-fontenele/menuflow/internal/settings"
	"github.com/joao-fontenele/menuflow/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := telemetry.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "admin", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("admin", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	adminNumber := os.Getenv("ADMIN_WHATSAPP_NUMBER")
	if adminNumber == "" {
		logger.Error("ADMIN_WHATSAPP_NUMBER environment variable is required")
		os.Exit(1)
	}

	location := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		location, err = time.LoadLocation(tz)
		if err != nil {
			logger.Error("invalid TIMEZONE", "value", tz, "error", err)
			os.Exit(1)
		}
	}

	db, err := telemetry.OpenDB("postgres", postgresURL, "menuflow")
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	menuRepo := menu.NewMenuRepository(db)
	menuHandler := menu.NewHandler(menuRepo, logger)
	ordersHandler := orders.NewHandler(orders.NewOrderRepository(db), logger)
	settingsHandler := settings.NewHandler(settings.NewSettingsRepository(db), menuRepo, settings.PublishConfig{
		WhatsAppNumber: adminNumber,
		SiteURL:        os.Getenv("SITE_URL"),
		Location:       location,
	}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /menu/items", telemetry.WithHTTPRoute(menuHandler.HandleList))
	mux.HandleFunc("POST /menu/items", telemetry.WithHTTPRoute(menuHandler.HandleCreate))
	mux.HandleFunc("PUT /menu/items/{id}", telemetry.WithHTTPRoute(menuHandler.HandleUpdate))
	mux.HandleFunc("DELETE /menu/items/{id}", telemetry.WithHTTPRoute(menuHandler.HandleDelete))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(ordersHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(ordersHandler.HandleGet))
	mux.HandleFunc("GET /orders/{id}/whatsapp", telemetry.WithHTTPRoute(ordersHandler.HandleWhatsApp))
	mux.HandleFunc("GET /settings", telemetry.WithHTTPRoute(settingsHandler.HandleGet))
	mux.HandleFunc("PUT /settings/deadline", telemetry.WithHTTPRoute(settingsHandler.HandleSaveDeadline))
	mux.HandleFunc("POST /settings/publish", telemetry.WithHTTPRoute(settingsHandler.HandlePublish))
	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      telemetry.InstrumentHandler(middleware.Recoverer(mux), "admin"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting admin service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
