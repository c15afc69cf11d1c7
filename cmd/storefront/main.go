package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"

	"github.com/joao-fontenele/menuflow/internal/cart"
	"github.com/joao-fontenele/menuflow/internal/checkout"
	"github.com/joao-fontenele/menuflow/internal/menu"
	"github.com/joao-fontenele/menuflow/internal/messaging"
	"github.com/joao-fontenele/menuflow/internal/orders"
	"github.com/joao-fontenele/menuflow/internal/settings"
	"github.com/joao-fontenele/menuflow/internal/storefront"
	"github.com/joao-fontenele/menuflow/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := telemetry.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "storefront", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("storefront", "0.1.0")
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

	db, err := telemetry.OpenDB("postgres", postgresURL, "menuflow")
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// The storefront still serves the sample catalog when the database is down.
	if err := db.PingContext(ctx); err != nil {
		logger.Warn("database not reachable at startup", "error", err)
	}

	packages := cart.DefaultPackages()
	if path := os.Getenv("PACKAGES_FILE"); path != "" {
		packages, err = cart.LoadPackages(path)
		if err != nil {
			logger.Error("failed to load packages", "path", path, "error", err)
			os.Exit(1)
		}
	}

	checkInterval := settings.DefaultCheckInterval
	if raw := os.Getenv("DEADLINE_CHECK_INTERVAL"); raw != "" {
		checkInterval, err = time.ParseDuration(raw)
		if err != nil {
			logger.Error("invalid DEADLINE_CHECK_INTERVAL", "value", raw, "error", err)
			os.Exit(1)
		}
	}

	var events checkout.EventPublisher
	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		producer := messaging.NewProducer(strings.Split(kafkaBrokers, ","), messaging.TopicOrderPlaced)
		defer func() { _ = producer.Close() }()
		events = producer
	}

	orderMetrics, err := telemetry.NewOrderMetrics(otel.Meter("storefront"))
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		os.Exit(1)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := settings.NewWatcher(settings.NewSettingsRepository(db), checkInterval, logger)
	go watcher.Run(runCtx)

	loader := menu.NewLoader(menu.NewMenuRepository(db), logger)
	submitter := checkout.NewSubmitter(orders.NewOrderRepository(db), events, orderMetrics, logger)
	sessions := storefront.NewSessionStore(storefront.DefaultSessionIdleTimeout)
	handler := storefront.NewHandler(sessions, loader, packages, watcher, submitter, logger)

	mux := http.NewServeMux()
	handler.Register(mux, telemetry.WithHTTPRoute)
	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      telemetry.InstrumentHandler(middleware.Recoverer(mux), "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront service", "port", port, "packages", len(packages))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

