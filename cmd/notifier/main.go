package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/joao-fontenele/menuflow/internal/messaging"
	"github.com/joao-fontenele/menuflow/internal/notifier"
	"github.com/joao-fontenele/menuflow/internal/telemetry"
)

func main() {
	logger := telemetry.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	relayServiceURL := os.Getenv("RELAY_SERVICE_URL")
	if relayServiceURL == "" {
		logger.Error("RELAY_SERVICE_URL environment variable is required")
		os.Exit(1)
	}

	adminNumber := os.Getenv("ADMIN_WHATSAPP_NUMBER")
	if adminNumber == "" {
		logger.Error("ADMIN_WHATSAPP_NUMBER environment variable is required")
		os.Exit(1)
	}

	location := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		var err error
		location, err = time.LoadLocation(tz)
		if err != nil {
			logger.Error("invalid TIMEZONE", "value", tz, "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "notifier", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	brokers := strings.Split(kafkaBrokers, ",")
	consumer := messaging.NewConsumer(brokers, messaging.TopicOrderPlaced, "order-notifier")
	defer func() { _ = consumer.Close() }()

	consumer.OnDiscard(func(msg kafka.Message, err error) {
		logger.Warn("discarding order event", "key", string(msg.Key), "offset", msg.Offset, "error", err)
	})

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: telemetry.NewTransport(),
	}

	orderHandler := notifier.NewOrderHandler(relayServiceURL, adminNumber, location, httpClient, logger)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting order notifier", "brokers", brokers)

	if err := consumer.Consume(ctx, messaging.OrderPlacedHandler(orderHandler.Handle)); err != nil {
		if ctx.Err() == context.Canceled {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
