package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"detailbay/internal/notifications"
	"detailbay/pkg/config"
	"detailbay/pkg/kafka"
	kafkaconfig "detailbay/pkg/kafka/config"
	kafkamiddleware "detailbay/pkg/kafka/middleware"
)

const (
	ServiceName   = "notifier"
	consumerGroup = "detailbay-notifier"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting notification consumer")

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	sender := notifications.NewEmailSender(cfg)
	handler := notifications.NewBookingEventHandler(sender, cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		notifications.BookingEventsTopic,
		consumerGroup,
		notifications.BookingEventsDLQTopic,
		handler,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if err := consumer.Start(ctx); err != nil && err != context.Canceled {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	cfg.Log.Info("Notification consumer stopped")
}
