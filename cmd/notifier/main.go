package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"roombook/internal/notifications"
	"roombook/pkg/config"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	log := cfg.Log.Component("kafka-consumer")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	handler := notifications.NewMessageHandler(notifications.NewLogMailer(cfg.Log.Component("mailer")), cfg.Log)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.Topic,
		kafkaCfg.ConsumerGroup,
		kafkaCfg.DLQTopic,
		handler,
		log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))
		consumer.Use(metrics.ConsumerMiddleware())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting Notifier service",
		"topic", kafkaCfg.Topic,
		"group", kafkaCfg.ConsumerGroup,
		"dlq_topic", kafkaCfg.DLQTopic,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped", metrics.Snapshot().LogArgs()...)
}
