package kafka_config

import "time"

const (
	DefaultKafkaBrokers = "localhost:9092"

	DefaultNotificationTopic         = "meeting-notifications"
	DefaultNotificationDLQTopic      = "meeting-notifications-dlq"
	DefaultNotificationConsumerGroup = "notifier"

	// The dispatcher retries on top of these, so keep the writer's own attempts low.
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerCompression  = "snappy"

	DefaultConsumerMaxWait    = 500 * time.Millisecond
	DefaultConsumerMaxRetries = 3

	DefaultEnableMiddleware = true
)
