package kafka_config

const (
	EnvKafkaBrokers = "KAFKA_BROKERS"

	// Notification stream
	EnvNotificationTopic         = "NOTIFICATION_TOPIC"
	EnvNotificationDLQTopic      = "NOTIFICATION_DLQ_TOPIC"
	EnvNotificationConsumerGroup = "NOTIFICATION_CONSUMER_GROUP"

	// Producer
	EnvKafkaProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"

	// Consumer
	EnvKafkaConsumerMaxWait    = "KAFKA_CONSUMER_MAX_WAIT"
	EnvKafkaConsumerMaxRetries = "KAFKA_CONSUMER_MAX_RETRIES"

	EnvKafkaEnableMiddleware = "KAFKA_ENABLE_MIDDLEWARE"
)
