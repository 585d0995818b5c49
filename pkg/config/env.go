package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvAccessCodeMaxAttempts = "ACCESS_CODE_MAX_ATTEMPTS"
	EnvMeetingLockTTL        = "MEETING_LOCK_TTL"
	EnvUpcomingDefaultLimit  = "UPCOMING_DEFAULT_LIMIT"

	EnvNotificationQueueSize      = "NOTIFICATION_QUEUE_SIZE"
	EnvNotificationPublishRetries = "NOTIFICATION_PUBLISH_RETRIES"
)
