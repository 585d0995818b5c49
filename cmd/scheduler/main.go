package main

import (
	"context"

	"roombook/internal/accesscode"
	meetinghandler "roombook/internal/meetings/handler"
	meetingrepository "roombook/internal/meetings/repository"
	meetingservice "roombook/internal/meetings/service"
	meetingvalidator "roombook/internal/meetings/validator"
	"roombook/internal/notifications"
	privilegedhandler "roombook/internal/privileged/handler"
	privilegedrepository "roombook/internal/privileged/repository"
	privilegedservice "roombook/internal/privileged/service"
	privilegedvalidator "roombook/internal/privileged/validator"
	roomhandler "roombook/internal/rooms/handler"
	roomrepository "roombook/internal/rooms/repository"
	roomservice "roombook/internal/rooms/service"
	roomvalidator "roombook/internal/rooms/validator"
	"roombook/pkg/app"
	"roombook/pkg/config"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
)

const ServiceName = "scheduler"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Scheduler service")

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.Topic, cfg.Log.Component("kafka-producer"))
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	metrics := kafka_middleware.NewMetrics()
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log.Component("kafka-producer")))
		producer.Use(metrics.ProducerMiddleware())
	}

	dispatcher := notifications.NewDispatcher(
		producer,
		cfg.Log.Component("notifications"),
		ServiceName,
		cfg.NotificationQueueSize,
		cfg.NotificationPublishRetries,
	)
	dispatcher.Start(context.Background())

	rooms, privileged, meetings := initServices(cfg, dispatcher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		roomhandler.NewRoomHandler(rooms, cfg.Log),
		privilegedhandler.NewPrivilegedUserHandler(privileged, cfg.Log),
		meetinghandler.NewMeetingHandler(meetings, cfg.Log),
	)
	serverApp.OnShutdown(dispatcher.Stop)
	serverApp.OnShutdown(func(ctx context.Context) error {
		cfg.Log.Info("Kafka producer metrics", metrics.Snapshot().LogArgs()...)
		return producer.Close()
	})
	serverApp.Run()
}

func initServices(cfg *config.Config, notifier notifications.Notifier) (roomservice.RoomService, privilegedservice.PrivilegedUserService, meetingservice.SchedulingService) {
	codes := accesscode.NewSecureGenerator(cfg.AccessCodeMaxAttempts)
	meetingRepo := meetingrepository.NewMongoMeetingRepository(cfg)

	rooms := roomservice.NewRoomService(
		roomrepository.NewMongoRoomRepository(cfg),
		meetingRepo,
		codes,
		roomvalidator.NewRoomValidator(cfg.Log),
		cfg,
		nil,
	)

	privileged := privilegedservice.NewPrivilegedUserService(
		privilegedrepository.NewMongoPrivilegedUserRepository(cfg),
		privilegedvalidator.NewPrivilegedUserValidator(cfg.Log),
		cfg,
		nil,
	)

	meetings := meetingservice.NewSchedulingService(
		meetingRepo,
		meetingrepository.NewRoomLockRepository(cfg),
		rooms,
		privileged,
		codes,
		meetingvalidator.NewMeetingValidator(cfg.Log),
		notifier,
		cfg,
		nil,
	)

	cfg.Log.Info("Scheduler services initialized", "database", cfg.MongoDatabaseName)
	return rooms, privileged, meetings
}
