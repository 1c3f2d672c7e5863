package main

import (
	"photomarket/internal/bookings/handler"
	"photomarket/internal/bookings/repository"
	"photomarket/internal/bookings/service"
	"photomarket/internal/bookings/validator"
	"photomarket/internal/events"
	roomshandler "photomarket/internal/rooms/handler"
	roomsrepo "photomarket/internal/rooms/repository"
	"photomarket/pkg/app"
	"photomarket/pkg/config"
	"photomarket/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	producer := newProducer(cfg)
	defer producer.Close()

	cfg.Log.Info("Starting Bookings service")

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	publisher := events.NewPublisher(producer, cfg.Log)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewBookingHandler(bookingService, cfg.Log),
		roomshandler.NewCalendarFeedHandler(roomRepo, bookingRepo, cfg.Log),
	)
	serverApp.Run()
}

func newProducer(cfg *config.Config) kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured; events disabled")
		return kafka.NopProducer{}
	}

	producer, err := kafka.NewProducer(kafka.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaBookingTopic,
	})
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaBookingTopic)
	return producer
}
