package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	bookingsrepo "photomarket/internal/bookings/repository"
	bookingssvc "photomarket/internal/bookings/service"
	"photomarket/internal/bookings/validator"
	"photomarket/internal/calendarsync/feed"
	"photomarket/internal/calendarsync/scheduler"
	"photomarket/internal/calendarsync/service"
	"photomarket/internal/events"
	roomsrepo "photomarket/internal/rooms/repository"
	"photomarket/pkg/config"
	"photomarket/pkg/kafka"
)

const ServiceName = "calendarsync"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	producer := newProducer(cfg)
	defer producer.Close()

	cfg.Log.Info("Starting Calendar Sync service")

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewBookingLockRepository(cfg)
	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)
	publisher := events.NewPublisher(producer, cfg.Log)

	bookingService := bookingssvc.NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	syncService := service.NewSyncService(
		roomRepo,
		feed.NewFetcher(cfg.FeedFetchTimeout),
		bookingService,
		publisher,
		cfg,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scheduler.New(syncService, cfg).Run(ctx); err != nil {
		cfg.Log.Fatal("Scheduler failed", "error", err)
	}
	cfg.Log.Info("Calendar Sync service stopped")
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
