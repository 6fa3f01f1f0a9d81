package main

import (
	availabilityhandler "detailbay/internal/availability/handler"
	availabilityservice "detailbay/internal/availability/service"
	blockedhandler "detailbay/internal/blockedtimes/handler"
	blockedrepo "detailbay/internal/blockedtimes/repository"
	blockedservice "detailbay/internal/blockedtimes/service"
	bookinghandler "detailbay/internal/bookings/handler"
	bookingrepo "detailbay/internal/bookings/repository"
	bookingservice "detailbay/internal/bookings/service"
	bookingvalidator "detailbay/internal/bookings/validator"
	cataloghandler "detailbay/internal/catalog/handler"
	catalogrepo "detailbay/internal/catalog/repository"
	catalogservice "detailbay/internal/catalog/service"
	"detailbay/internal/notifications"
	timeslotrepo "detailbay/internal/timeslots/repository"
	"detailbay/pkg/app"
	"detailbay/pkg/config"
	"detailbay/pkg/contracts"
	"detailbay/pkg/kafka"
	kafkaconfig "detailbay/pkg/kafka/config"
	kafkamiddleware "detailbay/pkg/kafka/middleware"
	"detailbay/pkg/middleware"
	"detailbay/pkg/sealer"

	"github.com/julienschmidt/httprouter"
)

const ServiceName = "server"

// compositeHandler registers every feature surface on one router.
type compositeHandler struct {
	handlers []contracts.Handler
}

func (c *compositeHandler) RegisterRoutes(router *httprouter.Router) {
	for _, h := range c.handlers {
		h.RegisterRoutes(router)
	}
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.Client.GracefulShutdown()

	cfg.Log.Info("Starting booking server")

	appHandler, publisher := initHandlers(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, appHandler)
	serverApp.Run()
}

func initHandlers(cfg *config.Config) (contracts.Handler, *notifications.Publisher) {
	adminSealer, err := sealer.New(cfg.AdminSessionKey)
	if err != nil {
		cfg.Log.Fatal("Invalid admin session key", "error", err)
	}
	adminGate := middleware.AdminAuthHandle(adminSealer, cfg.Log)

	publisher := initPublisher(cfg)

	bookingRepository := bookingrepo.NewMongoBookingRepository(cfg)
	lockRepository := bookingrepo.NewBookingLockRepository(cfg)
	slotRepository := timeslotrepo.NewMongoTimeSlotRepository(cfg)
	blockedRepository := blockedrepo.NewMongoBlockedTimeRepository(cfg)
	catalogRepository := catalogrepo.NewMongoCatalogRepository(cfg)

	catalogSvc := catalogservice.NewCatalogService(catalogRepository, cfg)

	availabilitySvc := availabilityservice.NewAvailabilityService(
		bookingRepository,
		blockedRepository,
		cfg.Client.Redis,
		cfg,
	)

	bookingSvc := bookingservice.NewBookingService(
		bookingRepository,
		lockRepository,
		slotRepository,
		blockedRepository,
		catalogSvc,
		publisher,
		availabilitySvc,
		bookingvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)

	blockedSvc := blockedservice.NewBlockedTimeService(blockedRepository, availabilitySvc, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return &compositeHandler{
		handlers: []contracts.Handler{
			bookinghandler.NewBookingHandler(bookingSvc, adminGate, cfg.Log),
			availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log),
			blockedhandler.NewBlockedTimeHandler(blockedSvc, adminGate, cfg.Log),
			cataloghandler.NewCatalogHandler(catalogSvc, adminGate, cfg.Log),
		},
	}, publisher
}

func initPublisher(cfg *config.Config) *notifications.Publisher {
	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(
		kafkaCfg,
		notifications.BookingEventsTopic,
		notifications.BookingEventsDLQTopic,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))

	return notifications.NewPublisher(producer, cfg.Log)
}
