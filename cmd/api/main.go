package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	httptransport "github.com/motofleet/courier-rental/internal/api/http"
	"github.com/motofleet/courier-rental/internal/api/http/handlers"
	"github.com/motofleet/courier-rental/internal/auth"
	"github.com/motofleet/courier-rental/internal/config"
	"github.com/motofleet/courier-rental/internal/events"
	"github.com/motofleet/courier-rental/internal/observability"
	"github.com/motofleet/courier-rental/internal/persistence"
	"github.com/motofleet/courier-rental/internal/queue"
	"github.com/motofleet/courier-rental/internal/repository"
	"github.com/motofleet/courier-rental/internal/repository/memory"
	"github.com/motofleet/courier-rental/internal/service"
	"github.com/motofleet/courier-rental/internal/worker"
)

type repositories struct {
	vehicles repository.VehicleRepository
	couriers repository.CourierRepository
	rentals  repository.RentalRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, cfg.Queue, logger)
	defer redis.Close()

	repos := newRepositories(pg, logger)
	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	notifier := service.NewWebhookNotifier(cfg.Notification, logger)
	notificationService := service.NewNotificationService(dispatcher, notifier, logger, cfg.Notification)

	var consumer worker.QueueConsumer
	if cfg.Queue.Enabled {
		queue.NewPublisher(redis.Client, cfg.Queue.Stream, logger).Register(dispatcher)
		consumer = queue.NewConsumer(redis.Client, cfg.Queue, notificationService.VehicleRegistered, logger)
	} else {
		dispatcher.Subscribe(events.EventVehicleRegistered, func(ctx context.Context, e events.Event) error {
			payload, ok := e.Payload.(events.VehicleRegisteredPayload)
			if !ok {
				return fmt.Errorf("unexpected payload %T", e.Payload)
			}
			return notificationService.VehicleRegistered(ctx, payload)
		})
	}
	workers := worker.StartNotificationWorker(ctx, notificationService, consumer, logger)

	var scheduler *worker.Scheduler
	if cfg.Jobs.Enabled {
		overdue := worker.NewOverdueRentalsJob(repos.rentals, dispatcher, clock, logger)
		scheduler, err = worker.NewScheduler(cfg.Jobs, overdue, logger)
		if err != nil {
			logger.Fatal("failed to init scheduler", zap.Error(err))
		}
		scheduler.Start()
	}

	vehicleService := service.NewVehicleService(service.VehicleDependencies{
		VehicleRepo: repos.vehicles,
		RentalRepo:  repos.rentals,
		Dispatcher:  dispatcher,
		Clock:       clock,
		Logger:      logger,
	})
	courierService := service.NewCourierService(repos.couriers, logger)
	rentalService := service.NewRentalService(service.RentalDependencies{
		RentalRepo:  repos.rentals,
		VehicleRepo: repos.vehicles,
		CourierRepo: repos.couriers,
		Dispatcher:  dispatcher,
		Clock:       clock,
		Logger:      logger,
	})
	settlementService := service.NewSettlementService(repos.rentals, dispatcher, clock, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens, repos.couriers)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	dependencies := map[string]handlers.Pinger{"redis": redis}
	if pg.PoolHandle() != nil {
		dependencies["postgres"] = pg
	} else {
		dependencies["postgres"] = nil
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Vehicles:       handlers.NewVehiclesHandler(vehicleService),
		Couriers:       handlers.NewCouriersHandler(courierService),
		Rentals:        handlers.NewRentalsHandler(rentalService, settlementService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	if scheduler != nil {
		scheduler.Stop()
	}
	cancel()
	workers.Wait()
	dispatcher.Wait()
}

// newRepositories falls back to in-memory storage when no database is configured.
func newRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Warn("using in-memory repositories; data is lost on restart")
		return repositories{
			vehicles: memory.NewVehicleRepository(),
			couriers: memory.NewCourierRepository(),
			rentals:  memory.NewRentalRepository(),
		}
	}
	return repositories{
		vehicles: repository.NewVehicleRepository(pool),
		couriers: repository.NewCourierRepository(pool),
		rentals:  repository.NewRentalRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
