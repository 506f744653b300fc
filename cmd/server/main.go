package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dileeka1998/Event-Planner-sub000/internal/config"
	"github.com/dileeka1998/Event-Planner-sub000/internal/database"
	"github.com/dileeka1998/Event-Planner-sub000/internal/handler"
	"github.com/dileeka1998/Event-Planner-sub000/internal/middleware"
	"github.com/dileeka1998/Event-Planner-sub000/internal/planner"
	"github.com/dileeka1998/Event-Planner-sub000/internal/queue"
	"github.com/dileeka1998/Event-Planner-sub000/internal/repository"
	"github.com/dileeka1998/Event-Planner-sub000/internal/router"
	"github.com/dileeka1998/Event-Planner-sub000/internal/service"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	opts := database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	}
	if cfg.DBMigrate {
		if err := database.Migrate(opts.DSN(), logger); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}
	db, err := database.Open(context.Background(), opts)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	store := repository.NewSQLStore(db)
	rdb := config.NewRedisClient(config.LoadRedisConfig(), logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	client := planner.New(cfg.PlannerURL, cfg.PlannerTimeout)

	var notifier service.Notifier = service.NopNotifier{}
	if cfg.RabbitURL != "" {
		notifier = queue.NewPublisher(cfg.RabbitURL)
	} else {
		logger.Info("RABBITMQ_URL not set; attendance notifications disabled")
	}

	ledger := service.NewCapacityLedger(cfg.RegistrationLock)
	events := service.NewEventService(store, client, logger)
	registrations := service.NewRegistrationService(store, ledger, notifier, logger)
	budgets := service.NewBudgetService(store, logger)
	schedules := service.NewScheduleService(store, client, logger)
	venues := service.NewVenueService(store)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger))

	router.RegisterRoutes(e, store.DB())
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, store.Repos().Users, logger), cfg.JWTSecret)
	router.RegisterEvents(e, router.EventHandlers{
		Events:    handler.NewEventHandler(events, service.NewCapacityService(store, ledger), logger),
		Attendees: handler.NewAttendeeHandler(registrations, logger),
		Budgets:   handler.NewBudgetHandler(budgets, logger),
		Schedules: handler.NewScheduleHandler(schedules, logger),
		Program: handler.NewProgramHandler(
			service.NewRoomService(store),
			service.NewSessionService(store),
			logger,
		),
	}, cfg.JWTSecret)

	cacheCfg := config.LoadCacheConfig()
	router.RegisterVenues(e, handler.NewVenueHandler(venues, logger), cfg.JWTSecret,
		middleware.NewRedisCache(cacheCfg, rdb, logger),
		middleware.InvalidateCache(cacheCfg, rdb, logger),
	)

	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 60 * time.Second
	e.Server.IdleTimeout = 90 * time.Second

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "registration_lock", cfg.RegistrationLock)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
