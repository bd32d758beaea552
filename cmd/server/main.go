package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-screening-booking/internal/config"
	"github.com/iliyamo/cinema-screening-booking/internal/database"
	"github.com/iliyamo/cinema-screening-booking/internal/handler"
	"github.com/iliyamo/cinema-screening-booking/internal/logger"
	"github.com/iliyamo/cinema-screening-booking/internal/middleware"
	"github.com/iliyamo/cinema-screening-booking/internal/queue"
	"github.com/iliyamo/cinema-screening-booking/internal/repository"
	"github.com/iliyamo/cinema-screening-booking/internal/router"
	"github.com/iliyamo/cinema-screening-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog := logger.New(cfg.LogLevel, cfg.Env)
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, zlog *zap.Logger) error {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		zlog.Info("migrations applied")
	}

	screenings := repository.NewScreeningRepo(db)
	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	reservations := repository.NewReservationRepo(db)

	ledger, err := service.NewSeatLedger(cfg.SeatAccounting, reservations)
	if err != nil {
		return err
	}

	// Redis backs the cache and the rate limiter; both pass through without it.
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		zlog.Warn("redis unavailable, cache and rate limit disabled", zap.Error(err))
	} else {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	opts := service.Options{
		Ledger: ledger,
		Cache:  cache,
		Logger: zlog,
	}
	if !cfg.EmptyListNotFound {
		opts.ListPolicy = service.EmptyListOK
	}
	if cfg.RabbitMQURL != "" {
		pub, err := queue.NewPublisher(cfg.RabbitMQURL, zlog)
		if err != nil {
			zlog.Warn("rabbitmq unavailable, screening events disabled", zap.Error(err))
		} else {
			defer pub.Close()
			opts.Publisher = pub
		}
		if cfg.SeatAccounting == service.SeatAccountingLedger {
			consumer := queue.NewBookingConsumer(cfg.RabbitMQURL, reservations, zlog)
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					zlog.Error("booking consumer stopped", zap.Error(err))
				}
			}()
		}
	}
	svc := service.NewScreeningService(screenings, users, movies, opts)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(zlog)
	e.Use(echoMw.RequestIDWithConfig(echoMw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			zlog.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID))
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(middleware.Identity(cfg.JWTSecret))

	router.RegisterRoutes(e, router.Deps{
		Health:     handler.Health(db),
		Screenings: handler.NewScreeningHandler(svc),
		Users:      handler.NewUserHandler(users),
		Cache:      cache.Middleware(),
		RateLimit:  middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	zlog.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("seat_accounting", cfg.SeatAccounting))

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
