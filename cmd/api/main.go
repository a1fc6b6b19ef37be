package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "lendora-backend/internal/adapter/http"
	"lendora-backend/internal/adapter/middleware"
	"lendora-backend/internal/adapter/repository/sqldb"
	sessionadp "lendora-backend/internal/adapter/session"
	"lendora-backend/internal/clients/gemini"
	"lendora-backend/internal/config"
	"lendora-backend/internal/events"
	"lendora-backend/internal/infrastructure/cache"
	"lendora-backend/internal/infrastructure/db"
	"lendora-backend/internal/observability"
	"lendora-backend/internal/seed"
	"lendora-backend/internal/usecase/analytics"
	"lendora-backend/internal/usecase/assistant"
	authuc "lendora-backend/internal/usecase/auth"
	loanuc "lendora-backend/internal/usecase/loan"
	useruc "lendora-backend/internal/usecase/user"
)

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == config.DriverMySQL {
		return db.OpenGormMySQL(cfg.MySQLDSN())
	}
	return db.OpenGormSQLite(cfg.SQLiteDSN)
}

// subscribeEventLogger logs every domain event. This is the notification
// surface; other consumers can subscribe to the same bus.
func subscribeEventLogger(bus events.Dispatcher, logger *zap.Logger) {
	handler := func(_ context.Context, ev events.Event) error {
		logger.Info("domain event",
			zap.String("event_id", ev.ID),
			zap.String("type", string(ev.Type)),
			zap.Any("payload", ev.Payload),
		)
		return nil
	}
	for _, t := range []events.EventType{
		events.EventUserCreated,
		events.EventLoanCreated,
		events.EventLoanStatusChanged,
		events.EventRepaymentApplied,
	} {
		bus.Subscribe(t, handler)
	}
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// The sqlite in-memory default resets on every restart, which is the
	// intended demo behavior; set DB_DRIVER=mysql to persist.
	database, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	if err := db.Migrate(database); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Redis is optional: without it sessions live in process memory and the
	// idempotency guard is skipped.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, continuing without it", zap.Error(err))
			rdb = nil
		}
	}

	userRepo := sqldb.NewUserRepository(database)
	loanRepo := sqldb.NewLoanRepository(database)
	txManager := sqldb.NewGormUoW(database)

	bus := events.NewInMemoryDispatcher()
	subscribeEventLogger(bus, logger)

	var store authuc.SessionStore
	if rdb != nil {
		store = sessionadp.NewRedisStore(rdb)
	} else {
		store = sessionadp.NewMemoryStore()
	}

	loans := loanuc.NewUsecase(loanRepo, userRepo, txManager, bus)
	users := useruc.NewUsecase(userRepo, bus)
	auth := authuc.NewUsecase(userRepo, store, cfg.JWTSecret, time.Duration(cfg.SessionTTLSecs)*time.Second)
	stats := analytics.NewUsecase(loanRepo, userRepo)

	var gen assistant.Generator
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, gemini.WithModel(cfg.GeminiModel))
		if err != nil {
			logger.Warn("gemini client unavailable, assistant disabled", zap.Error(err))
		} else {
			gen = client
		}
	}
	ask := assistant.NewUsecase(gen, userRepo, loanRepo)

	if cfg.Seed {
		if err := seed.Run(ctx, userRepo, loanRepo, logger); err != nil {
			logger.Fatal("seed", zap.Error(err))
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	var extra []echo.MiddlewareFunc
	if rdb != nil {
		extra = append(extra, middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger))
	}

	httpadp.Register(e, httpadp.Routes{
		Health:    httpadp.NewHandler(loans, rdb),
		Auth:      httpadp.NewAuthHandler(auth),
		Users:     httpadp.NewUserHandler(users),
		Loans:     httpadp.NewLoanHandler(loans),
		Analytics: httpadp.NewAnalyticsHandler(stats),
		Assistant: httpadp.NewAssistantHandler(ask),
		Sessions:  auth,
		Extra:     extra,
	})

	addr := ":" + cfg.AppPort
	logger.Info("listening", zap.String("addr", addr), zap.String("driver", cfg.DBDriver))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
