package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/db"
	"jobboard/internal/events"
	httpx "jobboard/internal/http"
	mw "jobboard/internal/http/middleware"
	"jobboard/internal/logging"
	"jobboard/internal/outbox"
	"jobboard/internal/posting"
	"jobboard/internal/telemetry"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "jobboard"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.LogLevel, cfg.LogFormat)
}

// newDB opens Postgres, or returns nil when postings live in memory.
func newDB(cfg config.Config, lc fx.Lifecycle, logger *zap.Logger) (*gorm.DB, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, postings are lost on restart")
		return nil, nil
	}

	gdb, err := db.Connect(db.Options{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close(gdb)
		},
	})
	return gdb, nil
}

func newRepository(gdb *gorm.DB) posting.Repository {
	if gdb == nil {
		return posting.NewMemoryRepository()
	}
	return posting.NewGormRepository(gdb)
}

// newPublisher publishes to NATS when configured. With Postgres available,
// failed publishes are queued in the outbox and redelivered by a worker.
func newPublisher(cfg config.Config, gdb *gorm.DB, lc fx.Lifecycle, logger *zap.Logger) (posting.Publisher, error) {
	if cfg.NATSURL == "" {
		return posting.NopPublisher{}, nil
	}

	natsPub, err := events.NewNATSPublisher(cfg.NATSURL, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return natsPub.Close()
		},
	})
	if gdb == nil {
		return natsPub, nil
	}

	queue := &outbox.Repo{DB: gdb}
	worker := outbox.NewWorker("outbox-1", queue, natsPub, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			worker.Start()
			return nil
		},
		OnStop: worker.Stop,
	})
	return &outbox.Publisher{Next: natsPub, Queue: queue, Logger: logger}, nil
}

func newLimiter(cfg config.Config, lc fx.Lifecycle, logger *zap.Logger) (mw.Limiter, error) {
	if cfg.RateLimitWrites <= 0 {
		return nil, nil
	}
	if cfg.RedisURL == "" {
		return mw.NewRateLimiter(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return mw.NewRedisLimiter(client, logger), nil
}

func initTracing(cfg config.Config, lc fx.Lifecycle, logger *zap.Logger) {
	if cfg.OTelEndpoint == "" {
		return
	}

	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = telemetry.InitTracer(ctx, telemetry.Service{Name: serviceName, Version: version}, cfg.OTelEndpoint)
			if err != nil {
				return err
			}
			logger.Info("tracing enabled", zap.String("endpoint", cfg.OTelEndpoint))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

func runServer(cfg config.Config, lc fx.Lifecycle, handler http.Handler, logger *zap.Logger, sd fx.Shutdowner) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", cfg.HTTPAddr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped", zap.Error(err))
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

func options() fx.Option {
	return fx.Options(
		fx.Provide(
			config.Load,
			newLogger,
			newDB,
			newRepository,
			newPublisher,
			newLimiter,
			posting.NewService,
			httpx.NewRouter,
		),
		fx.Invoke(
			initTracing,
			runServer,
		),
	)
}

func main() {
	app := fx.New(
		options(),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	// Done fires on SIGINT/SIGTERM or when the server asks to shut down.
	<-app.Done()

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
