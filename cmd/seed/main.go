package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/db"
	"jobboard/internal/logging"
	"jobboard/internal/posting"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("seed failed", zap.Error(err))
		_ = logger.Sync()
		log.Fatal(err)
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *zap.Logger) error {
	if cfg.StoreDriver != config.StoreDriverPostgres {
		return fmt.Errorf("seed requires STORE_DRIVER=%s", config.StoreDriverPostgres)
	}

	gdb, err := db.Connect(db.Options{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = db.Close(gdb) }()

	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seeded, err := posting.Seed(ctx, posting.NewGormRepository(gdb), time.Now)
	if err != nil {
		return err
	}
	for _, j := range seeded {
		logger.Info("seeded job posting",
			zap.String("id", j.ID),
			zap.String("jobTitle", j.JobTitle),
			zap.String("companyName", j.CompanyName))
	}
	logger.Info("database seeded successfully", zap.Int("count", len(seeded)))
	return nil
}
