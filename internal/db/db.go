package db

import (
	"fmt"
	"time"

	"jobboard/internal/outbox"
	"jobboard/internal/posting"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func Connect(opts Options) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(opts.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	return gdb, nil
}

func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type index struct {
	name    string
	columns string
}

var postingIndexes = []index{
	// list is always ordered newest first
	{name: "idx_job_postings_created_at", columns: "created_at desc"},
	{name: "idx_job_postings_job_type", columns: "job_type"},
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&posting.JobPosting{}, &outbox.Message{}); err != nil {
		return err
	}

	table := posting.JobPosting{}.TableName()
	for _, ix := range postingIndexes {
		s := indexStatement(table, ix)
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

func indexStatement(table string, ix index) string {
	return fmt.Sprintf("create index if not exists %s on %s (%s);",
		pq.QuoteIdentifier(ix.name), pq.QuoteIdentifier(table), ix.columns)
}
