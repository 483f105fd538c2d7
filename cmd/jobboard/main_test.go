package main

import (
	"context"
	"testing"

	"jobboard/internal/config"
	"jobboard/internal/posting"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestDependencyGraph(t *testing.T) {
	if err := fx.ValidateApp(options()); err != nil {
		t.Fatalf("invalid app graph: %v", err)
	}
}

func TestMemoryStoreWithoutOptionalBackends(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := config.Config{StoreDriver: config.StoreDriverMemory}
	logger := zap.NewNop()

	gdb, err := newDB(cfg, lc, logger)
	if err != nil || gdb != nil {
		t.Fatalf("memory store opens no database: %v", err)
	}
	if _, ok := newRepository(gdb).(*posting.MemoryRepository); !ok {
		t.Fatal("expected in-memory repository")
	}

	pub, err := newPublisher(cfg, gdb, lc, logger)
	if err != nil || pub == nil {
		t.Fatalf("publisher: %v", err)
	}

	limiter, err := newLimiter(cfg, lc, logger)
	if err != nil || limiter != nil {
		t.Fatalf("limiter should be disabled: %v %v", limiter, err)
	}

	cfg.RateLimitWrites = 5
	limiter, err = newLimiter(cfg, lc, logger)
	if err != nil || limiter == nil {
		t.Fatalf("expected in-memory limiter: %v", err)
	}
	if !limiter.Allow(context.Background(), "k", 5, 0) {
		t.Fatal("first request should pass")
	}

	lc.RequireStart().RequireStop()
}
