package backend

import (
	"context"
	"errors"
	"testing"

	"meudinheiro/internal/config"
	"meudinheiro/internal/store/sqlite"
)

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDSN: "file:x?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDSN == "" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestCreateBackend(t *testing.T) {
	f := NewFactory(nil)
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		if err != nil {
			t.Fatalf("CreateBackend: %v", err)
		}
		if res.Store == nil {
			t.Fatal("nil store")
		}
		if res.Cleanup != nil {
			t.Error("memory backend should not need cleanup")
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDSN: "file:factory-test?mode=memory&cache=shared"})
		if err != nil {
			t.Fatalf("CreateBackend: %v", err)
		}
		defer res.Cleanup()
		if _, err := res.Store.Transactions().List(ctx); err != nil {
			t.Fatalf("list: %v", err)
		}
	})

	t.Run("sqlite refuses file dsn", func(t *testing.T) {
		_, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDSN: "./data/app.db"})
		if !errors.Is(err, sqlite.ErrDurableDSN) {
			t.Fatalf("error = %v, want ErrDurableDSN", err)
		}
	})
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 2 || got[0] != "memory" || got[1] != "sqlite" {
		t.Fatalf("GetBackendTypeStrings() = %v", got)
	}
}
