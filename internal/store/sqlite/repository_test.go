package sqlite

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"meudinheiro/internal/log"
	"meudinheiro/internal/store"
	"meudinheiro/internal/store/storetest"
)

func memoryDSN() string {
	return "file:test-" + uuid.NewString() + "?mode=memory&cache=shared"
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := New(memoryDSN(), nil, nil)
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestNewRejectsDurableDSN(t *testing.T) {
	for _, dsn := range []string{"data/app.db", "file:app.db", ":memory:", "file:x?mode=memory"} {
		t.Run(dsn, func(t *testing.T) {
			if _, err := New(dsn, nil, nil); !errors.Is(err, ErrDurableDSN) {
				t.Fatalf("New(%q) error = %v, want ErrDurableDSN", dsn, err)
			}
		})
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dsn := memoryDSN()
	s, err := New(dsn, nil, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("second migration run: %v", err)
	}
}

func TestResetLogsThroughStorageComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&buf, nil)})

	s, err := New(memoryDSN(), nil, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	if err := s.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"SQLite store reset", "component=storage", "operation=reset"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
