package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/popmark/internal/config"
	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/storage"
)

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		check   func(storage.Storage) bool
	}{
		{config.BackendFile, func(s storage.Storage) bool {
			kv, ok := s.(*storage.KVStorage)
			if !ok {
				return false
			}
			_, ok = kv.KV().(*storage.FileKV)
			return ok
		}},
		{config.BackendMemory, func(s storage.Storage) bool {
			kv, ok := s.(*storage.KVStorage)
			if !ok {
				return false
			}
			_, ok = kv.KV().(*storage.MemoryKV)
			return ok
		}},
		{config.BackendSQLite, func(s storage.Storage) bool {
			_, ok := s.(*storage.SQLiteStorage)
			return ok
		}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Backend = tt.backend
			cfg.DataFile = filepath.Join(dir, "popmark.json")
			cfg.SQLiteFile = filepath.Join(dir, "popmark.db")

			s, err := storage.Open(context.Background(), &cfg, logger.NewNop())
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()

			if !tt.check(s) {
				t.Errorf("unexpected storage type %T", s)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Backend = "s3"

	if _, err := storage.Open(context.Background(), &cfg, logger.NewNop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
