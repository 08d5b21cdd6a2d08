package storage

import (
	"context"
	"fmt"

	"github.com/nikbrunner/popmark/internal/config"
	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/model"
)

// Storage defines the interface for persisting bookmarks, folders and the
// folder expansion flags.
type Storage interface {
	Load(ctx context.Context) (*model.Store, error)
	Save(ctx context.Context, store *model.Store) error

	LoadExpanded(ctx context.Context) (map[string]bool, error)
	SaveExpanded(ctx context.Context, expanded map[string]bool) error

	Close() error
}

// Open opens the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Storage, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		log.Debug("using file storage", logger.String("path", cfg.DataFile))
		return NewKVStorage(NewFileKV(cfg.DataFile)), nil

	case config.BackendSQLite:
		log.Debug("using sqlite storage", logger.String("path", cfg.SQLiteFile))
		return NewSQLiteStorage(cfg.SQLiteFile)

	case config.BackendRedis:
		client, err := ConnectRedis(ctx, RedisOptionsFrom(cfg.Redis), log)
		if err != nil {
			return nil, err
		}
		return NewKVStorage(NewRedisKV(client, cfg.Redis.Prefix)), nil

	case config.BackendMemory:
		log.Debug("using in-memory storage")
		return NewKVStorage(NewMemoryKV()), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func emptyStore() *model.Store {
	return model.NewStore()
}

// normalize ensures slices are not nil.
func normalize(store *model.Store) *model.Store {
	if store.Folders == nil {
		store.Folders = []model.Folder{}
	}
	if store.Bookmarks == nil {
		store.Bookmarks = []model.Bookmark{}
	}
	return store
}
