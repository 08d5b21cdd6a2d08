package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"github.com/nikbrunner/popmark/internal/model"
)

// Keys used by KVStorage.
const (
	KeyFolders   = "folders"
	KeyBookmarks = "bookmarks"
	KeyExpanded  = "expanded"
)

// KV is an asynchronous, eventually consistent key-value store.
// Get omits keys that have no value. Set writes a partial record; there is
// no transaction across keys.
type KV interface {
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, values map[string][]byte) error
}

// KVStorage implements Storage on top of a KV, storing folders and
// bookmarks as separate JSON values.
type KVStorage struct {
	kv KV
}

// NewKVStorage creates a KVStorage backed by kv.
func NewKVStorage(kv KV) *KVStorage {
	return &KVStorage{kv: kv}
}

// KV returns the underlying key-value store.
func (s *KVStorage) KV() KV {
	return s.kv
}

// Load reads folders and bookmarks. Missing keys yield an empty store.
func (s *KVStorage) Load(ctx context.Context) (*model.Store, error) {
	values, err := s.kv.Get(ctx, KeyFolders, KeyBookmarks)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	store := emptyStore()
	if data, ok := values[KeyFolders]; ok {
		if err := json.Unmarshal(data, &store.Folders); err != nil {
			return nil, fmt.Errorf("decode %s: %w", KeyFolders, err)
		}
	}
	if data, ok := values[KeyBookmarks]; ok {
		if err := json.Unmarshal(data, &store.Bookmarks); err != nil {
			return nil, fmt.Errorf("decode %s: %w", KeyBookmarks, err)
		}
	}

	store = normalize(store)
	store.RefreshCounts()
	return store, nil
}

// Save writes folders, then bookmarks, as two separate Set calls.
// A failure between them leaves the two keys out of step.
func (s *KVStorage) Save(ctx context.Context, store *model.Store) error {
	store = normalize(store)

	folders, err := json.Marshal(store.Folders)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, map[string][]byte{KeyFolders: folders}); err != nil {
		return fmt.Errorf("save %s: %w", KeyFolders, err)
	}

	bookmarks, err := json.Marshal(store.Bookmarks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, map[string][]byte{KeyBookmarks: bookmarks}); err != nil {
		return fmt.Errorf("save %s: %w", KeyBookmarks, err)
	}

	return nil
}

// LoadExpanded reads the expansion flags; nil when none were saved.
func (s *KVStorage) LoadExpanded(ctx context.Context) (map[string]bool, error) {
	values, err := s.kv.Get(ctx, KeyExpanded)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyExpanded, err)
	}
	data, ok := values[KeyExpanded]
	if !ok {
		return nil, nil
	}

	var expanded map[string]bool
	if err := json.Unmarshal(data, &expanded); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyExpanded, err)
	}
	return expanded, nil
}

// SaveExpanded writes the expansion flags.
func (s *KVStorage) SaveExpanded(ctx context.Context, expanded map[string]bool) error {
	data, err := json.Marshal(expanded)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, map[string][]byte{KeyExpanded: data}); err != nil {
		return fmt.Errorf("save %s: %w", KeyExpanded, err)
	}
	return nil
}

// Close closes the KV if it holds resources.
func (s *KVStorage) Close() error {
	if c, ok := s.kv.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// MemoryKV is an in-process KV.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

func (m *MemoryKV) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (m *MemoryKV) Set(ctx context.Context, values map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range values {
		m.values[k] = append([]byte(nil), v...)
	}
	return nil
}

// Snapshot returns a copy of everything stored.
func (m *MemoryKV) Snapshot() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}
