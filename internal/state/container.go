// Package state holds the single source of truth shared by the TUI, the CLI
// and the HTTP API: the store, the active query and the folder expansion.
package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/query"
	"github.com/nikbrunner/popmark/internal/storage"
	"github.com/nikbrunner/popmark/internal/tree"
)

// Options configures a Container.
type Options struct {
	Policy     tree.Policy
	DeleteMode model.DeleteMode
	// DefaultColor replaces model.DefaultColor for new bookmarks when set.
	DefaultColor string
}

// Container guards the store and the view state with a mutex.
type Container struct {
	mu        sync.RWMutex
	store     *model.Store
	params    query.Params
	expansion *tree.Expansion
	opts      Options

	storage storage.Storage
	log     logger.Logger

	listenersMu sync.Mutex
	listeners   []func(Event)
}

// New creates an empty container backed by st. Call Load to read the
// persisted store.
func New(st storage.Storage, log logger.Logger, opts Options) *Container {
	store := model.NewStore()
	return &Container{
		store:     store,
		expansion: tree.NewExpansion(store.Folders, opts.Policy),
		opts:      opts,
		storage:   st,
		log:       log,
	}
}

// Load replaces the in-memory state with what storage holds. On failure
// the prior state is kept.
func (c *Container) Load(ctx context.Context) error {
	store, err := c.storage.Load(ctx)
	if err != nil {
		c.log.Error("load store", logger.Error(err))
		return fmt.Errorf("load store: %w", err)
	}

	expansion := tree.NewExpansion(store.Folders, c.opts.Policy)
	saved, err := c.storage.LoadExpanded(ctx)
	if err != nil {
		c.log.Warn("load expansion, using defaults", logger.Error(err))
	} else if saved != nil {
		expansion.Restore(saved)
	}

	c.mu.Lock()
	c.store = store
	c.expansion = expansion
	c.dropStaleSelection()
	c.mu.Unlock()

	c.log.Debug("store loaded",
		logger.Int("folders", len(store.Folders)),
		logger.Int("bookmarks", len(store.Bookmarks)))
	return nil
}

// Subscribe registers fn to receive an Event after every dispatch.
// Listeners run on the dispatching goroutine without the lock held.
func (c *Container) Subscribe(fn func(Event)) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Container) emit(ev Event) {
	c.listenersMu.Lock()
	listeners := append([]func(Event){}, c.listeners...)
	c.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Dispatch applies a.
func (c *Container) Dispatch(ctx context.Context, a Action) error {
	_, err := c.Apply(ctx, a)
	return err
}

// Apply applies a and returns what it produced.
func (c *Container) Apply(ctx context.Context, a Action) (Result, error) {
	c.mu.Lock()
	res, err := c.apply(ctx, a)
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("action failed", logger.String("action", a.Name()), logger.Error(err))
	} else {
		c.log.Debug("action applied", logger.String("action", a.Name()))
	}
	c.emit(Event{Action: a, Err: err})
	return res, err
}

func (c *Container) apply(ctx context.Context, a Action) (Result, error) {
	switch a := a.(type) {
	case AddBookmark:
		params := a.Params
		if params.Color == "" && c.opts.DefaultColor != "" {
			params.Color = c.opts.DefaultColor
		}
		var created model.Bookmark
		err := c.mutate(ctx, func(s *model.Store) (err error) {
			created, err = s.AddBookmark(params)
			return err
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Bookmark: &created}, nil

	case UpdateBookmark:
		var updated model.Bookmark
		err := c.mutate(ctx, func(s *model.Store) (err error) {
			updated, err = s.UpdateBookmark(a.ID, a.Patch)
			return err
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Bookmark: &updated}, nil

	case DeleteBookmark:
		return Result{}, c.mutate(ctx, func(s *model.Store) error {
			return s.DeleteBookmark(a.ID)
		})

	case ToggleFavorite:
		var toggled model.Bookmark
		err := c.mutate(ctx, func(s *model.Store) error {
			if err := s.ToggleFavorite(a.ID); err != nil {
				return err
			}
			toggled = *s.BookmarkByID(a.ID)
			return nil
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Bookmark: &toggled}, nil

	case AddFolder:
		var created model.Folder
		err := c.mutate(ctx, func(s *model.Store) (err error) {
			created, err = s.AddFolder(a.Params)
			return err
		})
		if err != nil {
			return Result{}, err
		}
		if created.ParentID != nil && !c.expansion.IsExpanded(*created.ParentID) {
			// The folder itself is saved; a lost expansion flag is cosmetic.
			if err := c.setExpanded(ctx, *created.ParentID, true); err != nil {
				c.log.Warn("expand parent", logger.String("folder", *created.ParentID), logger.Error(err))
			}
		}
		return Result{Folder: &created}, nil

	case DeleteFolder:
		mode := c.opts.DeleteMode
		if a.Mode != nil {
			mode = *a.Mode
		}
		var deleted model.DeleteResult
		err := c.mutate(ctx, func(s *model.Store) (err error) {
			deleted, err = s.DeleteFolder(a.ID, mode)
			return err
		})
		if err != nil {
			return Result{}, err
		}
		c.dropStaleSelection()
		return Result{Deleted: deleted}, nil

	case MoveFolder:
		return Result{}, c.mutate(ctx, func(s *model.Store) error {
			return s.MoveFolder(a.ID, a.ParentID)
		})

	case ToggleExpanded:
		if c.store.FolderByID(a.ID) == nil {
			return Result{}, fmt.Errorf("%w: %s", model.ErrFolderNotFound, a.ID)
		}
		expanded := !c.expansion.IsExpanded(a.ID)
		if err := c.setExpanded(ctx, a.ID, expanded); err != nil {
			return Result{}, err
		}
		return Result{Expanded: expanded}, nil

	case SelectFolder:
		c.params.ActiveFolder = copyPtr(a.ID)
		return Result{}, nil

	case SelectTag:
		c.params.ActiveTag = copyPtr(a.Tag)
		return Result{}, nil

	case SetSearch:
		c.params.SearchQuery = a.Query
		return Result{}, nil

	case ClearFilters:
		c.params = query.Params{}
		return Result{}, nil

	case Import:
		var res Result
		err := c.mutate(ctx, func(s *model.Store) error {
			res.Imported, res.Skipped = s.ImportMerge(a.Folders, a.Bookmarks)
			return nil
		})
		if err != nil {
			return Result{}, err
		}
		return res, nil
	}

	return Result{}, fmt.Errorf("unknown action %T", a)
}

// mutate runs fn on a clone of the store, persists the clone and swaps it
// in. On any error the current store is left untouched.
func (c *Container) mutate(ctx context.Context, fn func(*model.Store) error) error {
	next := c.store.Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.RefreshCounts()

	if err := c.storage.Save(ctx, next); err != nil {
		c.log.Error("save store", logger.Error(err))
		return fmt.Errorf("save store: %w", err)
	}

	c.store = next
	c.expansion.Sync(next.Folders)
	return nil
}

func (c *Container) setExpanded(ctx context.Context, id string, expanded bool) error {
	next := c.expansion.Clone()
	next.Set(id, expanded)
	if err := c.storage.SaveExpanded(ctx, next.Snapshot()); err != nil {
		c.log.Error("save expansion", logger.Error(err))
		return fmt.Errorf("save expansion: %w", err)
	}
	c.expansion = next
	return nil
}

// dropStaleSelection clears an active folder that no longer exists.
func (c *Container) dropStaleSelection() {
	if f := c.params.ActiveFolder; f != nil && c.store.FolderByID(*f) == nil {
		c.params.ActiveFolder = nil
	}
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
