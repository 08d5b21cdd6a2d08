package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nikbrunner/popmark/internal/config"
	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/state"
	"github.com/nikbrunner/popmark/internal/storage"
	"github.com/nikbrunner/popmark/internal/tui"
)

// options holds the global flags shared by every command.
type options struct {
	configPath string
	logLevel   string
	ephemeral  bool

	// openURL opens a bookmark; defaults to the system browser.
	openURL func(string) error
}

// env is everything a command needs once config and storage are open.
type env struct {
	cfg   *config.Config
	log   logger.Logger
	store storage.Storage
	state *state.Container
}

// open loads config, builds the logger and loads the store. fileLog sends
// log output to cfg.LogFile instead of stderr, for the TUI.
func (o *options) open(ctx context.Context, fileLog bool) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.ephemeral {
		cfg.Backend = config.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var log logger.Logger
	if fileLog {
		log, err = logger.NewFile(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
	} else {
		log = logger.New(cfg.LogLevel, cfg.PrettyLog)
	}

	st, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	c := state.New(st, log, state.Options{
		Policy:       cfg.Policy(),
		DeleteMode:   cfg.DeleteMode(),
		DefaultColor: cfg.DefaultColor,
	})
	if err := c.Load(ctx); err != nil {
		st.Close()
		return nil, err
	}

	return &env{cfg: cfg, log: log, store: st, state: c}, nil
}

func (o *options) opener() func(string) error {
	if o.openURL != nil {
		return o.openURL
	}
	return tui.OpenURL
}

// Close releases storage and flushes the logger.
func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close storage", logger.Error(err))
	}
	_ = e.log.Sync()
}

// shortID is the id prefix shown in listings; any unique prefix resolves.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveBookmark finds a bookmark by id or unique id prefix.
func resolveBookmark(store *model.Store, ref string) (*model.Bookmark, error) {
	if b := store.BookmarkByID(ref); b != nil {
		return b, nil
	}

	var matches []*model.Bookmark
	for i := range store.Bookmarks {
		if strings.HasPrefix(store.Bookmarks[i].ID, ref) {
			matches = append(matches, &store.Bookmarks[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", model.ErrBookmarkNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d bookmarks", ref, len(matches))
	}
}

// resolveFolder finds a folder by id, by slash-separated path from the
// root ("Dev/Go"), by unique name, or by unique id prefix.
func resolveFolder(store *model.Store, ref string) (*model.Folder, error) {
	if f := store.FolderByID(ref); f != nil {
		return f, nil
	}

	if strings.Contains(ref, "/") {
		if f := folderByPath(store, ref); f != nil {
			return f, nil
		}
		return nil, fmt.Errorf("%w: %s", model.ErrFolderNotFound, ref)
	}

	byName := foldersWhere(store, func(f model.Folder) bool { return f.Name == ref })
	if len(byName) == 0 {
		byName = foldersWhere(store, func(f model.Folder) bool { return strings.HasPrefix(f.ID, ref) })
	}
	switch len(byName) {
	case 0:
		return nil, fmt.Errorf("%w: %s", model.ErrFolderNotFound, ref)
	case 1:
		return byName[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d folders, use a path or id", ref, len(byName))
	}
}

func folderByPath(store *model.Store, path string) *model.Folder {
	var parentID *string
	var found *model.Folder
	for _, name := range strings.Split(strings.Trim(path, "/"), "/") {
		found = nil
		for _, f := range store.ChildrenOf(parentID) {
			if f.Name == name {
				found = store.FolderByID(f.ID)
				break
			}
		}
		if found == nil {
			return nil
		}
		parentID = &found.ID
	}
	return found
}

func foldersWhere(store *model.Store, pred func(model.Folder) bool) []*model.Folder {
	var out []*model.Folder
	for i := range store.Folders {
		if pred(store.Folders[i]) {
			out = append(out, &store.Folders[i])
		}
	}
	return out
}

// describe turns validation errors into one line per field.
func describe(err error) error {
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	msgs := make([]string, 0, len(verr.Fields))
	for _, field := range []string{model.FieldTitle, model.FieldURL, model.FieldFolder, model.FieldName, model.FieldParent} {
		if m, ok := verr.Fields[field]; ok {
			msgs = append(msgs, m)
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
