package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/popmark/internal/model"
)

// migrations are applied in order; the schema version is the number applied.
// Folder parents and bookmark folders are plain columns, not foreign keys,
// so a folder deleted without cascade leaves its orphans in place.
var migrations = []string{
	`CREATE TABLE folders (
		id        TEXT PRIMARY KEY NOT NULL,
		name      TEXT NOT NULL,
		parent_id TEXT,
		position  INTEGER NOT NULL
	);
	CREATE INDEX idx_folders_parent_id ON folders(parent_id);

	CREATE TABLE bookmarks (
		id          TEXT PRIMARY KEY NOT NULL,
		title       TEXT NOT NULL,
		url         TEXT NOT NULL,
		folder_id   TEXT NOT NULL,
		favicon     TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		tags        TEXT NOT NULL DEFAULT '[]',
		created_at  TEXT NOT NULL,
		is_favorite INTEGER NOT NULL DEFAULT 0,
		position    INTEGER NOT NULL
	);
	CREATE INDEX idx_bookmarks_folder_id ON bookmarks(folder_id);
	CREATE INDEX idx_bookmarks_url ON bookmarks(url);`,

	`CREATE TABLE expansion (
		folder_id TEXT PRIMARY KEY NOT NULL,
		expanded  INTEGER NOT NULL
	);`,
}

// SQLiteStorage implements Storage on a SQLite database. Rows carry their
// index in the store so a load returns them in the order they were saved.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens (creating if needed) the database at path and
// brings its schema up to date.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	// Pragmas in the DSN apply to every pooled connection.
	q := url.Values{"_pragma": {
		"busy_timeout(5000)",
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
	}}
	db, err := sql.Open("sqlite", path+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string { return s.path }

// Close closes the database.
func (s *SQLiteStorage) Close() error { return s.db.Close() }

// SchemaVersion returns how many migrations have been applied.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

func (s *SQLiteStorage) migrate(ctx context.Context) error {
	applied, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	for v := applied; v < len(migrations); v++ {
		err := s.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("v%d: %w", v+1, err)
		}
	}
	return nil
}

// inTx runs fn in a transaction, committing only when it succeeds.
func (s *SQLiteStorage) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// each runs query and calls scan once per row.
func (s *SQLiteStorage) each(ctx context.Context, query string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Load reads the whole store.
func (s *SQLiteStorage) Load(ctx context.Context) (*model.Store, error) {
	store := emptyStore()

	err := s.each(ctx, "SELECT id, name, parent_id FROM folders ORDER BY position", func(rows *sql.Rows) error {
		var (
			f      model.Folder
			parent sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Name, &parent); err != nil {
			return err
		}
		if parent.Valid {
			f.ParentID = &parent.String
		}
		store.Folders = append(store.Folders, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}

	err = s.each(ctx, `SELECT id, title, url, folder_id, favicon, color, description, tags, created_at, is_favorite
		FROM bookmarks ORDER BY position`, func(rows *sql.Rows) error {
		var (
			b             model.Bookmark
			tags, created string
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.URL, &b.FolderID, &b.Favicon, &b.Color,
			&b.Description, &tags, &created, &b.IsFavorite); err != nil {
			return err
		}
		if json.Unmarshal([]byte(tags), &b.Tags) != nil || len(b.Tags) == 0 {
			b.Tags = nil
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		store.Bookmarks = append(store.Bookmarks, b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}

	store.RefreshCounts()
	return store, nil
}

// Save replaces the stored folders and bookmarks in one transaction.
func (s *SQLiteStorage) Save(ctx context.Context, store *model.Store) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM bookmarks; DELETE FROM folders"); err != nil {
			return err
		}

		for i, f := range store.Folders {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO folders (id, name, parent_id, position) VALUES (?, ?, ?, ?)",
				f.ID, f.Name, f.ParentID, i,
			); err != nil {
				return fmt.Errorf("insert folder %s: %w", f.ID, err)
			}
		}

		insert, err := tx.PrepareContext(ctx, `INSERT INTO bookmarks
			(id, title, url, folder_id, favicon, color, description, tags, created_at, is_favorite, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insert.Close()

		for i, b := range store.Bookmarks {
			tags := "[]"
			if len(b.Tags) > 0 {
				raw, _ := json.Marshal(b.Tags)
				tags = string(raw)
			}
			if _, err := insert.ExecContext(ctx,
				b.ID, b.Title, b.URL, b.FolderID, b.Favicon, b.Color, b.Description,
				tags, b.CreatedAt.Format(time.RFC3339Nano), b.IsFavorite, i,
			); err != nil {
				return fmt.Errorf("insert bookmark %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

// LoadExpanded reads the sidebar expansion flags; nil when none were saved.
func (s *SQLiteStorage) LoadExpanded(ctx context.Context) (map[string]bool, error) {
	var expanded map[string]bool
	err := s.each(ctx, "SELECT folder_id, expanded FROM expansion", func(rows *sql.Rows) error {
		var (
			id   string
			flag bool
		)
		if err := rows.Scan(&id, &flag); err != nil {
			return err
		}
		if expanded == nil {
			expanded = make(map[string]bool)
		}
		expanded[id] = flag
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expanded, nil
}

// SaveExpanded replaces the sidebar expansion flags.
func (s *SQLiteStorage) SaveExpanded(ctx context.Context, expanded map[string]bool) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM expansion"); err != nil {
			return err
		}
		for id, flag := range expanded {
			if _, err := tx.ExecContext(ctx, "INSERT INTO expansion (folder_id, expanded) VALUES (?, ?)", id, flag); err != nil {
				return err
			}
		}
		return nil
	})
}
