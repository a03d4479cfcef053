// Package library persists processed items in a sqlite database.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"youtubetitle/internal/core"
)

// ErrNotFound is returned when no item is stored for a path.
var ErrNotFound = errors.New("item not found")

const schema = `
CREATE TABLE IF NOT EXISTS items (
	path       TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	album      TEXT NOT NULL DEFAULT '',
	artist     TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);`

type Library struct {
	db *sql.DB
}

// Open opens (creating if needed) the library database at path.
func Open(ctx context.Context, path string) (*Library, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open library database: %w", err)
	}

	// sqlite serializes writers; one connection avoids SQLITE_BUSY under concurrent scans.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create library schema: %w", err)
	}

	return &Library{db: db}, nil
}

func (l *Library) Close() error {
	return l.db.Close()
}

// Save inserts or replaces the stored metadata for item.Path.
func (l *Library) Save(ctx context.Context, item *core.Item) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO items (path, title, album, artist, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			album = excluded.album,
			artist = excluded.artist,
			updated_at = excluded.updated_at`,
		item.Path, item.Title, item.Album, item.Artist, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save item %s: %w", item.Path, err)
	}
	return nil
}

// Get returns the item stored for path, or ErrNotFound.
func (l *Library) Get(ctx context.Context, path string) (*core.Item, error) {
	item := &core.Item{Path: path}
	err := l.db.QueryRowContext(ctx,
		`SELECT title, album, artist FROM items WHERE path = ?`, path).
		Scan(&item.Title, &item.Album, &item.Artist)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %s: %w", path, err)
	}
	return item, nil
}

// Paths lists every stored path in lexical order.
func (l *Library) Paths(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT path FROM items ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list library paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan library path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}
