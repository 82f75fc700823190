package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"paramibot/internal/content"
	logx "paramibot/pkg/logx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
	language TEXT    NOT NULL,
	position INTEGER NOT NULL,
	title    TEXT    NOT NULL,
	body     TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (language, position)
);`

// SQLiteStore keeps items in a local database. Handles map a language to the
// value stored in items.language.
type SQLiteStore struct {
	db  *sql.DB
	cfg Config
	log logx.Logger
}

func openSQLite(ctx context.Context, cfg Config, log logx.Logger) (Store, error) {
	st, err := OpenSQLite(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// OpenSQLite opens (and migrates) the database at cfg.Path.
func OpenSQLite(ctx context.Context, cfg Config, log logx.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &SQLiteStore{db: db, cfg: cfg, log: log}, nil
}

func (s *SQLiteStore) Languages() []content.Language { return handleLanguages(s.cfg.Handles) }

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) key(lang content.Language) (string, bool) {
	k, ok := s.cfg.Handles[lang]
	if ok && strings.TrimSpace(k) == "" {
		k = lang.String()
	}
	return k, ok
}

func (s *SQLiteStore) Load(ctx context.Context, lang content.Language) ([]content.Item, error) {
	key, ok := s.key(lang)
	if !ok {
		return nil, content.Unavailable(lang, &content.UnsupportedLanguageError{Language: lang})
	}
	ctx, cancel := withTimeout(ctx, s.cfg)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT title, body FROM items WHERE language = ? ORDER BY position`, key)
	if err != nil {
		return nil, content.Unavailable(lang, err)
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		var it content.Item
		if err := rows.Scan(&it.Title, &it.Body); err != nil {
			return nil, content.Unavailable(lang, err)
		}
		if it.IsBlank() {
			continue
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, content.Unavailable(lang, err)
	}
	return items, nil
}

// Import replaces every item of lang with items, preserving their order.
func (s *SQLiteStore) Import(ctx context.Context, lang content.Language, items []content.Item) error {
	key, ok := s.key(lang)
	if !ok {
		return &content.UnsupportedLanguageError{Language: lang}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE language = ?`, key); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items(language, position, title, body) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, it := range items {
		if _, err := stmt.ExecContext(ctx, key, i, it.Title, it.Body); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Info("items imported", logx.String("lang", lang.String()), logx.Int("count", len(items)))
	return nil
}
