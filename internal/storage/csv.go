package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"paramibot/internal/content"
	logx "paramibot/pkg/logx"
)

type csvStore struct {
	cfg Config
	log logx.Logger
}

func openCSV(cfg Config, log logx.Logger) (Store, error) {
	for lang, p := range cfg.Handles {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("csv: language %q has no file", lang)
		}
	}
	return &csvStore{cfg: cfg, log: log}, nil
}

func (s *csvStore) Languages() []content.Language { return handleLanguages(s.cfg.Handles) }

func (s *csvStore) Close() error { return nil }

func (s *csvStore) path(p string) string {
	if filepath.IsAbs(p) || s.cfg.Path == "" {
		return p
	}
	return filepath.Join(s.cfg.Path, p)
}

// Load re-reads the file every call so edits show up without a restart.
func (s *csvStore) Load(ctx context.Context, lang content.Language) ([]content.Item, error) {
	p, ok := s.cfg.Handles[lang]
	if !ok {
		return nil, content.Unavailable(lang, &content.UnsupportedLanguageError{Language: lang})
	}
	if err := ctx.Err(); err != nil {
		return nil, content.Unavailable(lang, err)
	}
	f, err := os.Open(s.path(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, content.Unavailable(lang, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, content.Unavailable(lang, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	tc, bc := s.cfg.columns()
	items, err := mapRecords(rows, tc, bc)
	if err != nil {
		return nil, content.Unavailable(lang, err)
	}
	return items, nil
}
