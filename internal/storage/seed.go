package storage

import (
	"context"
	"errors"
	"fmt"

	"paramibot/internal/content"
	logx "paramibot/pkg/logx"
)

// ErrEmptySeed is returned when a seed source has no items for a language.
var ErrEmptySeed = errors.New("seed source returned no items")

// Seed copies every language of src into dst, replacing what dst held.
// A language that fails to load or is empty stops the copy; languages
// already copied stay imported.
func Seed(ctx context.Context, dst *SQLiteStore, src content.Source) (map[content.Language]int, error) {
	counts := map[content.Language]int{}
	for _, lang := range src.Languages() {
		items, err := src.Load(ctx, lang)
		if err != nil {
			return counts, fmt.Errorf("seed %s: %w", lang, err)
		}
		kept := items[:0:0]
		for _, it := range items {
			if !it.IsBlank() {
				kept = append(kept, it)
			}
		}
		if len(kept) == 0 {
			return counts, fmt.Errorf("seed %s: %w", lang, ErrEmptySeed)
		}
		if err := dst.Import(ctx, lang, kept); err != nil {
			return counts, fmt.Errorf("seed %s: %w", lang, err)
		}
		counts[lang] = len(kept)
	}
	dst.log.Info("seed finished", logx.Int("languages", len(counts)))
	return counts, nil
}
