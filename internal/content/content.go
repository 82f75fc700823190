// Package content defines the curated items the bot distributes and the
// port used to load them per language.
package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Language selects one supported content set (e.g. "english").
type Language string

// ParseLanguage normalizes a user or config supplied key. It never falls back
// to a default; callers decide whether the result is supported.
func ParseLanguage(raw string) Language {
	return Language(strings.ToLower(strings.TrimSpace(raw)))
}

func (l Language) String() string { return string(l) }

// Item is one curated entry. Values are treated as immutable once loaded.
type Item struct {
	Title string
	Body  string
}

// IsBlank reports whether both fields are empty after trimming.
func (it Item) IsBlank() bool {
	return strings.TrimSpace(it.Title) == "" && strings.TrimSpace(it.Body) == ""
}

// Source loads the ordered items of one language.
//
// Load must return a *SourceError (or an error wrapping ErrSourceUnavailable)
// on failure. Languages lists every key the source can resolve.
type Source interface {
	Load(ctx context.Context, lang Language) ([]Item, error)
	Languages() []Language
}

var (
	ErrSourceUnavailable   = errors.New("content source unavailable")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

type SourceError struct {
	Language Language
	Err      error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrSourceUnavailable, e.Language)
	}
	return fmt.Sprintf("%s: %s: %v", ErrSourceUnavailable, e.Language, e.Err)
}

func (e *SourceError) Unwrap() error        { return e.Err }
func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

// Unavailable wraps err as a *SourceError for lang, keeping an existing one as is.
func Unavailable(lang Language, err error) error {
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Language: lang, Err: err}
}

type UnsupportedLanguageError struct {
	Language Language
}

func (e *UnsupportedLanguageError) Error() string {
	if e.Language == "" {
		return fmt.Sprintf("%s: no language given", ErrUnsupportedLanguage)
	}
	return fmt.Sprintf("%s: %q", ErrUnsupportedLanguage, string(e.Language))
}

func (e *UnsupportedLanguageError) Is(target error) bool { return target == ErrUnsupportedLanguage }

// SortLanguages returns a sorted copy.
func SortLanguages(in []Language) []Language {
	out := append([]Language(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
