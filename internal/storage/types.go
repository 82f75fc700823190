package storage

import (
	"errors"
	"strings"
	"time"

	"paramibot/internal/content"
)

var (
	ErrNotFound    = errors.New("content not found")
	ErrForbidden   = errors.New("content access forbidden")
	ErrRateLimited = errors.New("content source rate limited")
	ErrBadLayout   = errors.New("unexpected content layout")
)

// Driver names.
const (
	DriverSheets = "sheets"
	DriverSQLite = "sqlite"
	DriverCSV    = "csv"
)

// NormalizeDriver maps a configured driver name or alias to its canonical
// name. An empty name selects sheets.
func NormalizeDriver(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sheets", "gsheets", "google_sheets":
		return DriverSheets, true
	case "sqlite", "sqlite3":
		return DriverSQLite, true
	case "csv":
		return DriverCSV, true
	}
	return "", false
}

const (
	DefaultTitleColumn = "Parami"
	DefaultBodyColumn  = "Description"
)

// Config configures the content store.
//
// Handles maps each language to a driver-specific handle:
// spreadsheet id (sheets), file path (csv) or language key (sqlite).
type Config struct {
	Driver  string
	Handles map[content.Language]string

	TitleColumn string
	BodyColumn  string

	// CredentialsFile is a Google service-account JSON key (sheets only).
	CredentialsFile string
	// Path is the sqlite database file, or the base directory for relative csv paths.
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default

	// LoadTimeout bounds one Load call; 0 disables.
	LoadTimeout time.Duration
}

func (c Config) columns() (string, string) {
	t, b := c.TitleColumn, c.BodyColumn
	if t == "" {
		t = DefaultTitleColumn
	}
	if b == "" {
		b = DefaultBodyColumn
	}
	return t, b
}

func handleLanguages(h map[content.Language]string) []content.Language {
	out := make([]content.Language, 0, len(h))
	for l := range h {
		out = append(out, l)
	}
	return content.SortLanguages(out)
}
