package storage

import (
	"context"
	"errors"

	"paramibot/internal/content"
	logx "paramibot/pkg/logx"
)

// Store is a content source that may hold resources.
type Store interface {
	content.Source
	Close() error
}

// Open initializes the configured driver.
func Open(ctx context.Context, cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	if len(cfg.Handles) == 0 {
		return nil, errors.New("storage: no language handles configured")
	}
	driver, ok := NormalizeDriver(cfg.Driver)
	if !ok {
		return nil, errors.New("unknown storage driver: " + cfg.Driver)
	}
	switch driver {
	case DriverSQLite:
		return openSQLite(ctx, cfg, log)
	case DriverCSV:
		return openCSV(cfg, log)
	default:
		return openSheets(ctx, cfg, log)
	}
}

// withTimeout applies the per-load timeout, if any.
func withTimeout(ctx context.Context, cfg Config) (context.Context, context.CancelFunc) {
	if cfg.LoadTimeout > 0 {
		return context.WithTimeout(ctx, cfg.LoadTimeout)
	}
	return ctx, func() {}
}
