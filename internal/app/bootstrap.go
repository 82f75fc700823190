package app

import (
	"fmt"
	"strings"
	"time"

	"paramibot/internal/config"
	"paramibot/internal/content"
	"paramibot/internal/dispatch"
	"paramibot/internal/storage"
	kit "paramibot/internal/transport"
	logx "paramibot/pkg/logx"
)

// Config -> component config mapping. Validation already ran in config.Load,
// so errors here only guard against direct callers.

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    cfg.Logging.Telegram.Enabled,
			MinLevel:   cfg.Logging.Telegram.MinLevel,
			RatePerSec: cfg.Logging.Telegram.RatePerSec,
		},
	}
}

// logTarget is the ops chat for Telegram logging; zero when unset.
func logTarget(cfg *config.Config) kit.ChatTarget {
	g := strings.TrimSpace(cfg.Telegram.GroupLog)
	if g == "" {
		return kit.ChatTarget{}
	}
	to, err := kit.ParseChatTarget(g)
	if err != nil {
		return kit.ChatTarget{}
	}
	return to
}

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	load, err := config.ParseDurationField("content.load_timeout", cfg.Content.LoadTimeout)
	if err != nil {
		return storage.Config{}, err
	}
	busy, err := config.ParseDurationField("content.busy_timeout", cfg.Content.BusyTimeout)
	if err != nil {
		return storage.Config{}, err
	}
	driver, ok := storage.NormalizeDriver(cfg.Content.Driver)
	if !ok {
		return storage.Config{}, fmt.Errorf("content.driver: unknown driver %q", cfg.Content.Driver)
	}
	handles := make(map[content.Language]string, len(cfg.Languages))
	for _, l := range cfg.Languages {
		handles[content.ParseLanguage(l.Key)] = strings.TrimSpace(l.Source)
	}
	return storage.Config{
		Driver:          driver,
		Handles:         handles,
		TitleColumn:     cfg.Content.TitleColumn,
		BodyColumn:      cfg.Content.BodyColumn,
		CredentialsFile: cfg.Content.CredentialsFile,
		Path:            cfg.Content.Path,
		BusyTimeout:     busy,
		LoadTimeout:     load,
	}, nil
}

func mapRoutes(cfg *config.Config) ([]dispatch.Route, error) {
	routes := make([]dispatch.Route, 0, len(cfg.Languages))
	for _, l := range cfg.Languages {
		to, err := kit.ParseChatTarget(l.Destination)
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", l.Key, err)
		}
		routes = append(routes, dispatch.Route{
			Language:    content.ParseLanguage(l.Key),
			Destination: to,
			Header:      strings.TrimSpace(l.Header),
		})
	}
	return routes, nil
}

func mapDispatchOptions(cfg *config.Config) []dispatch.Option {
	var opts []dispatch.Option
	if n := cfg.Dispatch.MaxMessageLen; n > 0 {
		opts = append(opts, dispatch.WithMaxLen(n))
	}
	if m := strings.TrimSpace(cfg.Dispatch.Marker); m != "" {
		opts = append(opts, dispatch.WithMarker(m))
	}
	if p := cfg.Dispatch.Parallelism; p > 1 {
		opts = append(opts, dispatch.WithParallelism(p))
	}
	seed := cfg.Dispatch.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return append(opts, dispatch.WithChooser(dispatch.NewRandChooser(seed)))
}

// languageCommands maps per-language command ids to languages.
func languageCommands(cfg *config.Config) []langCommand {
	out := make([]langCommand, 0, len(cfg.Languages))
	for _, l := range cfg.Languages {
		name := strings.TrimPrefix(strings.TrimSpace(l.Command), "/")
		if name == "" {
			continue
		}
		out = append(out, langCommand{
			Name:        name,
			Language:    content.ParseLanguage(l.Key),
			Description: l.Description,
		})
	}
	return out
}
