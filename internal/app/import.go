package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"paramibot/internal/config"
	"paramibot/internal/content"
	"paramibot/internal/storage"
	logx "paramibot/pkg/logx"
)

// Import seeds the sqlite content store named in the config at cfgPath.
//
// Each entry of from is "language=handle". A handle ending in .csv is read
// with the csv driver; anything else is a spreadsheet id read with the
// configured Google credentials. The bot token is not needed.
func Import(ctx context.Context, cfgPath string, from []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.NewManager(cfgPath).Parse()
	if err != nil {
		return err
	}
	log := logx.NewConsole(cfg.Logging.Level).With(logx.String("comp", "import"))
	return importInto(ctx, cfg, from, log)
}

func importInto(ctx context.Context, cfg *config.Config, from []string, log logx.Logger) error {
	sc, err := mapStorageConfig(cfg)
	if err != nil {
		return err
	}
	if sc.Driver != storage.DriverSQLite {
		return fmt.Errorf("import: content.driver is %q, want %s", sc.Driver, storage.DriverSQLite)
	}
	csvHandles, sheetHandles, err := parseImportSources(from, sc.Handles)
	if err != nil {
		return err
	}

	dst, err := storage.OpenSQLite(ctx, sc, log)
	if err != nil {
		return err
	}
	defer dst.Close()

	for _, src := range []storage.Config{
		{Driver: storage.DriverCSV, Handles: csvHandles},
		{Driver: storage.DriverSheets, Handles: sheetHandles, CredentialsFile: sc.CredentialsFile},
	} {
		if len(src.Handles) == 0 {
			continue
		}
		src.TitleColumn, src.BodyColumn, src.LoadTimeout = sc.TitleColumn, sc.BodyColumn, sc.LoadTimeout
		st, err := storage.Open(ctx, src, log)
		if err != nil {
			return fmt.Errorf("import: open %s: %w", src.Driver, err)
		}
		counts, err := storage.Seed(ctx, dst, st)
		_ = st.Close()
		for lang, n := range counts {
			log.Info("language imported", logx.String("lang", lang.String()), logx.String("from", src.Driver), logx.Int("items", n))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// parseImportSources splits "language=handle" entries by driver. Every
// language must be configured and appear at most once.
func parseImportSources(from []string, known map[content.Language]string) (csvH, sheetH map[content.Language]string, err error) {
	if len(from) == 0 {
		return nil, nil, errors.New("import: no sources given")
	}
	csvH, sheetH = map[content.Language]string{}, map[content.Language]string{}
	seen := map[content.Language]bool{}
	for _, f := range from {
		k, v, ok := strings.Cut(f, "=")
		lang, handle := content.ParseLanguage(k), strings.TrimSpace(v)
		if !ok || lang == "" || handle == "" {
			return nil, nil, fmt.Errorf("import: %q: want language=file.csv or language=spreadsheet_id", f)
		}
		if _, ok := known[lang]; !ok {
			return nil, nil, fmt.Errorf("import: %w", &content.UnsupportedLanguageError{Language: lang})
		}
		if seen[lang] {
			return nil, nil, fmt.Errorf("import: language %q given twice", lang)
		}
		seen[lang] = true
		if strings.EqualFold(filepath.Ext(handle), ".csv") {
			csvH[lang] = handle
		} else {
			sheetH[lang] = handle
		}
	}
	return csvH, sheetH, nil
}
