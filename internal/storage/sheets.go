package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"paramibot/internal/content"
	logx "paramibot/pkg/logx"
)

type sheetsStore struct {
	svc *sheets.Service
	cfg Config
	log logx.Logger
}

func openSheets(ctx context.Context, cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.CredentialsFile)
	if path == "" {
		return nil, errors.New("sheets: credentials file is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheets: read credentials: %w", err)
	}
	jwt, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("sheets: parse credentials: %w", err)
	}
	// The token source outlives the startup context.
	svc, err := sheets.NewService(ctx, option.WithTokenSource(jwt.TokenSource(context.Background())))
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	log.Info("sheets source ready", logx.String("account", jwt.Email), logx.Int("languages", len(cfg.Handles)))
	return newSheetsStore(svc, cfg, log), nil
}

func newSheetsStore(svc *sheets.Service, cfg Config, log logx.Logger) *sheetsStore {
	return &sheetsStore{svc: svc, cfg: cfg, log: log}
}

func (s *sheetsStore) Languages() []content.Language { return handleLanguages(s.cfg.Handles) }

func (s *sheetsStore) Close() error { return nil }

// Load reads the first worksheet of the language's spreadsheet.
func (s *sheetsStore) Load(ctx context.Context, lang content.Language) ([]content.Item, error) {
	id, ok := s.cfg.Handles[lang]
	if !ok {
		return nil, content.Unavailable(lang, &content.UnsupportedLanguageError{Language: lang})
	}
	ctx, cancel := withTimeout(ctx, s.cfg)
	defer cancel()

	ss, err := s.svc.Spreadsheets.Get(id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, content.Unavailable(lang, wrapGoogleError(err))
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return nil, content.Unavailable(lang, fmt.Errorf("%w: spreadsheet has no worksheets", ErrBadLayout))
	}
	title := ss.Sheets[0].Properties.Title

	vr, err := s.svc.Spreadsheets.Values.Get(id, quoteSheet(title)).Context(ctx).Do()
	if err != nil {
		return nil, content.Unavailable(lang, wrapGoogleError(err))
	}
	rows := make([][]string, len(vr.Values))
	for i, r := range vr.Values {
		rows[i] = make([]string, len(r))
		for j, v := range r {
			rows[i][j] = fmt.Sprint(v)
		}
	}
	tc, bc := s.cfg.columns()
	items, err := mapRecords(rows, tc, bc)
	if err != nil {
		return nil, content.Unavailable(lang, err)
	}
	s.log.Debug("sheet loaded", logx.String("lang", lang.String()), logx.String("sheet", title), logx.Int("items", len(items)))
	return items, nil
}

// quoteSheet builds an A1 range selecting a whole worksheet.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func wrapGoogleError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, gerr.Message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, gerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, gerr.Message)
	default:
		return err
	}
}
