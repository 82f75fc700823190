package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"paramibot/internal/content"
	logx "paramibot/pkg/logx"
)

func newFakeSheets(t *testing.T) (*sheetsStore, *[]string) {
	t.Helper()
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/spreadsheets/missing"):
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`)
		case strings.Contains(r.URL.Path, "/values/"):
			fmt.Fprint(w, `{"range":"'Paramis'!A1:B3","majorDimension":"ROWS","values":[["Parami","Description"],["Dana","Generosity"],["Sila"]]}`)
		default:
			fmt.Fprint(w, `{"sheets":[{"properties":{"title":"Paramis"}}]}`)
		}
	}))
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	st := newSheetsStore(svc, Config{
		Driver:  "sheets",
		Handles: map[content.Language]string{"english": "sheet-eng", "russian": "missing"},
	}, logx.Nop())
	return st, &paths
}

func TestSheetsLoad(t *testing.T) {
	st, paths := newFakeSheets(t)

	items, err := st.Load(context.Background(), "english")
	require.NoError(t, err)
	assert.Equal(t, []content.Item{{Title: "Dana", Body: "Generosity"}, {Title: "Sila"}}, items)

	require.Len(t, *paths, 2)
	assert.Contains(t, (*paths)[0], "/spreadsheets/sheet-eng")
	assert.Contains(t, (*paths)[1], "/values/'Paramis'")
}

func TestSheetsNotFound(t *testing.T) {
	st, _ := newFakeSheets(t)

	_, err := st.Load(context.Background(), "russian")
	assert.ErrorIs(t, err, content.ErrSourceUnavailable)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'Sheet1'", quoteSheet("Sheet1"))
	assert.Equal(t, "'Bob''s list'", quoteSheet("Bob's list"))
}

func TestOpenSheetsRequiresCredentials(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "sheets", Handles: map[content.Language]string{"english": "x"}}, logx.Nop())
	assert.ErrorContains(t, err, "credentials")
}
