package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramibot/internal/content"
	"paramibot/internal/storage"
	logx "paramibot/pkg/logx"
)

const importConfig = `
telegram:
  token: ""
logging:
  level: info
content:
  driver: sqlite3
  path: %DB%
languages:
  - key: english
    destination: "@paramis_eng"
    header: All Paramis
  - key: ukrainian
    destination: "@paramis_ukr"
    header: Всі Параміти
    source: ukr
`

func writeImportFixture(t *testing.T) (cfgPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	db := filepath.Join(dir, "paramibot.db")
	cfg := []byte(strings.ReplaceAll(importConfig, "%DB%", db))
	cfgPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, cfg, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eng.csv"), []byte("Parami,Description\nDana,Generosity\nSila,Virtue\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ukr.csv"), []byte("Parami,Description\nДана,Щедрість\n"), 0o644))
	return cfgPath, dir
}

func TestImportSeedsSQLiteFromCSV(t *testing.T) {
	cfgPath, dir := writeImportFixture(t)
	ctx := context.Background()

	err := Import(ctx, cfgPath, []string{
		"english=" + filepath.Join(dir, "eng.csv"),
		"UKRAINIAN=" + filepath.Join(dir, "ukr.csv"),
	})
	require.NoError(t, err)

	st, err := storage.OpenSQLite(ctx, storage.Config{
		Path:    filepath.Join(dir, "paramibot.db"),
		Handles: map[content.Language]string{"english": "", "ukrainian": "ukr"},
	}, logx.Nop())
	require.NoError(t, err)
	defer st.Close()

	eng, err := st.Load(ctx, "english")
	require.NoError(t, err)
	assert.Equal(t, []content.Item{{Title: "Dana", Body: "Generosity"}, {Title: "Sila", Body: "Virtue"}}, eng)
	ukr, err := st.Load(ctx, "ukrainian")
	require.NoError(t, err)
	assert.Equal(t, []content.Item{{Title: "Дана", Body: "Щедрість"}}, ukr)
}

func TestImportRejectsBadInput(t *testing.T) {
	cfgPath, dir := writeImportFixture(t)
	ctx := context.Background()
	eng := filepath.Join(dir, "eng.csv")

	assert.Error(t, Import(ctx, cfgPath, nil))
	assert.Error(t, Import(ctx, cfgPath, []string{"english"}))
	assert.Error(t, Import(ctx, cfgPath, []string{"english=" + eng, "english=" + eng}))
	assert.ErrorIs(t, Import(ctx, cfgPath, []string{"latin=" + eng}), content.ErrUnsupportedLanguage)
}

func TestImportRequiresSQLiteDriver(t *testing.T) {
	cfg := sampleConfig()
	err := importInto(context.Background(), cfg, []string{"eng=eng.csv"}, logx.Nop())
	assert.ErrorContains(t, err, "want sqlite")
}

func TestParseImportSourcesSplitsByDriver(t *testing.T) {
	known := map[content.Language]string{"english": "", "ukrainian": ""}
	csvH, sheetH, err := parseImportSources([]string{"english=./eng.CSV", "ukrainian=1AbCsheetId"}, known)
	require.NoError(t, err)
	assert.Equal(t, map[content.Language]string{"english": "./eng.CSV"}, csvH)
	assert.Equal(t, map[content.Language]string{"ukrainian": "1AbCsheetId"}, sheetH)
}
