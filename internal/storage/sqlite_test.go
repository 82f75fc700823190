package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramibot/internal/content"
	logx "paramibot/pkg/logx"
)

func TestSQLiteImportAndLoad(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, Config{
		Driver:  "sqlite",
		Path:    filepath.Join(t.TempDir(), "db", "paramibot.db"),
		Handles: map[content.Language]string{"english": "", "ukrainian": "ukr"},
	}, logx.Nop())
	require.NoError(t, err)
	defer st.Close()

	eng := []content.Item{{Title: "Dana", Body: "Generosity"}, {Title: "Sila", Body: "Virtue"}}
	require.NoError(t, st.Import(ctx, "english", eng))
	require.NoError(t, st.Import(ctx, "ukrainian", []content.Item{{Title: "Дана", Body: "Щедрість"}}))

	got, err := st.Load(ctx, "english")
	require.NoError(t, err)
	assert.Equal(t, eng, got)

	// re-import replaces
	require.NoError(t, st.Import(ctx, "english", eng[1:]))
	got, err = st.Load(ctx, "english")
	require.NoError(t, err)
	assert.Equal(t, eng[1:], got)

	got, err = st.Load(ctx, "ukrainian")
	require.NoError(t, err)
	assert.Equal(t, "Дана", got[0].Title)

	_, err = st.Load(ctx, "russian")
	assert.ErrorIs(t, err, content.ErrSourceUnavailable)
	assert.ErrorIs(t, st.Import(ctx, "russian", nil), content.ErrUnsupportedLanguage)
}

func TestSQLiteLoadEmpty(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, Config{
		Driver:  "sqlite",
		Path:    filepath.Join(t.TempDir(), "p.db"),
		Handles: map[content.Language]string{"english": "english"},
	}, logx.Nop())
	require.NoError(t, err)
	defer st.Close()

	items, err := st.Load(ctx, "english")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), Config{}, logx.Nop())
	assert.Error(t, err)
}

func TestSQLiteLoadSkipsBlankRows(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, Config{
		Path:    filepath.Join(t.TempDir(), "p.db"),
		Handles: map[content.Language]string{"english": "english"},
	}, logx.Nop())
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Import(ctx, "english", []content.Item{
		{Title: "Dana", Body: "Generosity"},
		{Title: " ", Body: "\n"},
		{Title: "Sila", Body: "Virtue"},
	}))
	items, err := st.Load(ctx, "english")
	require.NoError(t, err)
	assert.Equal(t, []content.Item{{Title: "Dana", Body: "Generosity"}, {Title: "Sila", Body: "Virtue"}}, items)
}

func TestSeedFromCSV(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eng.csv"), []byte("Parami,Description\nDana,Generosity\n,\nSila,Virtue\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ukr.csv"), []byte("Parami,Description\nДана,Щедрість\n"), 0o644))

	src, err := Open(ctx, Config{
		Driver:  "csv",
		Path:    dir,
		Handles: map[content.Language]string{"english": "eng.csv", "ukrainian": "ukr.csv"},
	}, logx.Nop())
	require.NoError(t, err)
	dst, err := OpenSQLite(ctx, Config{
		Path:    filepath.Join(dir, "paramibot.db"),
		Handles: map[content.Language]string{"english": "", "ukrainian": ""},
	}, logx.Nop())
	require.NoError(t, err)
	defer dst.Close()

	counts, err := Seed(ctx, dst, src)
	require.NoError(t, err)
	assert.Equal(t, map[content.Language]int{"english": 2, "ukrainian": 1}, counts)

	items, err := dst.Load(ctx, "ukrainian")
	require.NoError(t, err)
	assert.Equal(t, []content.Item{{Title: "Дана", Body: "Щедрість"}}, items)
}

func TestSeedStopsOnEmptySource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eng.csv"), []byte("Parami,Description\n"), 0o644))

	src, err := Open(ctx, Config{Driver: "csv", Path: dir, Handles: map[content.Language]string{"english": "eng.csv"}}, logx.Nop())
	require.NoError(t, err)
	dst, err := OpenSQLite(ctx, Config{
		Path:    filepath.Join(dir, "paramibot.db"),
		Handles: map[content.Language]string{"english": ""},
	}, logx.Nop())
	require.NoError(t, err)
	defer dst.Close()
	require.NoError(t, dst.Import(ctx, "english", []content.Item{{Title: "Dana"}}))

	_, err = Seed(ctx, dst, src)
	assert.ErrorIs(t, err, ErrEmptySeed)

	items, err := dst.Load(ctx, "english")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNormalizeDriver(t *testing.T) {
	for in, want := range map[string]string{
		"": DriverSheets, "GSheets": DriverSheets, "google_sheets": DriverSheets,
		"sqlite3": DriverSQLite, " SQLite ": DriverSQLite, "csv": DriverCSV,
	} {
		got, ok := NormalizeDriver(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := NormalizeDriver("redis")
	assert.False(t, ok)
}
