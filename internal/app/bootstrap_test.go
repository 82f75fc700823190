package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramibot/internal/config"
	"paramibot/internal/content"
	kit "paramibot/internal/transport"
)

func sampleConfig() *config.Config {
	return &config.Config{
		Telegram: config.TelegramConfig{Token: "t", GroupLog: "-100500"},
		Logging: config.LoggingConfig{
			Level:    "debug",
			Telegram: config.LoggingTelegram{Enabled: true, MinLevel: "error", RatePerSec: 2},
		},
		Content: config.ContentConfig{Driver: "CSV", Path: "./content", LoadTimeout: "15s"},
		Dispatch: config.DispatchConfig{MaxMessageLen: 3500, Marker: "*", Parallelism: 3, Seed: 9},
		Languages: []config.LanguageConfig{
			{Key: "UKR", Destination: "@paramis_ukr", Header: " Всі Параміти ", Command: "/all_ukrainian", Source: "ukr.csv"},
			{Key: "eng", Destination: "-1001234", Header: "All Paramis", Source: "eng.csv"},
		},
	}
}

func TestMapStorageConfig(t *testing.T) {
	t.Parallel()
	sc, err := mapStorageConfig(sampleConfig())
	require.NoError(t, err)
	assert.Equal(t, "csv", sc.Driver)
	assert.Equal(t, 15*time.Second, sc.LoadTimeout)
	assert.Equal(t, map[content.Language]string{"ukr": "ukr.csv", "eng": "eng.csv"}, sc.Handles)

	cfg := sampleConfig()
	cfg.Content.Driver = ""
	sc, err = mapStorageConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sheets", sc.Driver)
}

func TestMapRoutes(t *testing.T) {
	t.Parallel()
	routes, err := mapRoutes(sampleConfig())
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, content.Language("ukr"), routes[0].Language)
	assert.Equal(t, kit.ChatTarget{Username: "@paramis_ukr"}, routes[0].Destination)
	assert.Equal(t, "Всі Параміти", routes[0].Header)
	assert.Equal(t, kit.ChatTarget{ChatID: -1001234}, routes[1].Destination)

	cfg := sampleConfig()
	cfg.Languages[1].Destination = "not a chat"
	_, err = mapRoutes(cfg)
	assert.Error(t, err)
}

func TestLanguageCommands(t *testing.T) {
	t.Parallel()
	got := languageCommands(sampleConfig())
	assert.Equal(t, []langCommand{{Name: "all_ukrainian", Language: "ukr"}}, got)
}

func TestLogMapping(t *testing.T) {
	t.Parallel()
	cfg := sampleConfig()
	lc := mapLogConfig(cfg)
	assert.Equal(t, "debug", lc.Level)
	assert.True(t, lc.Telegram.Enabled)
	assert.Equal(t, "error", lc.Telegram.MinLevel)
	assert.Equal(t, kit.ChatTarget{ChatID: -100500}, logTarget(cfg))

	cfg.Telegram.GroupLog = ""
	assert.True(t, logTarget(cfg).IsZero())
}

func TestDispatchOptions(t *testing.T) {
	t.Parallel()
	// marker, max len, parallelism and chooser
	assert.Len(t, mapDispatchOptions(sampleConfig()), 4)
	assert.Len(t, mapDispatchOptions(&config.Config{}), 1)
}
