package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "t"},
		Content:  ContentConfig{Driver: "sheets", CredentialsFile: "creds.json"},
		Schedule: ScheduleConfig{Time: "03:33", UTCOffset: "+03:00"},
		Languages: []LanguageConfig{
			{Key: "ukr", Destination: "@ukr", Header: "Всі Параміти", Command: "all_ukrainian", Source: "sheet-ukr"},
			{Key: "eng", Destination: "@eng", Header: "All Paramis", Command: "all_english", Source: "sheet-eng"},
		},
	}
}

func TestValidateOK(t *testing.T) {
	t.Parallel()
	require.NoError(t, validConfig().Validate())
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no token", func(c *Config) { c.Telegram.Token = "" }, "telegram.token"},
		{"negative workers", func(c *Config) { c.Telegram.Workers = -1 }, "telegram.workers"},
		{"bad schedule", func(c *Config) { c.Schedule.Time = "3pm" }, "schedule"},
		{"bad offset", func(c *Config) { c.Schedule.UTCOffset = "Kyiv" }, "utc offset"},
		{"max len too big", func(c *Config) { c.Dispatch.MaxMessageLen = 5000 }, "max_message_len"},
		{"no languages", func(c *Config) { c.Languages = nil }, "at least one language"},
		{"dup language", func(c *Config) { c.Languages[1].Key = "UKR" }, "duplicate language"},
		{"no destination", func(c *Config) { c.Languages[0].Destination = "" }, "destination"},
		{"no header", func(c *Config) { c.Languages[0].Header = " " }, "header: required"},
		{"no source", func(c *Config) { c.Languages[0].Source = "" }, "source: required"},
		{"dup command", func(c *Config) { c.Languages[1].Command = "/all_ukrainian" }, "already used"},
		{"bad command", func(c *Config) { c.Languages[0].Command = "All-Ukr" }, "not a valid bot command"},
		{"reserved command", func(c *Config) { c.Languages[0].Command = "help" }, "reserved"},
		{"unknown driver", func(c *Config) { c.Content.Driver = "redis" }, "unknown driver"},
		{"csv without path", func(c *Config) { c.Content.Driver = "csv" }, "content.path"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"tg log without group", func(c *Config) { c.Logging.Telegram.Enabled = true }, "group_log"},
		{"bad timeout", func(c *Config) { c.Schedule.Timeout = "soon" }, "schedule.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateAcceptsDriverAliases(t *testing.T) {
	t.Parallel()
	for _, d := range []string{"gsheets", "Google_Sheets", ""} {
		c := validConfig()
		c.Content.Driver = d
		assert.NoError(t, c.Validate(), d)
	}

	c := validConfig()
	c.Content = ContentConfig{Driver: "sqlite3", Path: "./paramibot.db"}
	c.Languages[0].Source = ""
	assert.NoError(t, c.Validate())
}

func TestValidateDisabledScheduleSkipsTime(t *testing.T) {
	t.Parallel()
	c := validConfig()
	off := false
	c.Schedule = ScheduleConfig{Enabled: &off}
	require.NoError(t, c.Validate())
}

func TestSummarizeChange(t *testing.T) {
	t.Parallel()
	a := validConfig()
	b := validConfig()
	assert.True(t, SummarizeChange(a, b).Empty())

	b.Logging.Level = "debug"
	ch := SummarizeChange(a, b)
	assert.Equal(t, []string{"logging"}, ch.Sections)
	assert.Empty(t, ch.RestartRequired)

	b.Languages[0].Header = "Нове"
	b.Telegram.Token = "other"
	ch = SummarizeChange(a, b)
	assert.Equal(t, []string{"telegram", "logging", "languages"}, ch.Sections)
	assert.Equal(t, []string{"telegram", "languages"}, ch.RestartRequired)
}
