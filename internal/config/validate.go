package config

import (
	"errors"
	"fmt"
	"strings"

	"paramibot/internal/content"
	"paramibot/internal/schedule"
	"paramibot/internal/storage"
	"paramibot/internal/transport"
	"paramibot/internal/transport/telegram/router"
	logx "paramibot/pkg/logx"
	"paramibot/pkg/tgui"
)

// Reserved command ids handled by the bot itself.
var reservedCommands = map[string]bool{"start": true, "help": true, "all_paramis": true}

// Validate checks cfg once at startup and reports every problem it finds.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, a ...any) { errs = append(errs, fmt.Errorf(format, a...)) }

	if strings.TrimSpace(c.Telegram.Token) == "" {
		add("telegram.token: required (or set %s)", EnvToken)
	}
	if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
		errs = append(errs, err)
	}
	if c.Telegram.RatePerSec < 0 {
		add("telegram.rate_per_sec: must be >= 0")
	}
	if c.Telegram.Workers < 0 || c.Telegram.QueueSize < 0 {
		add("telegram.workers, telegram.queue_size: must be >= 0")
	}
	if c.Logging.Telegram.Enabled && strings.TrimSpace(c.Telegram.GroupLog) == "" {
		add("logging.telegram: enabled but telegram.group_log is empty")
	}
	if g := strings.TrimSpace(c.Telegram.GroupLog); g != "" {
		if _, err := transport.ParseChatTarget(g); err != nil {
			add("telegram.group_log: %v", err)
		}
	}
	if !logx.ValidLevel(c.Logging.Level) {
		add("logging.level: unknown level %q", c.Logging.Level)
	}
	if !logx.ValidLevel(c.Logging.Telegram.MinLevel) {
		add("logging.telegram.min_level: unknown level %q", c.Logging.Telegram.MinLevel)
	}

	driver, ok := storage.NormalizeDriver(c.Content.Driver)
	switch {
	case !ok:
		add("content.driver: unknown driver %q", c.Content.Driver)
	case driver == storage.DriverSheets:
		if strings.TrimSpace(c.Content.CredentialsFile) == "" {
			add("content.credentials_file: required for sheets (or set %s)", EnvCredentials)
		}
	default:
		if strings.TrimSpace(c.Content.Path) == "" {
			add("content.path: required for %s", driver)
		}
	}
	for _, f := range []struct{ path, raw string }{
		{"content.load_timeout", c.Content.LoadTimeout},
		{"content.busy_timeout", c.Content.BusyTimeout},
		{"schedule.timeout", c.Schedule.Timeout},
	} {
		if _, err := ParseDurationField(f.path, f.raw); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Schedule.IsEnabled() {
		if _, err := schedule.ParseDaily(c.Schedule.Time, c.Schedule.UTCOffset); err != nil {
			add("schedule: %v", err)
		}
	}

	if n := c.Dispatch.MaxMessageLen; n < 0 || n > tgui.MaxMessageLen {
		add("dispatch.max_message_len: must be in (0, %d]", tgui.MaxMessageLen)
	}
	if c.Dispatch.Parallelism < 0 {
		add("dispatch.parallelism: must be >= 0")
	}

	if len(c.Languages) == 0 {
		add("languages: at least one language required")
	}
	seenKey := map[content.Language]bool{}
	seenCmd := map[string]string{}
	for i, l := range c.Languages {
		p := fmt.Sprintf("languages[%d]", i)
		key := content.ParseLanguage(l.Key)
		if key == "" {
			add("%s.key: required", p)
			continue
		}
		p = fmt.Sprintf("languages[%s]", key)
		if seenKey[key] {
			add("%s: duplicate language", p)
		}
		seenKey[key] = true
		if _, err := transport.ParseChatTarget(l.Destination); err != nil {
			add("%s.destination: %v", p, err)
		}
		if strings.TrimSpace(l.Header) == "" {
			add("%s.header: required", p)
		}
		if strings.TrimSpace(l.Source) == "" && driver != storage.DriverSQLite {
			add("%s.source: required", p)
		}
		cmd := strings.TrimPrefix(strings.TrimSpace(l.Command), "/")
		if cmd == "" {
			continue
		}
		switch {
		case !router.ValidCommandName(cmd):
			add("%s.command: %q is not a valid bot command", p, l.Command)
		case reservedCommands[cmd]:
			add("%s.command: %q is reserved", p, cmd)
		case seenCmd[cmd] != "":
			add("%s.command: %q already used by %s", p, cmd, seenCmd[cmd])
		default:
			seenCmd[cmd] = string(key)
		}
	}
	return errors.Join(errs...)
}
