package config

import (
	"reflect"
	"strings"

	logx "paramibot/pkg/logx"
)

// Change summarizes a reload. Only the logging section is applied live;
// any other changed section needs a restart.
type Change struct {
	Sections        []string
	RestartRequired []string
	Attrs           []logx.Field
}

func (c Change) Empty() bool { return len(c.Sections) == 0 }

// SummarizeChange compares two configs. Attrs never include secrets.
func SummarizeChange(oldCfg, newCfg *Config) Change {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}
	var ch Change
	mark := func(section string, live bool) {
		ch.Sections = append(ch.Sections, section)
		if !live {
			ch.RestartRequired = append(ch.RestartRequired, section)
		}
	}

	if oldCfg.Telegram != newCfg.Telegram {
		mark("telegram", false)
		ch.Attrs = append(ch.Attrs,
			logx.Bool("telegram.token_changed", oldCfg.Telegram.Token != newCfg.Telegram.Token),
			logx.Bool("telegram.group_log_set", strings.TrimSpace(newCfg.Telegram.GroupLog) != ""),
		)
	}
	if oldCfg.Logging != newCfg.Logging {
		mark("logging", true)
		ch.Attrs = append(ch.Attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.file", newCfg.Logging.File.Enabled),
			logx.Bool("logging.telegram", newCfg.Logging.Telegram.Enabled),
		)
	}
	if oldCfg.Content != newCfg.Content {
		mark("content", false)
		ch.Attrs = append(ch.Attrs, logx.String("content.driver", newCfg.Content.Driver))
	}
	if !reflect.DeepEqual(oldCfg.Schedule, newCfg.Schedule) {
		mark("schedule", false)
		ch.Attrs = append(ch.Attrs,
			logx.String("schedule.time", newCfg.Schedule.Time),
			logx.String("schedule.utc_offset", newCfg.Schedule.UTCOffset),
		)
	}
	if oldCfg.Dispatch != newCfg.Dispatch {
		mark("dispatch", false)
	}
	if !reflect.DeepEqual(oldCfg.Languages, newCfg.Languages) {
		mark("languages", false)
		ch.Attrs = append(ch.Attrs, logx.Int("languages.count", len(newCfg.Languages)))
	}
	return ch
}
