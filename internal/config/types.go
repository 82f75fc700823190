package config

// Config is the whole process configuration.
//
// Everything except Logging is read once at startup; the destination and
// header tables are immutable for the life of the process.
type Config struct {
	Telegram  TelegramConfig   `json:"telegram"`
	Logging   LoggingConfig    `json:"logging"`
	Content   ContentConfig    `json:"content"`
	Schedule  ScheduleConfig   `json:"schedule"`
	Dispatch  DispatchConfig   `json:"dispatch"`
	Languages []LanguageConfig `json:"languages"`
}

type TelegramConfig struct {
	// Token may be left empty in the file and supplied through the environment.
	Token    string `json:"token"`
	GroupLog string `json:"group_log,omitempty"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout,omitempty"`
	// RatePerSec paces outgoing messages. 0 uses the adapter default.
	RatePerSec int `json:"rate_per_sec,omitempty"`
	// Workers handle commands concurrently; 1 runs them one at a time.
	// 0 uses one per CPU (at least 2).
	Workers   int `json:"workers,omitempty"`
	QueueSize int `json:"queue_size,omitempty"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

// ContentConfig selects the content store.
//
// Example:
//
//	"content": { "driver": "sheets", "credentials_file": "./credentials.json" }
type ContentConfig struct {
	Driver          string `json:"driver"` // sheets | sqlite | csv
	CredentialsFile string `json:"credentials_file,omitempty"`
	Path            string `json:"path,omitempty"` // sqlite file or csv directory
	TitleColumn     string `json:"title_column,omitempty"`
	BodyColumn      string `json:"body_column,omitempty"`
	LoadTimeout     string `json:"load_timeout,omitempty"`
	BusyTimeout     string `json:"busy_timeout,omitempty"`
}

// ScheduleConfig is the daily broadcast trigger.
type ScheduleConfig struct {
	Enabled *bool `json:"enabled,omitempty"` // default true
	// Time is "HH:MM" in the UTC offset below.
	Time      string `json:"time"`
	UTCOffset string `json:"utc_offset"`
	// Timeout bounds one broadcast run. "0s" disables it.
	Timeout string `json:"timeout,omitempty"`
}

func (s ScheduleConfig) IsEnabled() bool { return s.Enabled == nil || *s.Enabled }

type DispatchConfig struct {
	MaxMessageLen int    `json:"max_message_len,omitempty"`
	Marker        string `json:"marker,omitempty"`
	Parallelism   int    `json:"parallelism,omitempty"`
	// Seed fixes the random choice of the daily item. 0 seeds from the clock.
	Seed uint64 `json:"seed,omitempty"`
}

// LanguageConfig binds one language to its destination, header, command and
// content handle.
type LanguageConfig struct {
	Key         string `json:"key"`
	Destination string `json:"destination"`
	Header      string `json:"header"`
	Command     string `json:"command,omitempty"`
	Description string `json:"description,omitempty"`
	// Source is the driver-specific handle: spreadsheet id, csv file or sqlite key.
	Source string `json:"source"`
}
