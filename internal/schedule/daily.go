package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Daily is a once-per-day trigger time. It implements cron.Schedule.
type Daily struct {
	Hour   int
	Minute int
	Offset time.Duration // east of UTC
}

var (
	reHHMM   = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)
	reOffset = regexp.MustCompile(`^(?i:utc|gmt)?\s*([+-])(\d{1,2})(?::?(\d{2}))?$`)
)

// ParseDaily parses "HH:MM" and an offset like "+03:00", "UTC+3", "-0530" or "Z".
func ParseDaily(at, offset string) (Daily, error) {
	m := reHHMM.FindStringSubmatch(at)
	if m == nil {
		return Daily{}, fmt.Errorf("invalid time %q (want HH:MM)", at)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 || mm > 59 {
		return Daily{}, fmt.Errorf("invalid time %q (hour 0-23, minute 0-59)", at)
	}
	off, err := ParseOffset(offset)
	if err != nil {
		return Daily{}, err
	}
	return Daily{Hour: h, Minute: mm, Offset: off}, nil
}

// ParseOffset parses a fixed UTC offset. Empty means UTC.
func ParseOffset(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToUpper(s) {
	case "", "Z", "UTC", "GMT":
		return 0, nil
	}
	m := reOffset.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid utc offset %q (want e.g. +03:00)", raw)
	}
	h, _ := strconv.Atoi(m[2])
	mm := 0
	if m[3] != "" {
		mm, _ = strconv.Atoi(m[3])
	}
	if h > 14 || mm > 59 {
		return 0, fmt.Errorf("utc offset %q out of range", raw)
	}
	d := time.Duration(h)*time.Hour + time.Duration(mm)*time.Minute
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}

// Location is the fixed zone of the trigger.
func (d Daily) Location() *time.Location {
	return time.FixedZone(formatOffset(d.Offset), int(d.Offset/time.Second))
}

// Next returns the first trigger strictly after t.
func (d Daily) Next(t time.Time) time.Time {
	local := t.In(d.Location())
	next := time.Date(local.Year(), local.Month(), local.Day(), d.Hour, d.Minute, 0, 0, local.Location())
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (d Daily) String() string {
	return fmt.Sprintf("daily %02d:%02d %s", d.Hour, d.Minute, formatOffset(d.Offset))
}

func formatOffset(off time.Duration) string {
	sign := "+"
	if off < 0 {
		sign = "-"
		off = -off
	}
	h := int(off / time.Hour)
	m := int((off % time.Hour) / time.Minute)
	return fmt.Sprintf("UTC%s%02d:%02d", sign, h, m)
}
