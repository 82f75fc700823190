package router

import (
	"regexp"
	"strings"
)

var reCommandName = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// ValidCommandName reports whether name is a valid Telegram bot command.
func ValidCommandName(name string) bool { return reCommandName.MatchString(name) }

// ParseCommand splits "/name@bot arg1 arg2" into its parts. ok is false for
// non-commands and for commands addressed to a different bot. botUsername
// may be empty, in which case any @suffix is accepted.
func ParseCommand(text, botUsername string) (name string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	word := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(word, '@'); i >= 0 {
		target := word[i+1:]
		word = word[:i]
		if botUsername != "" && !strings.EqualFold(target, strings.TrimPrefix(botUsername, "@")) {
			return "", nil, false
		}
	}
	word = strings.ToLower(word)
	if word == "" {
		return "", nil, false
	}
	return word, fields[1:], true
}
