package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvToken       = "PARAMIBOT_TELEGRAM_TOKEN"
	EnvTokenLegacy = "BOT_TOKEN"
	EnvCredentials = "PARAMIBOT_CREDENTIALS_FILE"
)

// LoadDotEnv reads files into the process environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overlays secrets from the environment onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if cfg == nil {
		return
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(k string) string {
		v, ok := lookup(k)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}
	if v := get(EnvToken); v != "" {
		cfg.Telegram.Token = v
	} else if v := get(EnvTokenLegacy); v != "" {
		cfg.Telegram.Token = v
	}
	if v := get(EnvCredentials); v != "" {
		cfg.Content.CredentialsFile = v
	}
}
