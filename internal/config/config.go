// Package config loads the settings of the learnconnect command.
//
// Values are layered: built-in defaults, then an optional TOML file, then
// a .env file, then LEARNCONNECT_* environment variables. Later layers win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/learnconnect/learnconnect.go/pkg/constants"
)

const envPrefix = "LEARNCONNECT_"

type Config struct {
	BaseURL     string        `toml:"base_url"`
	Timeout     time.Duration `toml:"timeout"`
	SessionPath string        `toml:"session_path"`
	// SecretHash and SecretBlock, when set, sign and encrypt the stored
	// session. SecretBlock must be 16, 24 or 32 bytes long.
	SecretHash  string `toml:"secret_hash"`
	SecretBlock string `toml:"secret_block"`
	LogLevel    string `toml:"log_level"`
	LogPath     string `toml:"log_path"`
	// LogFormat is "json" (zerolog) or "text" (slog key=value lines).
	LogFormat string `toml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:     constants.DefaultBaseURL,
		Timeout:     constants.DefaultHTTPTimeout,
		SessionPath: defaultSessionPath(),
		LogLevel:    "warn",
		LogFormat:   "json",
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".learnconnect", "session.db")
	}
	return filepath.Join(home, ".learnconnect", "session.db")
}

// Load builds the configuration. An empty tomlPath skips the file; a
// missing envPath is ignored.
func Load(tomlPath, envPath string) (Config, error) {
	cfg := Default()

	if tomlPath != "" {
		if _, err := toml.DecodeFile(tomlPath, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", tomlPath, err)
		}
	}

	dotenv := map[string]string{}
	if envPath != "" {
		m, err := godotenv.Read(envPath)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("failed to read env file %s: %w", envPath, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v := os.Getenv(envPrefix + key); v != "" {
			return v, true
		}
		v, ok := dotenv[envPrefix+key]
		return v, ok && v != ""
	}

	for key, dst := range map[string]*string{
		"BASE_URL":     &cfg.BaseURL,
		"SESSION_PATH": &cfg.SessionPath,
		"SECRET_HASH":  &cfg.SecretHash,
		"SECRET_BLOCK": &cfg.SecretBlock,
		"LOG_LEVEL":    &cfg.LogLevel,
		"LOG_PATH":     &cfg.LogPath,
		"LOG_FORMAT":   &cfg.LogFormat,
	} {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	if v, ok := lookup("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %sTIMEOUT: %w", envPrefix, err)
		}
		cfg.Timeout = d
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return constants.ErrNoBaseURL
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.LogFormat {
	case "", "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	if c.SecretBlock != "" {
		if c.SecretHash == "" {
			return errors.New("secret_block requires secret_hash")
		}
		switch len(c.SecretBlock) {
		case 16, 24, 32:
		default:
			return fmt.Errorf("secret_block must be 16, 24 or 32 bytes, got %d", len(c.SecretBlock))
		}
	}
	return nil
}
