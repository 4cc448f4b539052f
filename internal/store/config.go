package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type GlobalConfig struct {
	// ServerURL is the base URL of the photos server (e.g. "http://nas:8080").
	ServerURL string `json:"serverUrl,omitempty"`

	// RootURL is the folder tree endpoint, relative to ServerURL. Defaults to "/rootFolders".
	RootURL string `json:"rootUrl,omitempty"`

	// Format is the default CLI output format ("json" or "edn").
	Format string `json:"format,omitempty"`

	LogLevel string `json:"logLevel,omitempty"`
	// LogFile overrides the default log file. "-" disables logging.
	LogFile string `json:"logFile,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// CharWidth is the width of one timeline label character, in cells.
	CharWidth int `json:"charWidth,omitempty"`
}

// ConfigKeys lists the keys accepted by Set, in display order.
var ConfigKeys = []string{"serverUrl", "rootUrl", "format", "logLevel", "logFile", "tui.glyphs", "tui.charWidth"}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.photos).
	if v := strings.TrimSpace(os.Getenv("PHOTOS_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".photos"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp names: the CLI and the TUI may write concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// UnknownKeyError is returned by Set for keys outside ConfigKeys.
type UnknownKeyError struct {
	Key string
}

func (e UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown config key %q (valid: %s)", e.Key, strings.Join(ConfigKeys, ", "))
}

// Set assigns one key. An empty value clears it.
func (cfg *GlobalConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "serverUrl":
		cfg.ServerURL = strings.TrimRight(value, "/")
	case "rootUrl":
		cfg.RootURL = value
	case "format":
		if value != "" && value != "json" && value != "edn" {
			return fmt.Errorf("format must be json or edn, got %q", value)
		}
		cfg.Format = value
	case "logLevel":
		cfg.LogLevel = value
	case "logFile":
		cfg.LogFile = value
	case "tui.glyphs":
		if value != "" && value != "unicode" && value != "ascii" {
			return fmt.Errorf("glyphs must be unicode or ascii, got %q", value)
		}
		cfg.tui().Glyphs = value
	case "tui.charWidth":
		n := 0
		if value != "" {
			var err error
			if n, err = strconv.Atoi(value); err != nil || n < 0 {
				return fmt.Errorf("charWidth must be a non-negative integer, got %q", value)
			}
		}
		cfg.tui().CharWidth = n
	default:
		return UnknownKeyError{Key: key}
	}
	if cfg.TUI != nil && *cfg.TUI == (TUIConfig{}) {
		cfg.TUI = nil
	}
	return nil
}

func (cfg *GlobalConfig) tui() *TUIConfig {
	if cfg.TUI == nil {
		cfg.TUI = &TUIConfig{}
	}
	return cfg.TUI
}

// Values flattens the config into ConfigKeys order, skipping unset keys.
func (cfg *GlobalConfig) Values() map[string]string {
	out := map[string]string{}
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put("serverUrl", cfg.ServerURL)
	put("rootUrl", cfg.RootURL)
	put("format", cfg.Format)
	put("logLevel", cfg.LogLevel)
	put("logFile", cfg.LogFile)
	if cfg.TUI != nil {
		put("tui.glyphs", cfg.TUI.Glyphs)
		if cfg.TUI.CharWidth > 0 {
			put("tui.charWidth", strconv.Itoa(cfg.TUI.CharWidth))
		}
	}
	return out
}

// SortedKeys returns the keys of m sorted.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
