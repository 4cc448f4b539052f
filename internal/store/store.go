// Package store persists local client state: the global config, the TUI session
// state and an SQLite cache of the last folder tree and people catalog.
package store

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	cacheFileName = "cache.sqlite"
	logFileName   = "photos.log"
)

// Store is rooted at the config directory.
type Store struct {
	Dir string
}

// Default returns the store rooted at ConfigDir.
func Default() (Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: dir}, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) CachePath() string { return filepath.Join(s.Dir, cacheFileName) }

// LogPath resolves the log file. An explicit "-" disables logging and yields "".
func (s Store) LogPath(override string) string {
	switch override = strings.TrimSpace(override); override {
	case "-":
		return ""
	case "":
		if strings.TrimSpace(s.Dir) == "" {
			return ""
		}
		return filepath.Join(s.Dir, logFileName)
	default:
		return override
	}
}
