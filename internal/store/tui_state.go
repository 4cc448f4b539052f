package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"photos-cli/internal/model"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small, user-facing UI state for restoring the last screen on relaunch.
//
// It is best effort: callers should tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// Expanded holds the keys of expanded folder tree nodes.
	Expanded []string `json:"expanded,omitempty"`

	// LastFolder is the folder open when the TUI exited.
	LastFolder *model.LoadRequest `json:"lastFolder,omitempty"`

	// HideThumbnails switches the grid to a plain file list.
	HideThumbnails bool `json:"hideThumbnails,omitempty"`

	// Pane is one of: tree|grid
	Pane string `json:"pane,omitempty"`
}

// ExpandedSet returns Expanded as a set.
func (st *TUIState) ExpandedSet() map[string]bool {
	out := map[string]bool{}
	if st == nil {
		return out
	}
	for _, k := range st.Expanded {
		out[k] = true
	}
	return out
}

// SetExpanded stores the true keys of set, sorted.
func (st *TUIState) SetExpanded(set map[string]bool) {
	st.Expanded = st.Expanded[:0]
	for k, v := range set {
		if v {
			st.Expanded = append(st.Expanded, k)
		}
	}
	sort.Strings(st.Expanded)
	if len(st.Expanded) == 0 {
		st.Expanded = nil
	}
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil {
		return nil
	}
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "tui_state.json.*.tmp", s.tuiStatePath(), b, 0o644)
}
