package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"photos-cli/internal/metrics"
	"photos-cli/internal/model"
)

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("PHOTOS_CONFIG_DIR", cfgDir)

	if err := SaveConfig(&GlobalConfig{ServerURL: "http://seed"}); err != nil {
		t.Fatalf("SaveConfig(seed): %v", err)
	}

	const n = 32
	errCh := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := LoadConfig()
			if err != nil {
				errCh <- err
				return
			}
			cfg.ServerURL = fmt.Sprintf("http://host-%d", i)
			if err := SaveConfig(cfg); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}
	if t.Failed() {
		return
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config.json: %v", err)
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("config.json corrupted: %v\n%s", err, raw)
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://host-") {
		t.Fatalf("unexpected server url %q", cfg.ServerURL)
	}

	ents, _ := os.ReadDir(cfgDir)
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestLoadConfig_MissingIsEmpty(t *testing.T) {
	t.Setenv("PHOTOS_CONFIG_DIR", t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg, &GlobalConfig{}) {
		t.Fatalf("expected empty config, got %#v", cfg)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PHOTOS_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestGlobalConfig_Set(t *testing.T) {
	cfg := &GlobalConfig{}
	cases := []struct {
		key, value string
		wantErr    bool
	}{
		{"serverUrl", "http://nas:8080/", false},
		{"format", "edn", false},
		{"format", "yaml", true},
		{"tui.glyphs", "ascii", false},
		{"tui.glyphs", "emoji", true},
		{"tui.charWidth", "2", false},
		{"tui.charWidth", "-1", true},
		{"nope", "x", true},
	}
	for _, tc := range cases {
		err := cfg.Set(tc.key, tc.value)
		if (err != nil) != tc.wantErr {
			t.Fatalf("Set(%s, %s): err=%v wantErr=%v", tc.key, tc.value, err, tc.wantErr)
		}
	}
	want := map[string]string{
		"serverUrl":     "http://nas:8080",
		"format":        "edn",
		"tui.glyphs":    "ascii",
		"tui.charWidth": "2",
	}
	if got := cfg.Values(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Values: got %v want %v", got, want)
	}

	var unknown UnknownKeyError
	if !errors.As(cfg.Set("nope", ""), &unknown) || unknown.Key != "nope" {
		t.Fatalf("expected UnknownKeyError")
	}

	_ = cfg.Set("tui.glyphs", "")
	_ = cfg.Set("tui.charWidth", "")
	if cfg.TUI != nil {
		t.Fatalf("expected empty TUI section dropped, got %#v", cfg.TUI)
	}
}

func TestStore_LogPath(t *testing.T) {
	s := Store{Dir: "/cfg"}
	if got := s.LogPath(""); got != filepath.Join("/cfg", "photos.log") {
		t.Fatalf("default log path %q", got)
	}
	if got := s.LogPath("-"); got != "" {
		t.Fatalf("expected disabled logging, got %q", got)
	}
	if got := s.LogPath("/tmp/x.log"); got != "/tmp/x.log" {
		t.Fatalf("override ignored: %q", got)
	}
}

func TestTUIState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}

	st0, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st0 == nil || st0.Version != 1 {
		t.Fatalf("expected default Version=1; got %#v", st0)
	}

	want := &TUIState{
		Version:        1,
		Expanded:       []string{"/browserf/a", "/browserf/a/b"},
		LastFolder:     &model.LoadRequest{Key: "/browserf/a/b", TagsURL: "/tags/a/b", Path: "a/b"},
		HideThumbnails: true,
		Pane:           "grid",
	}
	if err := s.SaveTUIState(want); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}
	got, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestTUIState_CorruptedIsDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, tuiStateFileName), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := Store{Dir: dir}.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st.Version != 1 || st.Expanded != nil {
		t.Fatalf("expected default state, got %#v", st)
	}
}

func TestTUIState_ExpandedSet(t *testing.T) {
	st := &TUIState{}
	st.SetExpanded(map[string]bool{"b": true, "a": true, "c": false})
	if !reflect.DeepEqual(st.Expanded, []string{"a", "b"}) {
		t.Fatalf("expected sorted true keys, got %v", st.Expanded)
	}
	if set := st.ExpandedSet(); !set["a"] || !set["b"] || set["c"] {
		t.Fatalf("unexpected set %v", set)
	}
	st.SetExpanded(nil)
	if st.Expanded != nil {
		t.Fatalf("expected nil after clearing")
	}
}

func TestCache_TreeAndPeople(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	c, err := Store{Dir: t.TempDir()}.OpenCache(ctx, m)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Tree(ctx); err != nil || ok {
		t.Fatalf("expected miss on empty cache, ok=%v err=%v", ok, err)
	}

	roots := []model.FolderNode{{ID: 1, Title: "2021", Key: "/browserf/2021", Children: []model.FolderNode{
		{ID: 2, Title: "trip", Key: "/browserf/2021/trip", HasImages: true},
	}}}
	if err := c.PutTree(ctx, roots); err != nil {
		t.Fatalf("PutTree: %v", err)
	}
	e, ok, err := c.Tree(ctx)
	if err != nil || !ok {
		t.Fatalf("Tree: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(e.Value, roots) || e.StoredAt.IsZero() {
		t.Fatalf("unexpected cached tree %#v", e)
	}

	people := []model.Person{{ID: 1, Name: "Ann"}}
	if err := c.PutPeople(ctx, people); err != nil {
		t.Fatalf("PutPeople: %v", err)
	}
	p, ok, _ := c.People(ctx)
	if !ok || !reflect.DeepEqual(p.Value, people) {
		t.Fatalf("unexpected people %#v", p)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := c.People(ctx); ok {
		t.Fatalf("expected miss after Clear")
	}

	samples, _ := m.Snapshot()
	counts := map[string]float64{}
	for _, s := range samples {
		if s.Name == "photos_cache_lookups_total" {
			counts[s.Labels["entry"]+"/"+s.Labels["result"]] = s.Value
		}
	}
	want := map[string]float64{"tree/miss": 1, "tree/hit": 1, "people/hit": 1, "people/miss": 1}
	if !reflect.DeepEqual(counts, want) {
		t.Fatalf("cache lookups: got %v want %v", counts, want)
	}
}

func TestCache_NilIsNoop(t *testing.T) {
	var c *Cache
	if err := c.PutTree(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Tree(context.Background()); ok || err != nil {
		t.Fatalf("nil cache must miss quietly")
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}
