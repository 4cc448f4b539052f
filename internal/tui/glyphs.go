package tui

import (
	"os"
	"strings"
	"sync"
)

// Some terminals/fonts render box and arrow glyphs poorly, so there is an ASCII set too.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set. PHOTOS_TUI_GLYPHS wins over the config value.
func applyGlyphPreference(configured string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("PHOTOS_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configured))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphTwistyCollapsed() string { return pick("▸", ">") }
func glyphTwistyExpanded() string  { return pick("▾", "v") }
func glyphLeaf() string            { return pick("•", "*") }
func glyphChecked() string         { return pick("■", "[x]") }
func glyphUnchecked() string       { return pick("□", "[ ]") }
func glyphHRule() string           { return pick("─", "-") }
func glyphEllipsis() string        { return pick("…", "...") }
func glyphScrollLeft() string      { return pick("◀", "<") }
func glyphScrollRight() string     { return pick("▶", ">") }
func glyphWarn() string            { return pick("⚠", "!") }
