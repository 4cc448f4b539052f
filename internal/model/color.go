package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is a tag color. The backend stores either #rrggbb or a CSS color name.
type RGBColor struct {
	colorful.Color
}

var namedColors = map[string]string{
	"green":  "#008000",
	"red":    "#ff0000",
	"blue":   "#0000ff",
	"orange": "#ffa500",
	"purple": "#800080",
	"gray":   "#808080",
	"grey":   "#808080",
	"black":  "#000000",
	"white":  "#ffffff",
	"yellow": "#ffff00",
	"cyan":   "#00ffff",
}

// DefaultTagColor is what new folder tags get before the user recolors them.
var DefaultTagColor = MustParseColor("green")

func ParseColor(s string) (RGBColor, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if len(s) == 4 && strings.HasPrefix(s, "#") {
		// #rgb shorthand
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGBColor{Color: c}, nil
}

func MustParseColor(s string) RGBColor {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c RGBColor) String() string { return c.Hex() }

func (c RGBColor) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *RGBColor) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*c = DefaultTagColor
		return nil
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
