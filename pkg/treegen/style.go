package treegen

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// StyleOptions holds the formatting tokens of a style before validation.
type StyleOptions struct {
	LinePrefix      string // Marker for a sibling that is followed by more siblings.
	LastLinePrefix  string // Marker for the final sibling; must match LinePrefix in length.
	DirectoryPrefix string // Text placed before a directory name.
	DirectorySuffix string // Text placed after a directory name.
	Spacer          string // Text between the marker and the entry name.

	// MarkerInSpacer drops the marker from each line and relies on the
	// spacer to carry its own glyph. The zero value keeps the marker in
	// front of the spacer.
	MarkerInSpacer bool
}

// Style is a validated, immutable set of formatting tokens.
type Style struct {
	options            StyleOptions
	continuationIndent string
	terminalIndent     string
}

// Preset names.
const (
	PresetMinimal = "minimal"
	PresetFull    = "full"
	PresetArrow   = "arrow"

	DefaultPreset = PresetFull
)

var presetOptions = map[string]StyleOptions{
	PresetMinimal: {
		DirectorySuffix: "/",
		Spacer:          "    ",
	},
	PresetFull: {
		LinePrefix:      "|",
		LastLinePrefix:  "`",
		DirectorySuffix: ":",
		Spacer:          "-- ",
	},
	PresetArrow: {
		LinePrefix:      "|",
		LastLinePrefix:  ">",
		DirectorySuffix: "/",
		Spacer:          ">--> ",
		MarkerInSpacer:  true,
	},
}

// Built-in styles.
var (
	Minimal = mustStyle(presetOptions[PresetMinimal])
	Full    = mustStyle(presetOptions[PresetFull])
	Arrow   = mustStyle(presetOptions[PresetArrow])
)

// NewStyle validates options and precomputes the indentation used below
// non-final and final siblings. LinePrefix and LastLinePrefix must have the
// same number of characters so that columns stay aligned.
func NewStyle(options StyleOptions) (Style, error) {
	lineWidth := utf8.RuneCountInString(options.LinePrefix)
	lastWidth := utf8.RuneCountInString(options.LastLinePrefix)
	if lineWidth != lastWidth {
		return Style{}, fmt.Errorf("%w: line prefix %q and last line prefix %q must have the same length",
			ErrConfiguration, options.LinePrefix, options.LastLinePrefix)
	}

	spacerWidth := utf8.RuneCountInString(options.Spacer)
	return Style{
		options:            options,
		continuationIndent: options.LinePrefix + strings.Repeat(" ", spacerWidth),
		terminalIndent:     strings.Repeat(" ", lineWidth+spacerWidth),
	}, nil
}

func mustStyle(options StyleOptions) Style {
	style, err := NewStyle(options)
	if err != nil {
		panic(err)
	}
	return style
}

// Options returns a copy of the style's tokens.
func (s Style) Options() StyleOptions {
	return s.options
}

// PrefixPrecedesSpacer reports whether the sibling marker is written before the spacer.
func (s Style) PrefixPrecedesSpacer() bool {
	return !s.options.MarkerInSpacer
}

// ContinuationIndent is appended to the indent of children of a non-final sibling.
func (s Style) ContinuationIndent() string {
	return s.continuationIndent
}

// TerminalIndent is appended to the indent of children of a final sibling.
func (s Style) TerminalIndent() string {
	return s.terminalIndent
}

// PresetOptions returns the tokens of a named preset.
func PresetOptions(name string) (StyleOptions, error) {
	options, ok := presetOptions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return StyleOptions{}, fmt.Errorf("%w: unknown style %q (expected one of %s)",
			ErrConfiguration, name, strings.Join(PresetNames(), ", "))
	}
	return options, nil
}

// Preset returns a named built-in style.
func Preset(name string) (Style, error) {
	options, err := PresetOptions(name)
	if err != nil {
		return Style{}, err
	}
	return NewStyle(options)
}

// PresetNames lists the built-in style names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presetOptions))
	for name := range presetOptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
