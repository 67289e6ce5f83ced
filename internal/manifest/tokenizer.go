// Package manifest reads the line-oriented project manifests and flattens
// their dependency graph into an ordered source file list.
//
// A manifest looks like:
//
//	#%SimplAPI=1.0
//
//	dependencies:
//	- ../adder/adder.yml
//	files:
//	- hdl/system.vhd
//
// A section is a header line followed by a contiguous run of "- " items;
// the first line that is not an item ends the run.
package manifest

import (
	"strings"
)

// LineKind classifies one manifest line.
type LineKind int

const (
	LineBlank    LineKind = iota
	LineComment           // # text
	LineHeader            // #%Name=version
	LineSection           // name:
	LineProperty          // key: value
	LineItem              // - value
	LineOther
)

// String returns a readable name for the kind
func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineHeader:
		return "header"
	case LineSection:
		return "section"
	case LineProperty:
		return "property"
	case LineItem:
		return "item"
	default:
		return "other"
	}
}

// Line is one classified manifest line.
type Line struct {
	Kind   LineKind
	Number int    // 1-based
	Key    string // header name, section name or property key
	Value  string // header version, property value or item value
	Raw    string // line text without the line terminator
}

// Tokenize splits manifest text into classified lines.
func Tokenize(data string) []Line {
	if data == "" {
		return nil
	}
	raw := strings.Split(data, "\n")
	// A trailing newline does not open another line.
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([]Line, 0, len(raw))
	for i, text := range raw {
		text = strings.TrimSuffix(text, "\r")
		line := classify(text)
		line.Number = i + 1
		line.Raw = text
		lines = append(lines, line)
	}
	return lines
}

func classify(text string) Line {
	t := strings.TrimSpace(text)
	switch {
	case t == "":
		return Line{Kind: LineBlank}
	case strings.HasPrefix(t, "#%"):
		key, value, _ := strings.Cut(t[2:], "=")
		return Line{Kind: LineHeader, Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}
	case strings.HasPrefix(t, "#"):
		return Line{Kind: LineComment, Value: strings.TrimSpace(t[1:])}
	case strings.HasPrefix(t, "-"):
		return Line{Kind: LineItem, Value: strings.TrimSpace(t[1:])}
	}

	key, value, found := strings.Cut(t, ":")
	if !found || !isKey(key) {
		return Line{Kind: LineOther}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Line{Kind: LineSection, Key: key}
	}
	return Line{Kind: LineProperty, Key: key, Value: value}
}

// isKey reports whether s can name a section or property.
func isKey(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
