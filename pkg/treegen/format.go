package treegen

import "strings"

// Entry describes one rendered item as seen by the line formatter.
type Entry struct {
	Name   string
	IsDir  bool
	IsLast bool // Last rendered sibling in its directory.
}

// FormatLine renders a single entry at the given indent and returns the
// indent its children (if any) are drawn with.
func FormatLine(entry Entry, indent string, style Style) (string, string) {
	var line strings.Builder
	line.WriteString(indent)
	if style.PrefixPrecedesSpacer() {
		if entry.IsLast {
			line.WriteString(style.options.LastLinePrefix)
		} else {
			line.WriteString(style.options.LinePrefix)
		}
	}
	line.WriteString(style.options.Spacer)
	if entry.IsDir {
		line.WriteString(style.options.DirectoryPrefix)
	}
	line.WriteString(entry.Name)
	if entry.IsDir {
		line.WriteString(style.options.DirectorySuffix)
	}

	if entry.IsLast {
		return line.String(), indent + style.terminalIndent
	}
	return line.String(), indent + style.continuationIndent
}
