package toc

import (
	"strings"

	"github.com/temirov/mdtoc/internal/types"
)

const (
	indentUnit     = "  "
	listMarker     = "- "
	directorySlash = "/"
	lineSeparator  = "\n"
)

// MarkdownRenderer accumulates entries into a nested Markdown list.
//
// Every directory the walker descends into contributes a nested block. A
// directory without listed children contributes an empty block, which shows
// up as a blank line after its heading.
type MarkdownRenderer struct {
	lines   []string
	entries int
	// openDirectory is the last descending entry whose block has no lines yet.
	openDirectory *Entry
}

// Handle appends the list line for entry.
func (renderer *MarkdownRenderer) Handle(entry Entry) error {
	if renderer.openDirectory != nil && entry.Depth <= renderer.openDirectory.Depth {
		renderer.lines = append(renderer.lines, "")
	}
	renderer.openDirectory = nil
	renderer.lines = append(renderer.lines, RenderLine(entry))
	renderer.entries++
	if entry.Descends() {
		descending := entry
		renderer.openDirectory = &descending
	}
	return nil
}

// Entries returns the number of rendered entries.
func (renderer *MarkdownRenderer) Entries() int {
	return renderer.entries
}

// Body returns the list without the document title.
func (renderer *MarkdownRenderer) Body() string {
	lines := renderer.lines
	if renderer.openDirectory != nil {
		lines = append(append([]string(nil), lines...), "")
	}
	return strings.Join(lines, lineSeparator)
}

// Document returns the title, a blank line and the list.
func (renderer *MarkdownRenderer) Document() string {
	return types.TableOfContentsTitle + lineSeparator + lineSeparator + renderer.Body()
}

// RenderLine formats a single entry, e.g. "  - 3.1. [C](/docs/sub/c.md)".
func RenderLine(entry Entry) string {
	var builder strings.Builder
	builder.WriteString(strings.Repeat(indentUnit, entry.Depth))
	builder.WriteString(listMarker)
	builder.WriteString(entry.Index)
	builder.WriteString(" [")
	builder.WriteString(entry.DisplayName)
	if entry.Descends() {
		builder.WriteString(directorySlash)
	}
	builder.WriteString("](")
	builder.WriteString(entry.Path)
	if entry.Descends() {
		builder.WriteString(directorySlash)
	}
	builder.WriteString(")")
	return builder.String()
}
