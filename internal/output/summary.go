// Package output renders human-readable status reports for mdtoc runs.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/temirov/mdtoc/internal/types"
	"github.com/temirov/mdtoc/internal/utils"
)

const (
	summaryTitle          = "mdtoc run summary"
	labelRootPath         = "Root path"
	labelDestinationPath  = "Destination path"
	labelIgnoredEntries   = "Ignored entries"
	labelMirrored         = "Mirrored"
	labelTableOfContents  = "TOC file"
	labelTokens           = "Tokens"
	labelClipboard        = "Copied to clipboard"
	valueYes              = "yes"
	valueNo               = "no"
	valueNotGenerated     = "not generated"
	tocDetailsFormat      = "%s (%d entries, %s)"
	tokenDetailsFormat    = "%d (%s)"
	ignoreListFormat      = "[%s]"
	ignoreListSeparator   = ", "
	summaryLineFormat     = "  %s %s\n"
	summaryLabelMinLength = 20
)

// Styles holds the lipgloss styles used by the summary.
type Styles struct {
	Title lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
}

// NewStyles returns colored styles for terminals and plain styles otherwise.
func NewStyles(isTTY bool) Styles {
	if !isTTY {
		return Styles{Title: lipgloss.NewStyle(), Key: lipgloss.NewStyle(), Value: lipgloss.NewStyle()}
	}
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Key:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Value: lipgloss.NewStyle(),
	}
}

// IsTTY reports whether writer is a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// RenderSummary formats the outcome of a run.
func RenderSummary(summary types.RunSummary, styles Styles) string {
	var builder strings.Builder
	builder.WriteString(styles.Title.Render(summaryTitle))
	builder.WriteString("\n")

	writeLine := func(label string, value string) {
		paddedLabel := fmt.Sprintf("%-*s", summaryLabelMinLength, label+":")
		fmt.Fprintf(&builder, summaryLineFormat, styles.Key.Render(paddedLabel), styles.Value.Render(value))
	}

	writeLine(labelRootPath, summary.RootPath)
	writeLine(labelDestinationPath, summary.DestinationPath)
	writeLine(labelIgnoredEntries, fmt.Sprintf(ignoreListFormat, strings.Join(summary.IgnorePatterns, ignoreListSeparator)))
	writeLine(labelMirrored, yesNo(summary.Mirrored))
	if summary.TocPath == "" {
		writeLine(labelTableOfContents, valueNotGenerated)
	} else {
		writeLine(labelTableOfContents, fmt.Sprintf(tocDetailsFormat, summary.TocPath, summary.TocEntries, utils.FormatFileSize(summary.TocBytes)))
	}
	if summary.TokenModel != "" {
		writeLine(labelTokens, fmt.Sprintf(tokenDetailsFormat, summary.Tokens, summary.TokenModel))
	}
	if summary.Copied {
		writeLine(labelClipboard, valueYes)
	}
	return builder.String()
}

// WriteSummary renders summary to writer, colored when writer is a terminal.
func WriteSummary(writer io.Writer, summary types.RunSummary) error {
	_, err := io.WriteString(writer, RenderSummary(summary, NewStyles(IsTTY(writer))))
	return err
}

func yesNo(value bool) string {
	if value {
		return valueYes
	}
	return valueNo
}
