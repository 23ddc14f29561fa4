package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/temirov/mdtoc/internal/types"
)

func TestRenderSummaryPlain(t *testing.T) {
	summary := types.RunSummary{
		RootPath:        "/data/docs",
		DestinationPath: "/data/docs_output_copy",
		IgnorePatterns:  []string{".DS_Store", "*.log", "ignore.me"},
		Mirrored:        true,
		TocPath:         "/data/docs_output_copy/TOC.md",
		TocEntries:      4,
		TocBytes:        2048,
		Tokens:          57,
		TokenModel:      "gpt-4o",
		Copied:          true,
	}

	rendered := RenderSummary(summary, NewStyles(false))

	expectedFragments := []string{
		"mdtoc run summary",
		"/data/docs",
		"[.DS_Store, *.log, ignore.me]",
		"/data/docs_output_copy/TOC.md (4 entries, 2kb)",
		"57 (gpt-4o)",
		"Copied to clipboard:",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(rendered, fragment) {
			t.Errorf("expected %q in summary:\n%s", fragment, rendered)
		}
	}
	if strings.Contains(rendered, "\x1b[") {
		t.Errorf("plain styles should not emit ANSI codes: %q", rendered)
	}
}

func TestRenderSummaryWithoutTableOfContents(t *testing.T) {
	rendered := RenderSummary(types.RunSummary{RootPath: "/data/docs", DestinationPath: "/data/docs"}, NewStyles(false))

	if !strings.Contains(rendered, "not generated") {
		t.Errorf("expected missing TOC to be reported:\n%s", rendered)
	}
	if strings.Contains(rendered, "Tokens:") || strings.Contains(rendered, "clipboard") {
		t.Errorf("expected optional lines to be omitted:\n%s", rendered)
	}
}

func TestWriteSummaryToBufferIsPlain(t *testing.T) {
	var buffer bytes.Buffer
	if IsTTY(&buffer) {
		t.Fatalf("a buffer is never a terminal")
	}
	if err := WriteSummary(&buffer, types.RunSummary{RootPath: "/r", DestinationPath: "/r"}); err != nil {
		t.Fatalf("WriteSummary error: %v", err)
	}
	if strings.Contains(buffer.String(), "\x1b[") {
		t.Errorf("expected no ANSI codes: %q", buffer.String())
	}
}
