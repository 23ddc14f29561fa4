// Package types defines every cross‑package data structure used by the mdtoc CLI.
package types

const (
	// DefaultOutputFileName is the base name of the generated table of contents.
	DefaultOutputFileName = "TOC"
	// MarkdownExtension is appended to the output base name.
	MarkdownExtension = ".md"
	// DefaultMirrorSuffix is appended to the root path when a mirror is requested without a destination.
	DefaultMirrorSuffix = "_output_copy"
	// TableOfContentsTitle is the first line of every generated document.
	TableOfContentsTitle = "# Table of Contents"
)

// RunSummary describes the outcome of one run for status reporting.
type RunSummary struct {
	RootPath        string
	DestinationPath string
	IgnorePatterns  []string
	Mirrored        bool
	TocPath         string
	TocEntries      int
	TocBytes        int64
	Tokens          int
	TokenModel      string
	Copied          bool
}
