// Package toc builds a hierarchical Markdown table of contents for a directory tree.
package toc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/temirov/mdtoc/internal/ignore"
)

const (
	indexSeparator = "."

	errorReadDirectoryFormat = "reading directory %s: %w"
	errorAbsolutePathFormat  = "getting absolute path for %s: %w"
)

// Entry is one listed file or directory.
type Entry struct {
	Name        string
	Path        string
	IsDirectory bool
	IsSymlink   bool
	Index       string
	Depth       int
	DisplayName string
}

// Descends reports whether the walker recurses into the entry.
// Symbolic links to directories are listed as leaves.
func (entry Entry) Descends() bool {
	return entry.IsDirectory && !entry.IsSymlink
}

// VisitFunc receives entries in depth-first pre-order.
type VisitFunc func(Entry) error

// Walker lists a directory tree in the order the table of contents presents it.
type Walker struct {
	Ignores *ignore.Set
	// BaseExclusions are names skipped in the base directory only.
	BaseExclusions []string
}

// Walk visits every retained entry beneath basePath. Children of a directory
// follow it immediately, before its next sibling.
func (walker *Walker) Walk(basePath string, visit VisitFunc) error {
	absoluteBasePath, absoluteError := filepath.Abs(basePath)
	if absoluteError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, basePath, absoluteError)
	}
	return walker.walkDirectory(filepath.Clean(absoluteBasePath), 0, "", visit)
}

func (walker *Walker) walkDirectory(directoryPath string, depth int, parentIndex string, visit VisitFunc) error {
	// os.ReadDir returns entries sorted by file name, which keeps indices stable.
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return fmt.Errorf(errorReadDirectoryFormat, directoryPath, readError)
	}

	localIndex := 1
	for _, directoryEntry := range directoryEntries {
		name := directoryEntry.Name()
		if walker.isExcluded(name, depth) {
			continue
		}

		childPath := filepath.Join(directoryPath, name)
		entry := Entry{
			Name:      name,
			Path:      childPath,
			IsSymlink: directoryEntry.Type()&os.ModeSymlink != 0,
			Index:     parentIndex + strconv.Itoa(localIndex) + indexSeparator,
			Depth:     depth,
		}
		if targetInfo, statError := os.Stat(childPath); statError == nil {
			entry.IsDirectory = targetInfo.IsDir()
		}
		entry.DisplayName = FormatName(name, entry.IsDirectory)

		if visitError := visit(entry); visitError != nil {
			return visitError
		}
		if entry.Descends() {
			if walkError := walker.walkDirectory(childPath, depth+1, entry.Index, visit); walkError != nil {
				return walkError
			}
		}
		localIndex++
	}
	return nil
}

func (walker *Walker) isExcluded(name string, depth int) bool {
	if walker.Ignores != nil && walker.Ignores.IsIgnored(name) {
		return true
	}
	if depth == 0 {
		for _, excludedName := range walker.BaseExclusions {
			if name == excludedName {
				return true
			}
		}
	}
	return false
}
