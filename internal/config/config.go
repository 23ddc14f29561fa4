// Package config loads layered YAML configuration and per-root ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/mdtoc/internal/utils"
)

const (
	commentPrefix                 = "#"
	errorLoadIgnoreFileFormat     = "loading %s from %s: %w"
	warningCloseIgnoreFileMessage = "Warning: failed to close %s: %v\n"
)

// LoadIgnoreFilePatterns reads one pattern per line from ignoreFilePath.
// Blank lines and lines starting with # are skipped. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, warningCloseIgnoreFileMessage, ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadCombinedIgnorePatterns returns the user ignore entries for a root directory:
// the patterns of its ignore file (when useIgnoreFile is set) followed by
// exclusionPatterns, deduplicated in order.
func LoadCombinedIgnorePatterns(absoluteDirectoryPath string, exclusionPatterns []string, useIgnoreFile bool) ([]string, error) {
	var combinedPatterns []string

	if useIgnoreFile {
		ignoreFilePath := filepath.Join(absoluteDirectoryPath, utils.IgnoreFileName)
		ignoreFilePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFileFormat, utils.IgnoreFileName, absoluteDirectoryPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, ignoreFilePatterns...)
	}

	for _, pattern := range utils.DeduplicatePatterns(exclusionPatterns) {
		if !utils.ContainsString(combinedPatterns, pattern) {
			combinedPatterns = append(combinedPatterns, pattern)
		}
	}

	return utils.DeduplicatePatterns(combinedPatterns), nil
}
