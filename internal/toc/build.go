package toc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/mdtoc/internal/ignore"
	"github.com/temirov/mdtoc/internal/types"
	"github.com/temirov/mdtoc/internal/utils"
)

const reasonNotDirectoryFormat = "the TOC could not be generated because the path %s is not a directory"

// Result describes a written table of contents.
type Result struct {
	Path     string
	Document string
	Entries  int
}

// OutputFileName appends the Markdown extension to a base name, defaulting to TOC.
func OutputFileName(baseName string) string {
	trimmedName := strings.TrimSpace(baseName)
	if trimmedName == "" {
		trimmedName = types.DefaultOutputFileName
	}
	return trimmedName + types.MarkdownExtension
}

// Options adjusts how a table of contents is generated.
type Options struct {
	// ExcludeOutputFile leaves the output file out of the base listing, so
	// regenerating over an unchanged tree yields the same document.
	ExcludeOutputFile bool
}

// Generate renders the table of contents document for basePath without writing it.
// A previously written output file is listed like any other file unless options exclude it.
func Generate(basePath string, ignores *ignore.Set, outputName string, options Options) (string, int, error) {
	walker := &Walker{Ignores: ignores}
	if options.ExcludeOutputFile {
		walker.BaseExclusions = []string{OutputFileName(outputName)}
	}
	renderer := &MarkdownRenderer{}
	if walkError := walker.Walk(basePath, renderer.Handle); walkError != nil {
		return "", 0, walkError
	}
	return renderer.Document(), renderer.Entries(), nil
}

// Build renders the table of contents for basePath and writes it to
// basePath/<outputName>.md, replacing any previous file of that name.
func Build(basePath string, ignores *ignore.Set, outputName string, options Options, logger *zap.Logger) (Result, error) {
	logger = utils.LoggerOrNop(logger)
	reason := fmt.Sprintf(reasonNotDirectoryFormat, basePath)

	absoluteBasePath, absoluteError := utils.AbsoluteCleanPath(basePath)
	if absoluteError != nil {
		return Result{}, types.WrapPathError(types.ErrTocWrite, basePath, reason, absoluteError)
	}
	baseInfo, statError := os.Stat(absoluteBasePath)
	if statError != nil {
		return Result{}, types.WrapPathError(types.ErrTocWrite, basePath, reason, statError)
	}
	if !baseInfo.IsDir() {
		return Result{}, types.NewPathError(types.ErrTocWrite, basePath, reason)
	}

	document, entryCount, generateError := Generate(absoluteBasePath, ignores, outputName, options)
	if generateError != nil {
		return Result{}, generateError
	}

	outputPath := filepath.Join(absoluteBasePath, OutputFileName(outputName))
	if writeError := os.WriteFile(outputPath, []byte(document), 0o644); writeError != nil {
		return Result{}, types.WrapPathError(types.ErrTocWrite, basePath, reason, writeError)
	}
	logger.Debug("table of contents written", zap.String("path", outputPath), zap.Int("entries", entryCount))

	return Result{Path: outputPath, Document: document, Entries: entryCount}, nil
}
