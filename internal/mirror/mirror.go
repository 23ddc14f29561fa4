// Package mirror copies a filtered directory tree to a fresh destination.
package mirror

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/mdtoc/internal/ignore"
	"github.com/temirov/mdtoc/internal/types"
	"github.com/temirov/mdtoc/internal/utils"
)

const (
	reasonRootNotDirectoryFormat = "the root path %s is not a directory"
	reasonRootResolveFormat      = "the root path %s cannot be resolved"
	reasonDestinationFormat      = "the destination path %s already exists"
	reasonSourceVanishedFormat   = "the source path %s disappeared during the copy"

	errorResolveDestinationFormat = "resolving destination %s: %w"
	errorInspectDestinationFormat = "inspecting destination %s: %w"
	errorCreateDirectoryFormat    = "creating directory %s: %w"
	errorReadDirectoryFormat      = "reading directory %s: %w"
	errorCopyFileFormat           = "copying %s to %s: %w"
	errorStatFormat               = "stat %s: %w"
)

// Mirror copies the entries of root that ignores admits into destination.
//
// Filtering applies to the listing of root only: an admitted directory is
// copied with all of its contents. The destination must not exist unless it is
// root itself, in which case nothing happens. A failure part way through leaves
// the destination partially populated.
func Mirror(root string, destination string, ignores *ignore.Set, logger *zap.Logger) error {
	logger = utils.LoggerOrNop(logger)

	absoluteRoot, rootResolveError := utils.AbsoluteCleanPath(root)
	if rootResolveError != nil {
		return types.WrapPathError(types.ErrInvalidRoot, root, fmt.Sprintf(reasonRootResolveFormat, root), rootResolveError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRoot)
	if rootStatError != nil {
		return types.WrapPathError(types.ErrInvalidRoot, root, fmt.Sprintf(reasonRootNotDirectoryFormat, root), rootStatError)
	}
	if !rootInfo.IsDir() {
		return types.NewPathError(types.ErrInvalidRoot, root, fmt.Sprintf(reasonRootNotDirectoryFormat, root))
	}

	absoluteDestination, destinationResolveError := utils.AbsoluteCleanPath(destination)
	if destinationResolveError != nil {
		return fmt.Errorf(errorResolveDestinationFormat, destination, destinationResolveError)
	}
	if absoluteDestination == absoluteRoot {
		logger.Debug("mirror skipped, destination is the root", zap.String("path", absoluteRoot))
		return nil
	}
	if _, destinationStatError := os.Lstat(absoluteDestination); destinationStatError == nil {
		return types.NewPathError(types.ErrDestinationExists, destination, fmt.Sprintf(reasonDestinationFormat, destination))
	} else if !errors.Is(destinationStatError, fs.ErrNotExist) {
		return fmt.Errorf(errorInspectDestinationFormat, destination, destinationStatError)
	}

	// The listing is taken before the destination exists so a destination
	// nested under root never copies into itself.
	rootEntries, readError := readDirectory(absoluteRoot)
	if readError != nil {
		return readError
	}
	if mkdirError := os.MkdirAll(absoluteDestination, 0o755); mkdirError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, absoluteDestination, mkdirError)
	}

	// Only a destination inside root can show up again while copying.
	skippedPath := ""
	if utils.IsWithin(absoluteDestination, absoluteRoot) {
		skippedPath = absoluteDestination
		logger.Debug("mirror destination is nested under the root", zap.String("destination", absoluteDestination))
	}

	for _, rootEntry := range rootEntries {
		entryName := rootEntry.Name()
		if ignores != nil && ignores.IsIgnored(entryName) {
			logger.Debug("mirror skipped ignored entry", zap.String("name", entryName))
			continue
		}
		sourcePath := filepath.Join(absoluteRoot, entryName)
		targetPath := filepath.Join(absoluteDestination, entryName)
		if copyError := copyEntry(sourcePath, targetPath, skippedPath); copyError != nil {
			return copyError
		}
		logger.Debug("mirrored entry", zap.String("source", sourcePath), zap.String("target", targetPath))
	}
	return nil
}

// copyEntry copies a file or a whole directory, following symbolic links.
// A sourcePath equal to skippedPath is left out.
func copyEntry(sourcePath string, targetPath string, skippedPath string) error {
	if skippedPath != "" && sourcePath == skippedPath {
		return nil
	}
	sourceInfo, statError := os.Stat(sourcePath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return types.WrapPathError(types.ErrSourceMissing, sourcePath, fmt.Sprintf(reasonSourceVanishedFormat, sourcePath), statError)
		}
		return fmt.Errorf(errorStatFormat, sourcePath, statError)
	}
	if sourceInfo.IsDir() {
		return copyDirectory(sourcePath, targetPath, sourceInfo, skippedPath)
	}
	return copyFile(sourcePath, targetPath, sourceInfo)
}

func copyDirectory(sourcePath string, targetPath string, sourceInfo fs.FileInfo, skippedPath string) error {
	entries, readError := readDirectory(sourcePath)
	if readError != nil {
		return readError
	}
	if mkdirError := os.MkdirAll(targetPath, sourceInfo.Mode().Perm()|0o700); mkdirError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, targetPath, mkdirError)
	}
	for _, entry := range entries {
		childSource := filepath.Join(sourcePath, entry.Name())
		childTarget := filepath.Join(targetPath, entry.Name())
		if copyError := copyEntry(childSource, childTarget, skippedPath); copyError != nil {
			return copyError
		}
	}
	return copyMetadata(targetPath, sourceInfo)
}

// #nosec G304
func copyFile(sourcePath string, targetPath string, sourceInfo fs.FileInfo) (err error) {
	if mkdirError := os.MkdirAll(filepath.Dir(targetPath), 0o755); mkdirError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, filepath.Dir(targetPath), mkdirError)
	}
	sourceFile, openError := os.Open(sourcePath)
	if openError != nil {
		if errors.Is(openError, fs.ErrNotExist) {
			return types.WrapPathError(types.ErrSourceMissing, sourcePath, fmt.Sprintf(reasonSourceVanishedFormat, sourcePath), openError)
		}
		return fmt.Errorf(errorCopyFileFormat, sourcePath, targetPath, openError)
	}
	defer sourceFile.Close()

	targetFile, createError := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, sourceInfo.Mode().Perm()|0o200)
	if createError != nil {
		return fmt.Errorf(errorCopyFileFormat, sourcePath, targetPath, createError)
	}
	defer func() {
		if closeError := targetFile.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorCopyFileFormat, sourcePath, targetPath, closeError)
		}
	}()

	if _, copyError := io.Copy(targetFile, sourceFile); copyError != nil {
		return fmt.Errorf(errorCopyFileFormat, sourcePath, targetPath, copyError)
	}
	return copyMetadata(targetPath, sourceInfo)
}

// copyMetadata applies the permission bits and modification time of sourceInfo to targetPath.
func copyMetadata(targetPath string, sourceInfo fs.FileInfo) error {
	if chmodError := os.Chmod(targetPath, sourceInfo.Mode().Perm()); chmodError != nil {
		return fmt.Errorf(errorCopyFileFormat, sourceInfo.Name(), targetPath, chmodError)
	}
	modificationTime := sourceInfo.ModTime()
	if chtimesError := os.Chtimes(targetPath, modificationTime, modificationTime); chtimesError != nil {
		return fmt.Errorf(errorCopyFileFormat, sourceInfo.Name(), targetPath, chtimesError)
	}
	return nil
}

func readDirectory(directoryPath string) ([]os.DirEntry, error) {
	entries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, types.WrapPathError(types.ErrSourceMissing, directoryPath, fmt.Sprintf(reasonSourceVanishedFormat, directoryPath), readError)
		}
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readError)
	}
	return entries, nil
}
