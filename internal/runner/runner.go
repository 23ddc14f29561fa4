// Package runner executes one mdtoc run: root validation, the optional mirror
// and the table of contents generation.
package runner

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/mdtoc/internal/ignore"
	"github.com/temirov/mdtoc/internal/mirror"
	"github.com/temirov/mdtoc/internal/services/clipboard"
	"github.com/temirov/mdtoc/internal/toc"
	"github.com/temirov/mdtoc/internal/tokenizer"
	"github.com/temirov/mdtoc/internal/types"
	"github.com/temirov/mdtoc/internal/utils"
)

const (
	reasonInvalidRootFormat = "the root path provided %s is not a correct directory, so the TOC cannot be generated"
	reasonIgnoredPathFormat = "the path %s is on the ignore list (pattern %q)"
	errorResolveDestination = "resolving destination %s: %w"
)

// RunConfig is the input of a single run. It is not shared between runs.
type RunConfig struct {
	// RootPath must name an existing directory.
	RootPath string
	// DestinationPath defaults to RootPath, meaning the run operates in place.
	DestinationPath string
	// OutputFileName is the TOC base name without extension; empty means TOC.
	OutputFileName string
	// Ignores defaults to the built-in ignore entries when nil.
	Ignores *ignore.Set
	// GenerateToc enables writing the table of contents.
	GenerateToc bool
	// RejectIgnoredPaths fails the run when the root or destination path itself
	// matches an ignore pattern.
	RejectIgnoredPaths bool
	// RootArgument and DestinationArgument are the paths as the user typed them.
	// The ignored-path check matches these; they default to RootPath and DestinationPath.
	RootArgument        string
	DestinationArgument string
	// ExcludeOutputFile leaves a previous output file out of the listing.
	ExcludeOutputFile bool
}

// Options holds the collaborators of a Runner. All fields are optional.
type Options struct {
	Logger     *zap.Logger
	Counter    tokenizer.Counter
	TokenModel string
	Copier     clipboard.Copier
}

// Runner executes runs with a fixed set of collaborators.
type Runner struct {
	logger     *zap.Logger
	counter    tokenizer.Counter
	tokenModel string
	copier     clipboard.Copier
}

// New constructs a Runner.
func New(options Options) *Runner {
	return &Runner{
		logger:     utils.LoggerOrNop(options.Logger),
		counter:    options.Counter,
		tokenModel: options.TokenModel,
		copier:     options.Copier,
	}
}

// Run mirrors the root when the destination differs from it and then, if
// requested, writes the table of contents of the destination. Any error aborts
// the run; a partially mirrored destination is left in place.
func (runner *Runner) Run(config RunConfig) (types.RunSummary, error) {
	ignores := config.Ignores
	if ignores == nil {
		ignores = ignore.New()
	}

	rootPath, rootError := validateRoot(config.RootPath)
	if rootError != nil {
		return types.RunSummary{}, rootError
	}

	destinationInput := config.DestinationPath
	if destinationInput == "" {
		destinationInput = config.RootPath
	}
	destinationPath, destinationError := utils.AbsoluteCleanPath(destinationInput)
	if destinationError != nil {
		return types.RunSummary{}, fmt.Errorf(errorResolveDestination, destinationInput, destinationError)
	}

	if config.RejectIgnoredPaths {
		rootArgument := config.RootArgument
		if rootArgument == "" {
			rootArgument = config.RootPath
		}
		destinationArgument := config.DestinationArgument
		if destinationArgument == "" {
			destinationArgument = config.DestinationPath
		}
		if destinationArgument == "" {
			destinationArgument = rootArgument
		}
		for _, candidatePath := range []string{rootArgument, destinationArgument} {
			if rejectError := rejectIgnoredPath(candidatePath, ignores); rejectError != nil {
				return types.RunSummary{}, rejectError
			}
		}
	}

	summary := types.RunSummary{
		RootPath:        rootPath,
		DestinationPath: destinationPath,
		IgnorePatterns:  ignores.Patterns(),
	}

	if destinationPath != rootPath {
		if mirrorError := mirror.Mirror(rootPath, destinationPath, ignores, runner.logger); mirrorError != nil {
			return summary, mirrorError
		}
		summary.Mirrored = true
	}
	runner.logger.Debug("run configured",
		zap.String("root", rootPath),
		zap.String("destination", destinationPath),
		zap.Strings("ignore", summary.IgnorePatterns),
		zap.Bool("mirrored", summary.Mirrored),
	)

	if !config.GenerateToc {
		return summary, nil
	}

	result, buildError := toc.Build(destinationPath, ignores, config.OutputFileName, toc.Options{ExcludeOutputFile: config.ExcludeOutputFile}, runner.logger)
	if buildError != nil {
		return summary, buildError
	}
	summary.TocPath = result.Path
	summary.TocEntries = result.Entries
	summary.TocBytes = int64(len(result.Document))
	runner.logger.Info("table of contents generated", zap.String("path", result.Path), zap.Int("entries", result.Entries))

	runner.countTokens(&summary, result.Document)
	runner.copyDocument(&summary, result.Document)
	return summary, nil
}

// countTokens records the document's token count. Failures are logged, not fatal.
func (runner *Runner) countTokens(summary *types.RunSummary, document string) {
	if runner.counter == nil {
		return
	}
	tokens, countError := tokenizer.CountDocument(runner.counter, document)
	if countError != nil {
		runner.logger.Warn("token counting failed", zap.Error(countError))
		return
	}
	summary.Tokens = tokens
	summary.TokenModel = runner.tokenModel
	if summary.TokenModel == "" {
		summary.TokenModel = runner.counter.Name()
	}
}

// copyDocument places the document on the clipboard. Failures are logged, not fatal.
func (runner *Runner) copyDocument(summary *types.RunSummary, document string) {
	if runner.copier == nil {
		return
	}
	if copyError := runner.copier.Copy(document); copyError != nil {
		runner.logger.Warn("copying the table of contents failed", zap.Error(copyError))
		return
	}
	summary.Copied = true
}

func validateRoot(rootPath string) (string, error) {
	reason := fmt.Sprintf(reasonInvalidRootFormat, rootPath)
	absoluteRoot, absoluteError := utils.AbsoluteCleanPath(rootPath)
	if absoluteError != nil {
		return "", types.WrapPathError(types.ErrInvalidRoot, rootPath, reason, absoluteError)
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return "", types.WrapPathError(types.ErrInvalidRoot, rootPath, reason, statError)
	}
	if !rootInfo.IsDir() {
		return "", types.NewPathError(types.ErrInvalidRoot, rootPath, reason)
	}
	return absoluteRoot, nil
}

// rejectIgnoredPath matches the path as given, the way a shell glob would match a full path.
func rejectIgnoredPath(path string, ignores *ignore.Set) error {
	if pattern, matched := ignores.MatchingPattern(path); matched {
		return types.NewPathError(types.ErrIgnoredPathRejected, path, fmt.Sprintf(reasonIgnoredPathFormat, path, pattern))
	}
	return nil
}
