// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mdtoc/internal/config"
	"github.com/temirov/mdtoc/internal/ignore"
	"github.com/temirov/mdtoc/internal/output"
	"github.com/temirov/mdtoc/internal/runner"
	"github.com/temirov/mdtoc/internal/services/clipboard"
	"github.com/temirov/mdtoc/internal/tokenizer"
	"github.com/temirov/mdtoc/internal/types"
	"github.com/temirov/mdtoc/internal/utils"
)

const (
	tocFlagName                    = "toc"
	tocFlagShorthand               = "t"
	ignoreFlagName                 = "ignore"
	ignoreFlagShorthand            = "i"
	outputFileNameFlagName         = "output-toc-filename"
	outputFileNameFlagShorthand    = "f"
	outputDirectoryFlagName        = "output-dir"
	outputDirectoryFlagShorthand   = "o"
	noIgnoreFileFlagName           = "no-ignore-file"
	rejectIgnoredPathsFlagName     = "reject-ignored-paths"
	copyFlagName                   = "copy"
	excludeOutputFileFlagName      = "exclude-output-file"
	tokensFlagName                 = "tokens"
	modelFlagName                  = "model"
	configFlagName                 = "config"
	verboseFlagName                = "verbose"
	versionFlagName                = "version"
	tocFlagDescription             = "generate the table of contents"
	ignoreFlagDescription          = "name or glob pattern to ignore; repeat the flag for several entries"
	outputFileNameFlagDescription  = "name of the output file without extension"
	outputDirectoryFlagDescription = "mirror the root into this directory and work there (default <root>" + types.DefaultMirrorSuffix + " when no value is given)"
	noIgnoreFileFlagDescription    = "do not read " + utils.IgnoreFileName + " from the root"
	rejectIgnoredPathsDescription  = "fail when the root or destination path itself matches an ignore pattern"
	copyFlagDescription            = "copy the generated table of contents to the clipboard"
	excludeOutputFileDescription   = "leave a previously generated output file out of the table of contents"
	tokensFlagDescription          = "report the token count of the generated table of contents"
	modelFlagDescription           = "tokenizer model to use for token counting"
	configFlagDescription          = "path to a configuration file"
	verboseFlagDescription         = "enable debug logging"
	versionFlagDescription         = "display application version"
	versionTemplate                = "mdtoc version: %s\n"
	rootUse                        = "mdtoc <root_dir>"
	rootShortDescription           = "Generate a Markdown table of contents for a directory tree"
	rootLongDescription            = `mdtoc lists a directory tree as a nested, numbered Markdown table of contents.
Each entry links to the absolute path of its file or directory.
Use --toc to write the table, --output-dir to work on a filtered copy of the root,
and --ignore to exclude names or glob patterns. Hidden entries are always excluded.`
	rootUsageExample = `  # Write docs/TOC.md
  mdtoc docs --toc

  # Mirror docs to docs_output_copy without drafts, then index the copy
  mdtoc docs -t -o -i drafts -i '*.tmp'

  # Write Index.md into an explicit mirror
  mdtoc docs -t --output-dir /tmp/docs-copy --output-toc-filename Index`

	errorWorkingDirectoryFormat = "unable to determine working directory: %w"
	errorRootArgument           = "requires exactly one root directory argument"

	initUse                  = "init"
	initShortDescription     = "Write the default configuration file"
	initLongDescription      = "init writes config.yaml with the built-in defaults into the working directory, or into ~/" + utils.GlobalConfigDirectoryName + " with --global."
	initGlobalFlagName       = "global"
	initGlobalDescription    = "write the global configuration instead of the local one"
	initForceFlagName        = "force"
	initForceDescription     = "overwrite an existing configuration file"
	initCompletedMessageFile = "configuration written to %s\n"
)

// Dependencies are the collaborators the commands use. Zero values select the real implementations.
type Dependencies struct {
	Logger        *zap.Logger
	Copier        clipboard.Copier
	NewCounter    func(model string) (tokenizer.Counter, string, error)
	HomeDirectory string
	WorkDirectory string
}

// runOptions holds the flag values of the root command.
type runOptions struct {
	generateToc        bool
	ignorePatterns     []string
	outputFileName     string
	outputDirectory    string
	noIgnoreFile       bool
	rejectIgnoredPaths bool
	copyToClipboard    bool
	excludeOutputFile  bool
	countTokens        bool
	tokenModel         string
	configFilePath     string
	verbose            bool
	showVersion        bool
}

// Execute runs the mdtoc application with the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeOutputDirectoryArguments(os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var options runOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		SilenceUsage: true,
		Args: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				return nil
			}
			if len(arguments) != 1 {
				return errors.New(errorRootArgument)
			}
			return nil
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if options.verbose {
				verboseLogger, loggerError := utils.NewApplicationLogger(true)
				if loggerError != nil {
					return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
				}
				dependencies.Logger = verboseLogger
			}
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return runRoot(command, arguments[0], options, dependencies)
		},
	}

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.BoolVar(&options.verbose, verboseFlagName, false, verboseFlagDescription)
	persistentFlags.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	flags := rootCommand.Flags()
	flags.BoolVarP(&options.generateToc, tocFlagName, tocFlagShorthand, false, tocFlagDescription)
	flags.StringArrayVarP(&options.ignorePatterns, ignoreFlagName, ignoreFlagShorthand, nil, ignoreFlagDescription)
	flags.StringVarP(&options.outputFileName, outputFileNameFlagName, outputFileNameFlagShorthand, types.DefaultOutputFileName, outputFileNameFlagDescription)
	registerOutputDirectoryFlag(flags, &options.outputDirectory)
	flags.BoolVar(&options.noIgnoreFile, noIgnoreFileFlagName, false, noIgnoreFileFlagDescription)
	flags.BoolVar(&options.rejectIgnoredPaths, rejectIgnoredPathsFlagName, false, rejectIgnoredPathsDescription)
	flags.BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	flags.BoolVar(&options.excludeOutputFile, excludeOutputFileFlagName, false, excludeOutputFileDescription)
	flags.BoolVar(&options.countTokens, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.tokenModel, modelFlagName, config.DefaultTokenizerModel, modelFlagDescription)
	flags.StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)

	rootCommand.AddCommand(createInitCommand(&dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runRoot merges flags with configuration and executes one run.
func runRoot(command *cobra.Command, rootArgument string, options runOptions, dependencies Dependencies) error {
	workingDirectory := dependencies.WorkDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configFilePath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if configurationError != nil {
		return configurationError
	}
	settings := resolveSettings(command, options, applicationConfiguration.Toc)

	rootPath := resolveAgainst(workingDirectory, rootArgument)
	destinationPath := resolveDestination(workingDirectory, rootPath, settings.outputDirectory)

	userPatterns := utils.DeduplicatePatterns(settings.ignorePatterns)
	if rootInfo, statError := os.Stat(rootPath); statError == nil && rootInfo.IsDir() {
		loadedPatterns, loadError := config.LoadCombinedIgnorePatterns(rootPath, settings.ignorePatterns, settings.useIgnoreFile)
		if loadError != nil {
			return loadError
		}
		userPatterns = loadedPatterns
	}
	ignores := ignore.New(userPatterns...)

	runnerOptions := runner.Options{Logger: dependencies.Logger}
	if settings.countTokens {
		newCounter := dependencies.NewCounter
		if newCounter == nil {
			newCounter = tokenizer.NewCounter
		}
		counter, resolvedModel, counterError := newCounter(settings.tokenModel)
		if counterError != nil {
			utils.LoggerOrNop(dependencies.Logger).Warn("token counting disabled", zap.String("model", settings.tokenModel), zap.Error(counterError))
		} else {
			runnerOptions.Counter = counter
			runnerOptions.TokenModel = resolvedModel
		}
	}
	if settings.copyToClipboard {
		runnerOptions.Copier = dependencies.Copier
		if runnerOptions.Copier == nil {
			runnerOptions.Copier = clipboard.NewService()
		}
	}

	summary, runError := runner.New(runnerOptions).Run(runner.RunConfig{
		RootPath:            rootPath,
		DestinationPath:     destinationPath,
		OutputFileName:      settings.outputFileName,
		Ignores:             ignores,
		GenerateToc:         settings.generateToc,
		RejectIgnoredPaths:  settings.rejectIgnoredPaths,
		RootArgument:        rootArgument,
		DestinationArgument: typedDestination(rootArgument, settings.outputDirectory),
		ExcludeOutputFile:   settings.excludeOutputFile,
	})
	if runError != nil {
		return runError
	}

	return output.WriteSummary(command.OutOrStdout(), summary)
}

// runSettings are the effective values after merging flags, configuration and defaults.
type runSettings struct {
	generateToc        bool
	ignorePatterns     []string
	outputFileName     string
	outputDirectory    string
	useIgnoreFile      bool
	rejectIgnoredPaths bool
	copyToClipboard    bool
	excludeOutputFile  bool
	countTokens        bool
	tokenModel         string
}

// resolveSettings gives explicitly set flags precedence over configuration,
// and configuration precedence over flag defaults. Ignore entries from both sources are combined.
func resolveSettings(command *cobra.Command, options runOptions, tocConfiguration config.TocConfiguration) runSettings {
	flags := command.Flags()
	settings := runSettings{
		generateToc:        config.BoolValue(tocConfiguration.Generate, options.generateToc),
		ignorePatterns:     utils.DeduplicatePatterns(append(append([]string{}, tocConfiguration.Ignore...), options.ignorePatterns...)),
		outputFileName:     options.outputFileName,
		outputDirectory:    tocConfiguration.OutputDirectory,
		useIgnoreFile:      config.BoolValue(tocConfiguration.UseIgnoreFile, !options.noIgnoreFile),
		rejectIgnoredPaths: config.BoolValue(tocConfiguration.RejectIgnoredPaths, options.rejectIgnoredPaths),
		copyToClipboard:    config.BoolValue(tocConfiguration.Copy, options.copyToClipboard),
		excludeOutputFile:  config.BoolValue(tocConfiguration.ExcludeOutputFile, options.excludeOutputFile),
		countTokens:        config.BoolValue(tocConfiguration.Tokens.Enabled, options.countTokens),
		tokenModel:         options.tokenModel,
	}
	if tocConfiguration.OutputFileName != "" && !flags.Changed(outputFileNameFlagName) {
		settings.outputFileName = tocConfiguration.OutputFileName
	}
	if tocConfiguration.Tokens.Model != "" && !flags.Changed(modelFlagName) {
		settings.tokenModel = tocConfiguration.Tokens.Model
	}
	if flags.Changed(tocFlagName) {
		settings.generateToc = options.generateToc
	}
	if flags.Changed(outputDirectoryFlagName) {
		settings.outputDirectory = options.outputDirectory
	}
	if flags.Changed(noIgnoreFileFlagName) {
		settings.useIgnoreFile = !options.noIgnoreFile
	}
	if flags.Changed(rejectIgnoredPathsFlagName) {
		settings.rejectIgnoredPaths = options.rejectIgnoredPaths
	}
	if flags.Changed(copyFlagName) {
		settings.copyToClipboard = options.copyToClipboard
	}
	if flags.Changed(excludeOutputFileFlagName) {
		settings.excludeOutputFile = options.excludeOutputFile
	}
	if flags.Changed(tokensFlagName) {
		settings.countTokens = options.countTokens
	}
	return settings
}

// resolveDestination maps the output directory setting to a destination path.
// An empty setting means in place; the bare flag means <root>_output_copy.
func resolveDestination(workingDirectory string, rootPath string, outputDirectory string) string {
	switch outputDirectory {
	case "":
		return rootPath
	case outputDirectoryDefaultSentinel:
		return filepath.Clean(rootPath) + types.DefaultMirrorSuffix
	default:
		return resolveAgainst(workingDirectory, outputDirectory)
	}
}

// typedDestination returns the destination the way the user wrote it, or an
// empty string for an in-place run.
func typedDestination(rootArgument string, outputDirectory string) string {
	if outputDirectory == outputDirectoryDefaultSentinel {
		return rootArgument + types.DefaultMirrorSuffix
	}
	return outputDirectory
}

func resolveAgainst(workingDirectory string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDirectory, path)
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies *Dependencies) *cobra.Command {
	var writeGlobal bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			options := config.InitOptions{
				Target:           config.InitTargetLocal,
				Force:            force,
				WorkingDirectory: dependencies.WorkDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			}
			if writeGlobal {
				options.Target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(options)
			if initError != nil {
				return initError
			}
			utils.LoggerOrNop(dependencies.Logger).Debug("configuration initialized", zap.String("path", writtenPath))
			fmt.Fprintf(command.OutOrStdout(), initCompletedMessageFile, writtenPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&writeGlobal, initGlobalFlagName, false, initGlobalDescription)
	initCommand.Flags().BoolVar(&force, initForceFlagName, false, initForceDescription)
	return initCommand
}
