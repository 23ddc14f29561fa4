package utils

const (
	// ConfigFileName is the name of the YAML configuration file.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".mdtoc"
	// IgnoreFileName is the per-root file listing additional ignore patterns.
	IgnoreFileName = ".tocignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// HiddenEntryPrefix marks names that are always excluded.
	HiddenEntryPrefix = "."

	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes a fatal run error.
	ApplicationExecutionFailedMessage = "mdtoc failed"
)
