package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/mdtoc/internal/ignore"
	"github.com/temirov/mdtoc/internal/types"
	"github.com/temirov/mdtoc/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	// DefaultTokenizerModel is the model used for token counting when none is configured.
	DefaultTokenizerModel = "gpt-4o"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// DefaultApplicationConfiguration returns the configuration written by InitializeConfiguration.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	disabled := false
	enabled := true
	return ApplicationConfiguration{
		Toc: TocConfiguration{
			Generate:           &disabled,
			OutputFileName:     types.DefaultOutputFileName,
			OutputDirectory:    "",
			Ignore:             []string{},
			UseIgnoreFile:      &enabled,
			RejectIgnoredPaths: &disabled,
			Copy:               &disabled,
			ExcludeOutputFile:  &disabled,
			Tokens: TokenConfiguration{
				Enabled: &disabled,
				Model:   DefaultTokenizerModel,
			},
		},
	}
}

// RenderDefaultConfiguration serializes the default configuration as YAML.
// The built-in ignore entries are listed in a leading comment since they always apply.
func RenderDefaultConfiguration() ([]byte, error) {
	body, marshalErr := yaml.Marshal(DefaultApplicationConfiguration())
	if marshalErr != nil {
		return nil, fmt.Errorf("render default configuration: %w", marshalErr)
	}
	header := fmt.Sprintf("# Built-in ignore entries, always applied: %v\n", ignore.DefaultPatterns())
	return append([]byte(header), body...), nil
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory for configuration: %w", err)
			}
			homeDirectory = resolvedHome
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	content, renderErr := RenderDefaultConfiguration()
	if renderErr != nil {
		return "", renderErr
	}
	if err := os.WriteFile(destinationPath, content, 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
