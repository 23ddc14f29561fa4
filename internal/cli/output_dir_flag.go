package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

const (
	outputDirectoryFlagTypeName = "dir"
	// outputDirectoryDefaultSentinel marks the flag given without a value.
	outputDirectoryDefaultSentinel = "\x00default"
	flagTerminator                 = "--"
)

// valueFlagTokens lists the flags whose value may follow as a separate argument.
var valueFlagTokens = map[string]struct{}{
	"-" + ignoreFlagShorthand:         {},
	"--" + ignoreFlagName:             {},
	"-" + outputFileNameFlagShorthand: {},
	"--" + outputFileNameFlagName:     {},
	"--" + configFlagName:             {},
	"--" + modelFlagName:              {},
}

// outputDirectoryValue is a string flag whose value is optional.
type outputDirectoryValue struct {
	target *string
}

func (value *outputDirectoryValue) Set(input string) error {
	*value.target = input
	return nil
}

func (value *outputDirectoryValue) String() string {
	if value == nil || value.target == nil || *value.target == outputDirectoryDefaultSentinel {
		return ""
	}
	return *value.target
}

func (value *outputDirectoryValue) Type() string {
	return outputDirectoryFlagTypeName
}

func registerOutputDirectoryFlag(flagSet *pflag.FlagSet, target *string) {
	if flagSet == nil || target == nil {
		return
	}
	flagSet.VarP(&outputDirectoryValue{target: target}, outputDirectoryFlagName, outputDirectoryFlagShorthand, outputDirectoryFlagDescription)
	if lookup := flagSet.Lookup(outputDirectoryFlagName); lookup != nil {
		lookup.NoOptDefVal = outputDirectoryDefaultSentinel
	}
}

func isOutputDirectoryToken(argument string) bool {
	return argument == "-"+outputDirectoryFlagShorthand || argument == "--"+outputDirectoryFlagName
}

// normalizeOutputDirectoryArguments rewrites "-o DIR" into "--output-dir=DIR".
// DIR is taken as the flag value only when a positional root argument remains
// available for the command, either earlier or later on the line. Otherwise
// the flag keeps its default value and the argument stays positional.
func normalizeOutputDirectoryArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	positionalSeen := false
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == flagTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if isOutputDirectoryToken(current) {
			nextIndex := index + 1
			if nextIndex < len(arguments) && !strings.HasPrefix(arguments[nextIndex], "-") &&
				(positionalSeen || hasPositional(arguments[nextIndex+1:])) {
				normalized = append(normalized, "--"+outputDirectoryFlagName+"="+arguments[nextIndex])
				index = nextIndex
				continue
			}
			normalized = append(normalized, "--"+outputDirectoryFlagName)
			continue
		}
		normalized = append(normalized, current)
		if _, takesValue := valueFlagTokens[current]; takesValue && index+1 < len(arguments) {
			index++
			normalized = append(normalized, arguments[index])
			continue
		}
		if !strings.HasPrefix(current, "-") {
			positionalSeen = true
		}
	}
	return normalized
}

// hasPositional reports whether arguments contain a token that is neither a flag nor a flag value.
func hasPositional(arguments []string) bool {
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == flagTerminator {
			return index+1 < len(arguments)
		}
		if _, takesValue := valueFlagTokens[current]; takesValue {
			index++
			continue
		}
		if !strings.HasPrefix(current, "-") {
			return true
		}
	}
	return false
}
