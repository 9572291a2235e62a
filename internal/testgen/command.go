package testgen

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant              = "write-tests folder"
	commandAliasConstant            = "write_tests"
	commandShortDescriptionConstant = "Write unittest skeleton files for a folder's Python modules"
	commandLongDescriptionConstant  = "write-tests emits one unittest template per Python module so the result can be diffed against the real test suite."
	flagAuthorName                  = "author"
	flagAuthorShorthand             = "a"
	flagAuthorUsage                 = "Author of the test files."
	flagExcludeName                 = "exclude"
	flagExcludeShorthand            = "e"
	flagExcludeUsage                = "Folders to exclude from processing."
	flagRecursiveName               = "recursive"
	flagRecursiveShorthand          = "r"
	flagRecursiveUsage              = "Process nested folders recursively."
	flagSubstitutionName            = "subs"
	flagSubstitutionShorthand       = "s"
	flagSubstitutionUsage           = "Import alias substitution as name,alias pairs."
	flagClassificationName          = "classification"
	flagClassificationShorthand     = "c"
	flagClassificationUsage         = "Add a classification header to each file."
	flagOutputName                  = "output"
	flagOutputShorthand             = "o"
	flagOutputUsage                 = "Output folder to produce, default is tests."
)

const substitutionSeparatorConstant = ","

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies persisted configuration for the write-tests command.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the write-tests cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the cobra command for the write-tests workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Aliases: []string{commandAliasConstant},
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Args:    cobra.ExactArgs(1),
		RunE:    builder.run,
	}

	commandFlags := command.Flags()
	commandFlags.StringP(flagAuthorName, flagAuthorShorthand, defaultAuthorValue, flagAuthorUsage)
	commandFlags.StringArrayP(flagExcludeName, flagExcludeShorthand, nil, flagExcludeUsage)
	commandFlags.BoolP(flagRecursiveName, flagRecursiveShorthand, false, flagRecursiveUsage)
	commandFlags.StringArrayP(flagSubstitutionName, flagSubstitutionShorthand, nil, flagSubstitutionUsage)
	commandFlags.BoolP(flagClassificationName, flagClassificationShorthand, false, flagClassificationUsage)
	commandFlags.StringP(flagOutputName, flagOutputShorthand, defaultOutputFolderValue, flagOutputUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration().sanitize()
	commandFlags := command.Flags()

	author := configuration.Author
	if commandFlags.Changed(flagAuthorName) {
		author, _ = commandFlags.GetString(flagAuthorName)
	}

	outputFolder := configuration.Output
	if commandFlags.Changed(flagOutputName) {
		outputFolder, _ = commandFlags.GetString(flagOutputName)
	}

	recursive := configuration.Recursive
	if commandFlags.Changed(flagRecursiveName) {
		recursive, _ = commandFlags.GetBool(flagRecursiveName)
	}

	addClassification := configuration.Classification
	if commandFlags.Changed(flagClassificationName) {
		addClassification, _ = commandFlags.GetBool(flagClassificationName)
	}

	excludes := append([]string{}, configuration.Exclude...)
	flagExcludes, _ := commandFlags.GetStringArray(flagExcludeName)
	excludes = append(excludes, flagExcludes...)

	substitutionValues, _ := commandFlags.GetStringArray(flagSubstitutionName)

	options := CommandOptions{
		RootFolder:        arguments[0],
		OutputFolder:      outputFolder,
		Author:            author,
		Excludes:          excludes,
		Recursive:         recursive,
		Substitutions:     parseSubstitutions(substitutionValues),
		AddClassification: addClassification,
	}

	service := NewService(builder.resolveLogger(), command.OutOrStdout(), nil)
	_, runError := service.Run(command.Context(), options)
	return runError
}

// parseSubstitutions splits name,alias pairs into an alias lookup, ignoring
// entries without a separator.
func parseSubstitutions(values []string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	substitutions := make(map[string]string, len(values))
	for _, value := range values {
		name, alias, found := strings.Cut(value, substitutionSeparatorConstant)
		if !found || len(name) == 0 || len(alias) == 0 {
			continue
		}
		substitutions[name] = alias
	}
	return substitutions
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
