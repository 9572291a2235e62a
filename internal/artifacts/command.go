package artifacts

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant              = "delete-pyc folder"
	commandAliasConstant            = "delete_pyc"
	commandShortDescriptionConstant = "Delete compiled Python byte code files"
	commandLongDescriptionConstant  = "delete-pyc removes every *.pyc file in the given folder, optionally recursing into subfolders."
	flagRecursiveName               = "recursive"
	flagRecursiveShorthand          = "r"
	flagRecursiveUsage              = "Delete files recursively."
	flagPrintName                   = "print"
	flagPrintShorthand              = "p"
	flagPrintUsage                  = "Display information about any deleted files."
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies persisted configuration for the delete-pyc command.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the delete-pyc cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the cobra command for the delete-pyc workflow.
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
	commandFlags.BoolP(flagRecursiveName, flagRecursiveShorthand, false, flagRecursiveUsage)
	commandFlags.BoolP(flagPrintName, flagPrintShorthand, false, flagPrintUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration().sanitize()
	commandFlags := command.Flags()

	recursive := configuration.Recursive
	if commandFlags.Changed(flagRecursiveName) {
		recursive, _ = commandFlags.GetBool(flagRecursiveName)
	}

	printProgress := configuration.Print
	if commandFlags.Changed(flagPrintName) {
		printProgress, _ = commandFlags.GetBool(flagPrintName)
	}

	options := CommandOptions{
		RootFolder:    arguments[0],
		Recursive:     recursive,
		PrintProgress: printProgress,
		Extensions:    configuration.Extensions,
	}

	service := NewService(builder.resolveLogger(), command.OutOrStdout())
	_, runError := service.Run(command.Context(), options)
	return runError
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
