package initgen

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant              = "make-init folder"
	commandAliasConstant            = "make_init"
	commandShortDescriptionConstant = "Generate an __init__.py aggregation file"
	commandLongDescriptionConstant  = "make-init scans the folder's Python modules for top-level definitions and writes an __init__.py re-exporting them."
	flagLineupName                  = "lineup"
	flagLineupShorthand             = "l"
	flagLineupUsage                 = "Line up the imports between files."
	flagWrapName                    = "wrap"
	flagWrapShorthand               = "w"
	flagWrapUsage                   = "Column to wrap import lines at."
	flagDryRunName                  = "dry-run"
	flagDryRunShorthand             = "n"
	flagDryRunUsage                 = "Show what would be written without doing it."
	flagOutfileName                 = "outfile"
	flagOutfileShorthand            = "o"
	flagOutfileUsage                = "Output file to produce, default is __init__.py."
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies persisted configuration for the make-init command.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the make-init cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the cobra command for the make-init workflow.
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
	commandFlags.BoolP(flagLineupName, flagLineupShorthand, false, flagLineupUsage)
	commandFlags.IntP(flagWrapName, flagWrapShorthand, defaultWrapColumnNumber, flagWrapUsage)
	commandFlags.BoolP(flagDryRunName, flagDryRunShorthand, false, flagDryRunUsage)
	commandFlags.StringP(flagOutfileName, flagOutfileShorthand, initFileNameConstant, flagOutfileUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration().sanitize()
	commandFlags := command.Flags()

	lineup := configuration.Lineup
	if commandFlags.Changed(flagLineupName) {
		lineup, _ = commandFlags.GetBool(flagLineupName)
	}

	wrapColumn := configuration.Wrap
	if commandFlags.Changed(flagWrapName) {
		wrapColumn, _ = commandFlags.GetInt(flagWrapName)
	}

	outputFile := configuration.Outfile
	if commandFlags.Changed(flagOutfileName) {
		outputFile, _ = commandFlags.GetString(flagOutfileName)
	}

	dryRun, _ := commandFlags.GetBool(flagDryRunName)

	options := CommandOptions{
		RootFolder: arguments[0],
		Lineup:     lineup,
		WrapColumn: wrapColumn,
		DryRun:     dryRun,
		OutputFile: outputFile,
	}

	service := NewService(builder.resolveLogger(), command.OutOrStdout())
	return service.Run(command.Context(), options)
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
