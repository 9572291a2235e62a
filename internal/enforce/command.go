package enforce

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant              = "enforce folder"
	commandShortDescriptionConstant = "Enforce whitespace, line ending, and permission consistency"
	commandLongDescriptionConstant  = "enforce scans the folder for source files and reports tabs, trailing whitespace, " +
		"inconsistent line endings, and mismatched execute permissions. With --windows or --unix it rewrites line endings in place."
	flagExtensionsName       = "extensions"
	flagExtensionsShorthand  = "e"
	flagExtensionsUsage      = "Extensions to search through (comma or space delimited, * for all)."
	flagListAllName          = "list-all"
	flagListAllShorthand     = "l"
	flagListAllUsage         = "List all files, even ones without problems."
	flagIgnoreTabsName       = "ignore-tabs"
	flagIgnoreTabsShorthand  = "i"
	flagIgnoreTabsUsage      = "Ignore tabs within the source code."
	flagTrailingName         = "trailing"
	flagTrailingShorthand    = "t"
	flagTrailingUsage        = "Show line numbers for trailing whitespace violations."
	flagSkipName             = "skip"
	flagSkipShorthand        = "s"
	flagSkipUsage            = "Additional patterns to exclude from the search."
	flagWindowsName          = "windows"
	flagWindowsShorthand     = "w"
	flagWindowsUsage         = "Rewrite files to Windows (CRLF) line endings."
	flagUnixName             = "unix"
	flagUnixShorthand        = "u"
	flagUnixUsage            = "Rewrite files to Unix (LF) line endings."
	flagExecuteName          = "execute"
	flagExecuteShorthand     = "x"
	flagExecuteUsage         = "Check that execute permissions agree with shebang lines."

	extensionSeparatorConstant = ","
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies persisted configuration for the enforce command.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the enforce cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
}

// Build constructs the cobra command for the enforce workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	commandFlags := command.Flags()
	commandFlags.StringSliceP(flagExtensionsName, flagExtensionsShorthand, nil, flagExtensionsUsage)
	commandFlags.BoolP(flagListAllName, flagListAllShorthand, false, flagListAllUsage)
	commandFlags.BoolP(flagIgnoreTabsName, flagIgnoreTabsShorthand, false, flagIgnoreTabsUsage)
	commandFlags.BoolP(flagTrailingName, flagTrailingShorthand, false, flagTrailingUsage)
	commandFlags.StringSliceP(flagSkipName, flagSkipShorthand, nil, flagSkipUsage)
	commandFlags.BoolP(flagWindowsName, flagWindowsShorthand, false, flagWindowsUsage)
	commandFlags.BoolP(flagUnixName, flagUnixShorthand, false, flagUnixUsage)
	commandFlags.BoolP(flagExecuteName, flagExecuteShorthand, false, flagExecuteUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	scanConfiguration, configurationError := builder.resolveScanConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	service := NewService(scanConfiguration, builder.resolveLogger(), command.OutOrStdout())
	_, runError := service.Run(command.Context(), arguments[0])
	return runError
}

// resolveScanConfiguration layers changed command flags over the persisted
// configuration and validates the combination before any file is touched.
func (builder *CommandBuilder) resolveScanConfiguration(command *cobra.Command) (ScanConfiguration, error) {
	configuration := builder.resolveConfiguration().sanitize()
	commandFlags := command.Flags()

	extensions := configuration.Extensions
	if commandFlags.Changed(flagExtensionsName) {
		flagExtensions, _ := commandFlags.GetStringSlice(flagExtensionsName)
		extensions = splitExtensionValues(flagExtensions)
	}

	skipPatterns := configuration.Skip
	if commandFlags.Changed(flagSkipName) {
		flagSkipPatterns, _ := commandFlags.GetStringSlice(flagSkipName)
		skipPatterns = append(append([]string{}, skipPatterns...), flagSkipPatterns...)
	}

	listAll := configuration.ListAll
	if commandFlags.Changed(flagListAllName) {
		listAll, _ = commandFlags.GetBool(flagListAllName)
	}

	ignoreTabs := configuration.IgnoreTabs
	if commandFlags.Changed(flagIgnoreTabsName) {
		ignoreTabs, _ = commandFlags.GetBool(flagIgnoreTabsName)
	}

	showTrailing := configuration.Trailing
	if commandFlags.Changed(flagTrailingName) {
		showTrailing, _ = commandFlags.GetBool(flagTrailingName)
	}

	checkExecute := configuration.Execute
	if commandFlags.Changed(flagExecuteName) {
		checkExecute, _ = commandFlags.GetBool(flagExecuteName)
	}

	windowsRequested, _ := commandFlags.GetBool(flagWindowsName)
	unixRequested, _ := commandFlags.GetBool(flagUnixName)
	if windowsRequested && unixRequested {
		return ScanConfiguration{}, ErrConflictingLineEndingTargets
	}

	lineEndingTarget := LineEndingTargetNone
	switch {
	case windowsRequested:
		lineEndingTarget = LineEndingTargetWindows
	case unixRequested:
		lineEndingTarget = LineEndingTargetUnix
	}

	scanConfiguration := ScanConfiguration{
		Extensions:       buildExtensionSet(extensions),
		SkipPatterns:     skipPatterns,
		IgnoreTabs:       ignoreTabs,
		ShowTrailing:     showTrailing,
		ListAll:          listAll,
		CheckExecute:     checkExecute,
		LineEndingTarget: lineEndingTarget,
		Recursive:        configuration.Recursive,
		WorkerCount:      configuration.Workers,
	}

	return scanConfiguration, nil
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

// splitExtensionValues accepts comma and space delimited extension lists.
func splitExtensionValues(rawValues []string) []string {
	var extensions []string
	for _, rawValue := range rawValues {
		for _, commaPart := range strings.Split(rawValue, extensionSeparatorConstant) {
			for _, extension := range strings.Fields(commaPart) {
				extensions = append(extensions, extension)
			}
		}
	}
	return extensions
}
