package cli

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const (
	versionCommandUseConstant   = "version"
	versionCommandShortConstant = "Print the application version"
	fallbackVersionConstant     = "development"
	moduleVersionUnsetConstant  = "(devel)"
)

// ResolveBuildVersion reports the module version recorded in the build metadata.
func ResolveBuildVersion(context.Context) string {
	buildInfo, available := debug.ReadBuildInfo()
	if !available {
		return fallbackVersionConstant
	}
	if buildInfo.Main.Version == "" || buildInfo.Main.Version == moduleVersionUnsetConstant {
		return fallbackVersionConstant
	}
	return buildInfo.Main.Version
}

func buildVersionCommand(resolveVersion func(context.Context) string) *cobra.Command {
	return &cobra.Command{
		Use:   versionCommandUseConstant,
		Short: versionCommandShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, resolveVersion(command.Context()))
			return nil
		},
	}
}
