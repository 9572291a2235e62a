package enforce

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTestCommandBuilder() *CommandBuilder {
	return &CommandBuilder{
		ConfigurationProvider: func() CommandConfiguration {
			return DefaultCommandConfiguration()
		},
	}
}

func TestCommandRejectsConflictingLineEndingTargets(t *testing.T) {
	builder := buildTestCommandBuilder()
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	require.NoError(t, command.Flags().Set(flagWindowsName, "true"))
	require.NoError(t, command.Flags().Set(flagUnixName, "true"))

	_, configurationError := builder.resolveScanConfiguration(command)
	require.ErrorIs(t, configurationError, ErrConflictingLineEndingTargets)
}

func TestCommandFlagOverridesLayerOverConfiguration(t *testing.T) {
	builder := buildTestCommandBuilder()
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	require.NoError(t, command.Flags().Set(flagExtensionsName, ".go,.py"))
	require.NoError(t, command.Flags().Set(flagSkipName, "vendor"))
	require.NoError(t, command.Flags().Set(flagIgnoreTabsName, "true"))
	require.NoError(t, command.Flags().Set(flagUnixName, "true"))

	scanConfiguration, configurationError := builder.resolveScanConfiguration(command)
	require.NoError(t, configurationError)

	require.Equal(t, map[string]struct{}{".go": {}, ".py": {}}, scanConfiguration.Extensions)
	require.Equal(t, []string{"vendor"}, scanConfiguration.SkipPatterns)
	require.True(t, scanConfiguration.IgnoreTabs)
	require.Equal(t, LineEndingTargetUnix, scanConfiguration.LineEndingTarget)
	require.True(t, scanConfiguration.Recursive)
}

func TestSplitExtensionValuesAcceptsCommaAndSpaceDelimiters(t *testing.T) {
	testCases := []struct {
		name     string
		raw      []string
		expected []string
	}{
		{name: "CommaDelimited", raw: []string{".py,.m"}, expected: []string{".py", ".m"}},
		{name: "SpaceDelimited", raw: []string{".py .m"}, expected: []string{".py", ".m"}},
		{name: "MixedDelimiters", raw: []string{" .py , .m", ".go"}, expected: []string{".py", ".m", ".go"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, splitExtensionValues(testCase.raw))
		})
	}
}

func TestCommandExecutionReportsViolationsThroughExitError(t *testing.T) {
	rootFolder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootFolder, "dirty.py"), []byte("x = 1 \n"), 0o644))

	builder := buildTestCommandBuilder()
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{rootFolder, "--trailing"})

	executionError := command.Execute()
	require.ErrorIs(t, executionError, ErrViolationsFound)
	require.Contains(t, outputBuffer.String(), "trailing whitespace")
}

func TestCommandExecutionSucceedsOnCleanFolder(t *testing.T) {
	rootFolder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootFolder, "clean.py"), []byte("x = 1\n"), 0o644))

	builder := buildTestCommandBuilder()
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs([]string{rootFolder})

	require.NoError(t, command.Execute())
	require.Contains(t, outputBuffer.String(), "scanned 1 files: 0 flagged")
}
