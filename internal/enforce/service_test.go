package enforce_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dstauffman/drepo/internal/enforce"
)

func TestServiceFlagsTrailingWhitespaceAndFailsTheGate(t *testing.T) {
	rootFolder := t.TempDir()
	writeScanFile(t, rootFolder, "a.py", []byte("x = 1 \n"), regularFilePermissions)
	writeScanFile(t, rootFolder, "b.py", []byte("y = 2\n"), regularFilePermissions)

	configuration := pythonOnlyConfiguration()
	configuration.ShowTrailing = true

	outputBuffer := &bytes.Buffer{}
	service := enforce.NewService(configuration, nil, outputBuffer)

	report, runError := service.Run(context.Background(), rootFolder)

	require.ErrorIs(t, runError, enforce.ErrViolationsFound)
	require.Equal(t, 2, report.TotalScanned)
	require.Equal(t, 1, report.TotalFlagged)

	output := outputBuffer.String()
	require.Contains(t, output, filepath.Join(rootFolder, "a.py")+": trailing whitespace")
	require.Contains(t, output, "line 001: trailing whitespace")
	require.NotContains(t, output, "b.py:")
}

func TestServiceOrdersRecordsByPathDespiteConcurrency(t *testing.T) {
	rootFolder := t.TempDir()
	fileNames := []string{"zulu.py", "mike.py", "alpha.py", "echo.py", "xray.py"}
	for _, fileName := range fileNames {
		writeScanFile(t, rootFolder, fileName, []byte("value = 1\n"), regularFilePermissions)
	}

	configuration := pythonOnlyConfiguration()
	configuration.WorkerCount = 4

	service := enforce.NewService(configuration, nil, &bytes.Buffer{})
	report, runError := service.Run(context.Background(), rootFolder)

	require.NoError(t, runError)
	require.Len(t, report.Records, len(fileNames))
	for recordIndex := 1; recordIndex < len(report.Records); recordIndex++ {
		require.Less(t, report.Records[recordIndex-1].Path, report.Records[recordIndex].Path)
	}
}

func TestServiceNormalizationClearsLineEndingViolations(t *testing.T) {
	rootFolder := t.TempDir()
	filePath := writeScanFile(t, rootFolder, "windows.py", []byte("x = 1\r\ny = 2\r\n"), regularFilePermissions)

	configuration := pythonOnlyConfiguration()
	configuration.LineEndingTarget = enforce.LineEndingTargetUnix

	service := enforce.NewService(configuration, nil, &bytes.Buffer{})
	report, runError := service.Run(context.Background(), rootFolder)

	require.NoError(t, runError)
	require.Equal(t, 0, report.TotalFlagged)
	require.Equal(t, 1, report.TotalRewritten)

	rewrittenContent, readError := os.ReadFile(filePath)
	require.NoError(t, readError)
	require.Equal(t, []byte("x = 1\ny = 2\n"), rewrittenContent)
}

func TestServiceMixedRemainsFlaggedWithoutTarget(t *testing.T) {
	rootFolder := t.TempDir()
	writeScanFile(t, rootFolder, "mixed.py", []byte("a\r\nb\n"), regularFilePermissions)

	service := enforce.NewService(pythonOnlyConfiguration(), nil, &bytes.Buffer{})
	report, runError := service.Run(context.Background(), rootFolder)

	require.ErrorIs(t, runError, enforce.ErrViolationsFound)
	require.Equal(t, 1, report.TotalFlagged)
	require.Equal(t, enforce.LineEndingKindMixed, report.Records[0].LineEndingKind)
}

func TestServiceCountsBinaryFilesAsUnreadable(t *testing.T) {
	rootFolder := t.TempDir()
	writeScanFile(t, rootFolder, "binary.py", []byte{0x00, 0x01, '\t', ' ', '\n'}, regularFilePermissions)

	service := enforce.NewService(pythonOnlyConfiguration(), nil, &bytes.Buffer{})
	report, runError := service.Run(context.Background(), rootFolder)

	require.ErrorIs(t, runError, enforce.ErrViolationsFound)
	require.Equal(t, 1, report.TotalUnreadable)
	require.False(t, report.Records[0].HasTabs)
	require.False(t, report.Records[0].HasTrailingWhitespace)
}

func TestServiceMissingRootFolderIsFatal(t *testing.T) {
	missingFolder := filepath.Join(t.TempDir(), "gone")

	service := enforce.NewService(pythonOnlyConfiguration(), nil, &bytes.Buffer{})
	_, runError := service.Run(context.Background(), missingFolder)

	require.ErrorIs(t, runError, enforce.ErrRootFolderNotFound)
}
