package initgen_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/dstauffman/drepo/internal/initgen"
)

const (
	fixtureFilePermissions = os.FileMode(0o644)
	moduleFixtureArchive   = `-- binary.py --
def read_binary(path):
    return path

def write_binary(path, data):
    return None
-- text.py --
def read_text(path):
    return path
-- __init__.py --
from .stale import nothing
-- README.md --
not python
`
)

func extractFixtureTree(t *testing.T, archiveText string) string {
	t.Helper()

	rootFolder := t.TempDir()
	archive := txtar.Parse([]byte(archiveText))
	for _, archiveFile := range archive.Files {
		require.NoError(t, os.WriteFile(filepath.Join(rootFolder, archiveFile.Name), archiveFile.Data, fixtureFilePermissions))
	}
	return rootFolder
}

func defaultGenerationOptions(rootFolder string) initgen.CommandOptions {
	return initgen.CommandOptions{
		RootFolder: rootFolder,
		WrapColumn: 100,
		OutputFile: "__init__.py",
	}
}

func TestServiceWritesAggregationFile(t *testing.T) {
	rootFolder := extractFixtureTree(t, moduleFixtureArchive)

	service := initgen.NewService(nil, &bytes.Buffer{})
	require.NoError(t, service.Run(context.Background(), defaultGenerationOptions(rootFolder)))

	writtenContent, readError := os.ReadFile(filepath.Join(rootFolder, "__init__.py"))
	require.NoError(t, readError)

	require.Equal(t,
		"from .binary import read_binary, write_binary\nfrom .text import read_text\n",
		string(writtenContent),
	)
}

func TestServiceLineupPadsModuleNamesIntoColumn(t *testing.T) {
	rootFolder := extractFixtureTree(t, moduleFixtureArchive)

	options := defaultGenerationOptions(rootFolder)
	options.Lineup = true

	service := initgen.NewService(nil, &bytes.Buffer{})
	require.NoError(t, service.Run(context.Background(), options))

	writtenContent, readError := os.ReadFile(filepath.Join(rootFolder, "__init__.py"))
	require.NoError(t, readError)

	importLines := strings.Split(strings.TrimSuffix(string(writtenContent), "\n"), "\n")
	require.Len(t, importLines, 2)

	firstImportColumn := strings.Index(importLines[0], " import ")
	secondImportColumn := strings.Index(importLines[1], " import ")
	require.Equal(t, firstImportColumn, secondImportColumn)
}

func TestServiceWrapsLongImportLines(t *testing.T) {
	rootFolder := extractFixtureTree(t, moduleFixtureArchive)

	options := defaultGenerationOptions(rootFolder)
	options.WrapColumn = 30

	service := initgen.NewService(nil, &bytes.Buffer{})
	require.NoError(t, service.Run(context.Background(), options))

	writtenContent, readError := os.ReadFile(filepath.Join(rootFolder, "__init__.py"))
	require.NoError(t, readError)

	importLines := strings.Split(strings.TrimSuffix(string(writtenContent), "\n"), "\n")
	require.Greater(t, len(importLines), 2)
	for _, importLine := range importLines {
		require.LessOrEqual(t, len(importLine), 46)
	}
	require.True(t, strings.HasPrefix(importLines[1], " "))
}

func TestServiceDryRunLeavesFilesystemUntouched(t *testing.T) {
	rootFolder := extractFixtureTree(t, moduleFixtureArchive)
	require.NoError(t, os.Remove(filepath.Join(rootFolder, "__init__.py")))

	options := defaultGenerationOptions(rootFolder)
	options.DryRun = true

	outputBuffer := &bytes.Buffer{}
	service := initgen.NewService(nil, outputBuffer)
	require.NoError(t, service.Run(context.Background(), options))

	require.NoFileExists(t, filepath.Join(rootFolder, "__init__.py"))
	require.Contains(t, outputBuffer.String(), "from .binary import read_binary, write_binary")
}

func TestServiceReportsDuplicateDefinitions(t *testing.T) {
	duplicateArchive := `-- first.py --
def shared():
    pass
-- second.py --
def shared():
    pass
`
	rootFolder := extractFixtureTree(t, duplicateArchive)

	outputBuffer := &bytes.Buffer{}
	service := initgen.NewService(nil, outputBuffer)
	require.NoError(t, service.Run(context.Background(), defaultGenerationOptions(rootFolder)))

	require.Contains(t, outputBuffer.String(), "Duplicated definitions: shared")
}

func TestServiceFailsWhenNothingToAggregate(t *testing.T) {
	rootFolder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootFolder, "empty.py"), []byte("# nothing here\n"), fixtureFilePermissions))

	service := initgen.NewService(nil, &bytes.Buffer{})
	runError := service.Run(context.Background(), defaultGenerationOptions(rootFolder))

	require.ErrorIs(t, runError, initgen.ErrNoDefinitionsFound)
}

func TestServiceMissingRootFolderIsFatal(t *testing.T) {
	missingFolder := filepath.Join(t.TempDir(), "gone")

	service := initgen.NewService(nil, &bytes.Buffer{})
	runError := service.Run(context.Background(), defaultGenerationOptions(missingFolder))

	require.ErrorIs(t, runError, initgen.ErrRootFolderNotFound)
}
