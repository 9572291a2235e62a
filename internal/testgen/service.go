package testgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dstauffman/drepo/internal/initgen"
)

const (
	pythonExtensionConstant          = ".py"
	initFileNameConstant             = "__init__.py"
	testFileNameTemplateConstant     = "test_%s.py"
	rootFolderErrorTemplateConstant  = "%w: %s"
	writeErrorTemplateConstant       = "unable to write %s: %w"
	writingMessageTemplateConstant   = "Writing %q\n"
	skeletonWrittenMessageConstant   = "test skeleton written"
	logFieldOutputFileConstant       = "output_file"
	logFieldDefinitionCountConstant  = "definition_count"
	monthYearLayoutConstant          = "January 2006"
	skeletonFilePermissionsNumber    = os.FileMode(0o644)
	outputDirectoryPermissionsNumber = os.FileMode(0o755)
)

// ErrRootFolderNotFound indicates the requested root folder does not exist or is not a directory.
var ErrRootFolderNotFound = errors.New("root folder not found")

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// CommandOptions captures the configurable parameters for one skeleton run.
type CommandOptions struct {
	RootFolder        string
	OutputFolder      string
	Author            string
	Excludes          []string
	Recursive         bool
	Substitutions     map[string]string
	AddClassification bool
}

// Service writes unittest skeleton files for a folder's Python modules.
type Service struct {
	logger       *zap.Logger
	outputWriter io.Writer
	clock        Clock
}

// NewService constructs a Service using the provided dependencies.
func NewService(logger *zap.Logger, outputWriter io.Writer, clock Clock) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{logger: logger, outputWriter: outputWriter, clock: clock}
}

// Run emits one skeleton per discovered module into the output folder. The
// output folder itself and any excluded subtree never contribute modules.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (int, error) {
	rootInfo, statError := os.Stat(options.RootFolder)
	if statError != nil || !rootInfo.IsDir() {
		return 0, fmt.Errorf(rootFolderErrorTemplateConstant, ErrRootFolderNotFound, options.RootFolder)
	}

	outputFolder := options.OutputFolder
	if !filepath.IsAbs(outputFolder) {
		outputFolder = filepath.Join(options.RootFolder, outputFolder)
	}
	if createError := os.MkdirAll(outputFolder, outputDirectoryPermissionsNumber); createError != nil {
		return 0, createError
	}

	modulePaths, collectError := service.collectModulePaths(executionContext, options, outputFolder)
	if collectError != nil {
		return 0, collectError
	}

	repositoryName := filepath.Base(options.RootFolder)
	now := service.clock.Now()

	writtenCount := 0
	for _, modulePath := range modulePaths {
		content, readError := os.ReadFile(modulePath)
		if readError != nil {
			return writtenCount, readError
		}

		definitions := initgen.ExtractDefinitions(string(content), true)

		relativePath, relativeError := filepath.Rel(options.RootFolder, modulePath)
		if relativeError != nil {
			relativePath = filepath.Base(modulePath)
		}

		skeleton := renderTestSkeleton(repositoryName, relativePath, definitions, options, now)

		skeletonName := fmt.Sprintf(testFileNameTemplateConstant, skeletonStem(relativePath))
		skeletonPath := filepath.Join(outputFolder, skeletonName)
		fmt.Fprintf(service.outputWriter, writingMessageTemplateConstant, skeletonPath)
		if writeError := os.WriteFile(skeletonPath, []byte(skeleton), skeletonFilePermissionsNumber); writeError != nil {
			return writtenCount, fmt.Errorf(writeErrorTemplateConstant, skeletonPath, writeError)
		}

		writtenCount++
		service.logger.Debug(
			skeletonWrittenMessageConstant,
			zap.String(logFieldOutputFileConstant, skeletonPath),
			zap.Int(logFieldDefinitionCountConstant, len(definitions)),
		)
	}

	return writtenCount, nil
}

func (service *Service) collectModulePaths(executionContext context.Context, options CommandOptions, outputFolder string) ([]string, error) {
	var modulePaths []string

	appendIfModule := func(path string, fileName string) {
		if filepath.Ext(fileName) != pythonExtensionConstant || fileName == initFileNameConstant {
			return
		}
		modulePaths = append(modulePaths, path)
	}

	if !options.Recursive {
		directoryEntries, readError := os.ReadDir(options.RootFolder)
		if readError != nil {
			return nil, readError
		}
		for _, directoryEntry := range directoryEntries {
			if directoryEntry.IsDir() {
				continue
			}
			appendIfModule(filepath.Join(options.RootFolder, directoryEntry.Name()), directoryEntry.Name())
		}
		return modulePaths, nil
	}

	walkError := filepath.WalkDir(options.RootFolder, func(path string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return nil
		}
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if directoryEntry.IsDir() {
			if path == outputFolder || isExcluded(path, options.Excludes) {
				return fs.SkipDir
			}
			return nil
		}
		if isExcluded(path, options.Excludes) {
			return nil
		}
		appendIfModule(path, directoryEntry.Name())
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	sort.Strings(modulePaths)
	return modulePaths, nil
}

func isExcluded(path string, excludes []string) bool {
	for _, exclude := range excludes {
		if strings.Contains(path, exclude) {
			return true
		}
	}
	return false
}

// skeletonStem flattens nested module paths into a single file stem so the
// output folder stays flat, mirroring how the skeletons are diffed.
func skeletonStem(relativePath string) string {
	stem := strings.TrimSuffix(relativePath, pythonExtensionConstant)
	stem = strings.ReplaceAll(stem, string(filepath.Separator), "_")
	return stem
}

// renderTestSkeleton builds the unittest template text for one module.
func renderTestSkeleton(repositoryName string, relativePath string, definitions []string, options CommandOptions, now time.Time) string {
	moduleStem := strings.TrimSuffix(filepath.Base(relativePath), pythonExtensionConstant)

	subPackage := filepath.Dir(relativePath)
	packagePath := repositoryName
	if subPackage != "." {
		packagePath += "." + strings.ReplaceAll(subPackage, string(filepath.Separator), ".")
	}

	var builder strings.Builder
	builder.WriteString("r\"\"\"\n")
	builder.WriteString(fmt.Sprintf("Test file for the `%s` module of the %q library.\n", moduleStem, packagePath))
	builder.WriteString("\nNotes\n-----\n")
	builder.WriteString(fmt.Sprintf("#.  Written by %s in %s.\n", options.Author, now.Format(monthYearLayoutConstant)))
	if options.AddClassification {
		builder.WriteString("\nClassification\n--------------\nTBD\n")
	}
	builder.WriteString("\"\"\"\n\n")
	builder.WriteString("# %% Imports\n")
	builder.WriteString("import unittest\n\n")

	importLine := "import " + packagePath
	if alias, aliased := options.Substitutions[packagePath]; aliased {
		importLine += " as " + alias
	}
	builder.WriteString(importLine + "\n\n\n")

	for _, definition := range definitions {
		qualifiedName := definition
		if strings.HasPrefix(definition, "_") {
			qualifiedName = moduleStem + "." + definition
		}
		if subPackage != "." {
			qualifiedName = strings.ReplaceAll(subPackage, string(filepath.Separator), ".") + "." + qualifiedName
		}
		className := strings.ReplaceAll(qualifiedName, ".", "_")

		builder.WriteString(fmt.Sprintf("# %%%% %s\n", qualifiedName))
		builder.WriteString(fmt.Sprintf("class Test_%s(unittest.TestCase):\n", className))
		builder.WriteString("    r\"\"\"\n")
		builder.WriteString(fmt.Sprintf("    Tests the %s function with the following cases:\n", qualifiedName))
		builder.WriteString("        TBD\n")
		builder.WriteString("    \"\"\"\n\n")
		builder.WriteString("    pass  # TODO: write this\n\n\n")
	}

	builder.WriteString("# %% Unit test execution\n")
	builder.WriteString("if __name__ == \"__main__\":\n")
	builder.WriteString("    unittest.main(exit=False)\n")

	return builder.String()
}
