package initgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	pythonExtensionConstant            = ".py"
	initFileNameConstant               = "__init__.py"
	importHeaderPrefixConstant         = "from ."
	importHeaderSuffixConstant         = " import "
	importBaseWidthReferenceConstant   = "from . import "
	continuationExtraIndentNumber      = 4
	nameSeparatorConstant              = ", "
	rootFolderErrorTemplateConstant    = "%w: %s"
	duplicatesMessageTemplateConstant  = "Duplicated definitions: %s\n"
	dryRunMessageTemplateConstant      = "Would write %q:\n%s"
	writeErrorTemplateConstant         = "unable to write %s: %w"
	outputWrittenMessageConstant       = "aggregation file written"
	duplicateDefinitionMessageConstant = "duplicate definitions found"
	logFieldOutputFileConstant         = "output_file"
	logFieldModuleCountConstant        = "module_count"
	logFieldDuplicatesConstant         = "duplicates"
	initFilePermissionsNumber          = os.FileMode(0o644)
)

// Sentinel errors surfaced by the make-init workflow.
var (
	// ErrRootFolderNotFound indicates the requested root folder does not exist or is not a directory.
	ErrRootFolderNotFound = errors.New("root folder not found")
	// ErrNoDefinitionsFound indicates no module in the folder declared anything to aggregate.
	ErrNoDefinitionsFound = errors.New("no definitions found to aggregate")
)

// CommandOptions captures the configurable parameters for one aggregation run.
type CommandOptions struct {
	RootFolder string
	Lineup     bool
	WrapColumn int
	DryRun     bool
	OutputFile string
}

// moduleDefinitions pairs a module stem with its extracted definition names.
type moduleDefinitions struct {
	moduleName  string
	definitions []string
}

// Service renders __init__.py aggregation files from a folder's Python modules.
type Service struct {
	logger       *zap.Logger
	outputWriter io.Writer
}

// NewService constructs a Service using the provided dependencies.
func NewService(logger *zap.Logger, outputWriter io.Writer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, outputWriter: outputWriter}
}

// Run scans the root folder's Python modules and writes the aggregation file,
// or prints it in dry-run mode. Duplicate definition names across modules are
// reported but do not abort the run.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	rootInfo, statError := os.Stat(options.RootFolder)
	if statError != nil || !rootInfo.IsDir() {
		return fmt.Errorf(rootFolderErrorTemplateConstant, ErrRootFolderNotFound, options.RootFolder)
	}

	modules, collectError := service.collectModuleDefinitions(executionContext, options.RootFolder)
	if collectError != nil {
		return collectError
	}
	if len(modules) == 0 {
		return ErrNoDefinitionsFound
	}

	if duplicates := findDuplicateDefinitions(modules); len(duplicates) > 0 {
		service.logger.Warn(duplicateDefinitionMessageConstant, zap.Strings(logFieldDuplicatesConstant, duplicates))
		fmt.Fprintf(service.outputWriter, duplicatesMessageTemplateConstant, strings.Join(duplicates, nameSeparatorConstant))
	}

	aggregationText := renderAggregationFile(modules, options.Lineup, options.WrapColumn)

	outputPath := options.OutputFile
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(options.RootFolder, outputPath)
	}

	if options.DryRun {
		fmt.Fprintf(service.outputWriter, dryRunMessageTemplateConstant, outputPath, aggregationText)
		return nil
	}

	if writeError := os.WriteFile(outputPath, []byte(aggregationText), initFilePermissionsNumber); writeError != nil {
		return fmt.Errorf(writeErrorTemplateConstant, outputPath, writeError)
	}

	service.logger.Info(
		outputWrittenMessageConstant,
		zap.String(logFieldOutputFileConstant, outputPath),
		zap.Int(logFieldModuleCountConstant, len(modules)),
	)

	return nil
}

// collectModuleDefinitions reads every immediate *.py module except the
// aggregation file itself and keeps those declaring at least one public name.
func (service *Service) collectModuleDefinitions(executionContext context.Context, rootFolder string) ([]moduleDefinitions, error) {
	directoryEntries, readError := os.ReadDir(rootFolder)
	if readError != nil {
		return nil, readError
	}

	var modules []moduleDefinitions
	for _, directoryEntry := range directoryEntries {
		if contextError := executionContext.Err(); contextError != nil {
			return nil, contextError
		}
		if directoryEntry.IsDir() {
			continue
		}
		fileName := directoryEntry.Name()
		if filepath.Ext(fileName) != pythonExtensionConstant || fileName == initFileNameConstant {
			continue
		}

		content, fileReadError := os.ReadFile(filepath.Join(rootFolder, fileName))
		if fileReadError != nil {
			return nil, fileReadError
		}

		definitions := ExtractDefinitions(string(content), false)
		if len(definitions) == 0 {
			continue
		}

		modules = append(modules, moduleDefinitions{
			moduleName:  strings.TrimSuffix(fileName, pythonExtensionConstant),
			definitions: definitions,
		})
	}

	sort.Slice(modules, func(firstIndex int, secondIndex int) bool {
		return modules[firstIndex].moduleName < modules[secondIndex].moduleName
	})

	return modules, nil
}

func findDuplicateDefinitions(modules []moduleDefinitions) []string {
	occurrenceCounts := make(map[string]int)
	for _, module := range modules {
		for _, definition := range module.definitions {
			occurrenceCounts[definition]++
		}
	}

	var duplicates []string
	for definition, occurrences := range occurrenceCounts {
		if occurrences > 1 {
			duplicates = append(duplicates, definition)
		}
	}
	sort.Strings(duplicates)
	return duplicates
}

// renderAggregationFile builds the import lines, optionally padding module
// names into a column and wrapping long imports at the requested width with
// continuation lines indented past the import keyword.
func renderAggregationFile(modules []moduleDefinitions, lineup bool, wrapColumn int) string {
	maxModuleNameLength := 0
	for _, module := range modules {
		if len(module.moduleName) > maxModuleNameLength {
			maxModuleNameLength = len(module.moduleName)
		}
	}

	continuationIndent := strings.Repeat(" ", len(importBaseWidthReferenceConstant)+maxModuleNameLength+continuationExtraIndentNumber)

	var renderedLines []string
	for _, module := range modules {
		padding := ""
		if lineup {
			padding = strings.Repeat(" ", maxModuleNameLength-len(module.moduleName))
		}
		importHeader := importHeaderPrefixConstant + module.moduleName + padding + importHeaderSuffixConstant
		renderedLines = append(renderedLines, wrapImportLine(importHeader, module.definitions, wrapColumn, continuationIndent)...)
	}

	return strings.Join(renderedLines, "\n") + "\n"
}

// wrapImportLine packs definition names onto lines not exceeding wrapColumn,
// keeping at least one name per line so pathological widths still terminate.
func wrapImportLine(importHeader string, definitions []string, wrapColumn int, continuationIndent string) []string {
	var wrappedLines []string
	currentLine := importHeader
	namesOnCurrentLine := 0

	for definitionIndex, definition := range definitions {
		segment := definition
		if definitionIndex < len(definitions)-1 {
			segment += ","
		}

		if namesOnCurrentLine > 0 && wrapColumn > 0 && len(currentLine)+1+len(segment) > wrapColumn {
			wrappedLines = append(wrappedLines, currentLine)
			currentLine = continuationIndent
			namesOnCurrentLine = 0
		}

		if namesOnCurrentLine > 0 {
			currentLine += " "
		}
		currentLine += segment
		namesOnCurrentLine++
	}

	return append(wrappedLines, currentLine)
}
