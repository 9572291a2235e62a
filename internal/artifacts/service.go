package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	rootFolderErrorTemplateConstant = "%w: %s"
	removalErrorTemplateConstant    = "unable to remove %s: %w"
	removalMessageTemplateConstant  = "Removing %q\n"
	fileRemovedMessageConstant      = "artifact removed"
	logFieldPathConstant            = "path"
)

// ErrRootFolderNotFound indicates the requested root folder does not exist or is not a directory.
var ErrRootFolderNotFound = errors.New("root folder not found")

// CommandOptions captures the configurable parameters for one deletion run.
type CommandOptions struct {
	RootFolder    string
	Recursive     bool
	PrintProgress bool
	Extensions    []string
}

// Service removes compiled-artifact files beneath a root folder.
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

// Run deletes every matching artifact file and returns the number removed.
// Individual removal failures abort the run; a missing root folder fails
// before anything is deleted.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (int, error) {
	rootInfo, statError := os.Stat(options.RootFolder)
	if statError != nil || !rootInfo.IsDir() {
		return 0, fmt.Errorf(rootFolderErrorTemplateConstant, ErrRootFolderNotFound, options.RootFolder)
	}

	extensionSet := make(map[string]struct{}, len(options.Extensions))
	for _, extension := range options.Extensions {
		extensionSet[extension] = struct{}{}
	}

	candidates, collectError := service.collectArtifacts(executionContext, options.RootFolder, options.Recursive, extensionSet)
	if collectError != nil {
		return 0, collectError
	}

	removedCount := 0
	for _, candidatePath := range candidates {
		if removeError := os.Remove(candidatePath); removeError != nil {
			return removedCount, fmt.Errorf(removalErrorTemplateConstant, candidatePath, removeError)
		}
		removedCount++
		service.logger.Debug(fileRemovedMessageConstant, zap.String(logFieldPathConstant, candidatePath))
		if options.PrintProgress {
			fmt.Fprintf(service.outputWriter, removalMessageTemplateConstant, candidatePath)
		}
	}

	return removedCount, nil
}

func (service *Service) collectArtifacts(executionContext context.Context, rootFolder string, recursive bool, extensionSet map[string]struct{}) ([]string, error) {
	var candidates []string

	if !recursive {
		directoryEntries, readError := os.ReadDir(rootFolder)
		if readError != nil {
			return nil, readError
		}
		for _, directoryEntry := range directoryEntries {
			if directoryEntry.IsDir() {
				continue
			}
			if _, matches := extensionSet[filepath.Ext(directoryEntry.Name())]; matches {
				candidates = append(candidates, filepath.Join(rootFolder, directoryEntry.Name()))
			}
		}
		return candidates, nil
	}

	walkError := filepath.WalkDir(rootFolder, func(path string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return nil
		}
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if _, matches := extensionSet[filepath.Ext(directoryEntry.Name())]; matches {
			candidates = append(candidates, path)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	return candidates, nil
}
