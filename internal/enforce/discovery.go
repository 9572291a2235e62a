package enforce

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const rootFolderErrorTemplateConstant = "%w: %s"

// Discoverer walks a root folder and yields candidate file paths matching the scan policy.
type Discoverer struct {
	configuration ScanConfiguration
}

// NewDiscoverer constructs a Discoverer bound to the provided configuration.
func NewDiscoverer(configuration ScanConfiguration) *Discoverer {
	return &Discoverer{configuration: configuration}
}

// Discover validates the root folder and streams candidate paths over the
// returned channel. Traversal is breadth-first with lexicographic ordering
// inside each directory, so repeated runs over an unchanged tree yield the
// same sequence. The channel is closed once the walk finishes or the context
// is cancelled.
func (discoverer *Discoverer) Discover(executionContext context.Context, rootFolder string) (<-chan string, error) {
	rootInfo, statError := os.Stat(rootFolder)
	if statError != nil || !rootInfo.IsDir() {
		return nil, fmt.Errorf(rootFolderErrorTemplateConstant, ErrRootFolderNotFound, rootFolder)
	}

	candidatePaths := make(chan string)

	go func() {
		defer close(candidatePaths)

		pendingFolders := []string{rootFolder}
		for len(pendingFolders) > 0 {
			currentFolder := pendingFolders[0]
			pendingFolders = pendingFolders[1:]

			directoryEntries, readError := os.ReadDir(currentFolder)
			if readError != nil {
				continue
			}

			for _, directoryEntry := range directoryEntries {
				entryPath := filepath.Join(currentFolder, directoryEntry.Name())
				if discoverer.matchesSkipPattern(entryPath) {
					continue
				}

				if directoryEntry.IsDir() {
					if discoverer.configuration.Recursive {
						pendingFolders = append(pendingFolders, entryPath)
					}
					continue
				}

				if !directoryEntry.Type().IsRegular() {
					continue
				}
				if !discoverer.extensionAllowed(directoryEntry.Name()) {
					continue
				}

				select {
				case candidatePaths <- entryPath:
				case <-executionContext.Done():
					return
				}
			}
		}
	}()

	return candidatePaths, nil
}

// matchesSkipPattern reports whether any configured skip pattern occurs in the
// path. Matching a directory path prunes its whole subtree since matched
// directories are never queued.
func (discoverer *Discoverer) matchesSkipPattern(path string) bool {
	for _, skipPattern := range discoverer.configuration.SkipPatterns {
		if strings.Contains(path, skipPattern) {
			return true
		}
	}
	return false
}

func (discoverer *Discoverer) extensionAllowed(fileName string) bool {
	if discoverer.configuration.Extensions == nil {
		return true
	}
	_, allowed := discoverer.configuration.Extensions[filepath.Ext(fileName)]
	return allowed
}
