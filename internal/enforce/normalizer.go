package enforce

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
)

const fallbackFilePermissionsNumber = fs.FileMode(0o644)

// Normalizer rewrites file line endings to the configured target style.
type Normalizer struct {
	configuration ScanConfiguration
}

// NewNormalizer constructs a Normalizer bound to the provided configuration.
func NewNormalizer(configuration ScanConfiguration) *Normalizer {
	return &Normalizer{configuration: configuration}
}

// Normalize rewrites the record's file in place when its line endings differ
// from the configured target and returns the updated record. Files already
// matching the target, files without terminators, and unreadable files pass
// through untouched. Write failures are recorded on the returned record, not
// returned as errors, so a read-only file cannot abort the scan.
func (normalizer *Normalizer) Normalize(record FileRecord) FileRecord {
	target := normalizer.configuration.LineEndingTarget
	if target == LineEndingTargetNone || !record.Readable {
		return record
	}

	switch record.LineEndingKind {
	case LineEndingKindNoNewlines, LineEndingKindNotText, target.Kind():
		return record
	}

	content, readError := os.ReadFile(record.Path)
	if readError != nil {
		record.RewriteFailure = readError.Error()
		return record
	}

	converted := convertLineEndings(content, target)
	if writeError := writeFileAtomically(record.Path, converted); writeError != nil {
		record.RewriteFailure = writeError.Error()
		return record
	}

	record.LineEndingKind = target.Kind()
	record.Rewritten = true
	return record
}

// convertLineEndings replaces every line terminator with the target style,
// leaving all other bytes, including tabs and trailing whitespace, untouched.
func convertLineEndings(content []byte, target LineEndingTarget) []byte {
	unified := bytes.ReplaceAll(content, []byte(windowsLineTerminatorConstant), []byte(unixLineTerminatorConstant))
	if target == LineEndingTargetWindows {
		return bytes.ReplaceAll(unified, []byte(unixLineTerminatorConstant), []byte(windowsLineTerminatorConstant))
	}
	return unified
}

// writeFileAtomically materializes content in a temporary file beside the
// destination and renames it over the original, so a crash mid-write never
// leaves a truncated file. The original permission bits carry over.
func writeFileAtomically(path string, content []byte) error {
	filePermissions := fallbackFilePermissionsNumber
	if fileInfo, statError := os.Stat(path); statError == nil {
		filePermissions = fileInfo.Mode().Perm()
	}

	destinationFolder := filepath.Dir(path)
	temporaryPattern := temporaryFileName(filepath.Base(path))
	temporaryFile, createError := os.CreateTemp(destinationFolder, temporaryPattern)
	if createError != nil {
		return createError
	}
	temporaryPath := temporaryFile.Name()

	if _, writeError := temporaryFile.Write(content); writeError != nil {
		_ = temporaryFile.Close()
		_ = os.Remove(temporaryPath)
		return writeError
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		_ = os.Remove(temporaryPath)
		return closeError
	}
	if chmodError := os.Chmod(temporaryPath, filePermissions); chmodError != nil {
		_ = os.Remove(temporaryPath)
		return chmodError
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		_ = os.Remove(temporaryPath)
		return renameError
	}

	return nil
}

func temporaryFileName(baseName string) string {
	return "." + baseName + ".tmp-*"
}
