package enforce

import (
	"bytes"
	"os"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	shebangPrefixConstant       = "#!"
	executePermissionBitsNumber = 0o111
)

// Inspector performs the per-file content and metadata checks.
type Inspector struct {
	configuration ScanConfiguration
}

// NewInspector constructs an Inspector bound to the provided configuration.
func NewInspector(configuration ScanConfiguration) *Inspector {
	return &Inspector{configuration: configuration}
}

// Inspect reads the file at the given path and produces its FileRecord. Read
// and decode failures are absorbed into the record as a not-text result, never
// returned as errors, so one unreadable file cannot abort the scan.
func (inspector *Inspector) Inspect(path string) FileRecord {
	record := FileRecord{Path: path, Readable: true}

	content, readError := os.ReadFile(path)
	if readError != nil || !isTextContent(content) {
		record.Readable = false
		record.LineEndingKind = LineEndingKindNotText
		return record
	}

	record.LineEndingKind = classifyLineEndings(content)

	for lineIndex, line := range splitLines(content) {
		lineNumber := lineIndex + 1
		lineBody := trimLineTerminator(line)

		if !inspector.configuration.IgnoreTabs && strings.ContainsRune(lineBody, '\t') {
			record.HasTabs = true
			record.TabLineNumbers = append(record.TabLineNumbers, lineNumber)
		}
		if endsInWhitespace(lineBody) {
			record.HasTrailingWhitespace = true
			record.TrailingLineNumbers = append(record.TrailingLineNumbers, lineNumber)
		}
	}

	if inspector.configuration.CheckExecute {
		record.IsExecutable = hasExecutePermission(path)
		record.HasShebang = bytes.HasPrefix(content, []byte(shebangPrefixConstant))
	}

	return record
}

// isTextContent treats content with null bytes or invalid UTF-8 as binary.
func isTextContent(content []byte) bool {
	if bytes.IndexByte(content, 0) >= 0 {
		return false
	}
	return utf8.Valid(content)
}

// classifyLineEndings scans the raw bytes for CRLF pairs and bare line feeds.
// Carriage returns without a following line feed do not terminate lines.
func classifyLineEndings(content []byte) LineEndingKind {
	crlfCount := 0
	bareLineFeedCount := 0

	for byteIndex := 0; byteIndex < len(content); byteIndex++ {
		if content[byteIndex] != '\n' {
			continue
		}
		if byteIndex > 0 && content[byteIndex-1] == '\r' {
			crlfCount++
			continue
		}
		bareLineFeedCount++
	}

	switch {
	case crlfCount > 0 && bareLineFeedCount > 0:
		return LineEndingKindMixed
	case crlfCount > 0:
		return LineEndingKindCRLF
	case bareLineFeedCount > 0:
		return LineEndingKindLF
	default:
		return LineEndingKindNoNewlines
	}
}

// splitLines divides content after every line feed, keeping terminators
// attached. A trailing fragment without a terminator still counts as a line.
func splitLines(content []byte) []string {
	var lines []string
	lineStart := 0

	for byteIndex := 0; byteIndex < len(content); byteIndex++ {
		if content[byteIndex] == '\n' {
			lines = append(lines, string(content[lineStart:byteIndex+1]))
			lineStart = byteIndex + 1
		}
	}
	if lineStart < len(content) {
		lines = append(lines, string(content[lineStart:]))
	}

	return lines
}

func trimLineTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

func endsInWhitespace(lineBody string) bool {
	if len(lineBody) == 0 {
		return false
	}
	lastCharacter := lineBody[len(lineBody)-1]
	return lastCharacter == ' ' || lastCharacter == '\t'
}

func hasExecutePermission(path string) bool {
	fileInfo, statError := os.Stat(path)
	if statError != nil {
		return false
	}
	return fileInfo.Mode().Perm()&executePermissionBitsNumber != 0
}

func sortRecordsByPath(records []FileRecord) {
	sort.Slice(records, func(firstIndex int, secondIndex int) bool {
		return records[firstIndex].Path < records[secondIndex].Path
	})
}
