package enforce

const (
	lineEndingKindLFStringConstant      = "lf"
	lineEndingKindCRLFStringConstant    = "crlf"
	lineEndingKindMixedStringConstant   = "mixed"
	lineEndingKindNoneStringConstant    = "none"
	lineEndingKindNotTextStringConstant = "not-text"
	lineEndingTargetWindowsString       = "windows"
	lineEndingTargetUnixString          = "unix"
	windowsLineTerminatorConstant       = "\r\n"
	unixLineTerminatorConstant          = "\n"
)

// LineEndingKind classifies the line terminators observed in a file.
type LineEndingKind string

// Line ending classifications produced by the Inspector.
const (
	LineEndingKindLF         LineEndingKind = LineEndingKind(lineEndingKindLFStringConstant)
	LineEndingKindCRLF       LineEndingKind = LineEndingKind(lineEndingKindCRLFStringConstant)
	LineEndingKindMixed      LineEndingKind = LineEndingKind(lineEndingKindMixedStringConstant)
	LineEndingKindNoNewlines LineEndingKind = LineEndingKind(lineEndingKindNoneStringConstant)
	LineEndingKindNotText    LineEndingKind = LineEndingKind(lineEndingKindNotTextStringConstant)
)

// LineEndingTarget selects the normalization style requested by the caller.
type LineEndingTarget string

// Supported normalization targets. The empty target means report only.
const (
	LineEndingTargetNone    LineEndingTarget = ""
	LineEndingTargetWindows LineEndingTarget = LineEndingTarget(lineEndingTargetWindowsString)
	LineEndingTargetUnix    LineEndingTarget = LineEndingTarget(lineEndingTargetUnixString)
)

// Kind returns the line ending classification a normalized file ends up with.
func (target LineEndingTarget) Kind() LineEndingKind {
	switch target {
	case LineEndingTargetWindows:
		return LineEndingKindCRLF
	case LineEndingTargetUnix:
		return LineEndingKindLF
	default:
		return LineEndingKindNoNewlines
	}
}

// Terminator returns the byte sequence the target uses to end lines.
func (target LineEndingTarget) Terminator() string {
	if target == LineEndingTargetWindows {
		return windowsLineTerminatorConstant
	}
	return unixLineTerminatorConstant
}

// ScanConfiguration carries the immutable per-invocation scan policy.
type ScanConfiguration struct {
	Extensions       map[string]struct{}
	SkipPatterns     []string
	IgnoreTabs       bool
	ShowTrailing     bool
	ListAll          bool
	CheckExecute     bool
	LineEndingTarget LineEndingTarget
	Recursive        bool
	WorkerCount      int
}

// ViolationKind names a single category of consistency violation.
type ViolationKind string

// Violation categories reported per file.
const (
	ViolationMixedLineEndings   ViolationKind = "mixed line endings"
	ViolationCRLFLineEndings    ViolationKind = "crlf line endings"
	ViolationLFLineEndings      ViolationKind = "lf line endings"
	ViolationTabs               ViolationKind = "tabs"
	ViolationTrailingWhitespace ViolationKind = "trailing whitespace"
	ViolationExecuteMismatch    ViolationKind = "execute permissions"
	ViolationUnreadable         ViolationKind = "not a readable text file"
)

// FileRecord captures the inspection outcome for a single discovered file.
type FileRecord struct {
	Path                  string
	LineEndingKind        LineEndingKind
	HasTabs               bool
	TabLineNumbers        []int
	HasTrailingWhitespace bool
	TrailingLineNumbers   []int
	IsExecutable          bool
	HasShebang            bool
	Readable              bool
	Rewritten             bool
	RewriteFailure        string
}

// Violations lists every violation the enabled checks flagged for the record.
func (record FileRecord) Violations(configuration ScanConfiguration) []ViolationKind {
	if !record.Readable {
		return []ViolationKind{ViolationUnreadable}
	}

	violations := make([]ViolationKind, 0, 4)

	if lineEndingViolation, violated := record.lineEndingViolation(configuration.LineEndingTarget); violated {
		violations = append(violations, lineEndingViolation)
	}
	if !configuration.IgnoreTabs && record.HasTabs {
		violations = append(violations, ViolationTabs)
	}
	if record.HasTrailingWhitespace {
		violations = append(violations, ViolationTrailingWhitespace)
	}
	if configuration.CheckExecute && record.IsExecutable != record.HasShebang {
		violations = append(violations, ViolationExecuteMismatch)
	}

	return violations
}

// IsClean reports whether none of the enabled checks flagged the record.
func (record FileRecord) IsClean(configuration ScanConfiguration) bool {
	return len(record.Violations(configuration)) == 0
}

// lineEndingViolation applies the line ending policy: mixed terminators are
// always a violation, uniform terminators only when they differ from a
// requested target, and files without any terminator never violate.
func (record FileRecord) lineEndingViolation(target LineEndingTarget) (ViolationKind, bool) {
	switch record.LineEndingKind {
	case LineEndingKindMixed:
		return ViolationMixedLineEndings, true
	case LineEndingKindCRLF:
		if target == LineEndingTargetUnix {
			return ViolationCRLFLineEndings, true
		}
	case LineEndingKindLF:
		if target == LineEndingTargetWindows {
			return ViolationLFLineEndings, true
		}
	}
	return "", false
}

// ScanReport aggregates the per-file records and summary counts for one scan.
type ScanReport struct {
	Records         []FileRecord
	TotalScanned    int
	TotalFlagged    int
	TotalRewritten  int
	TotalUnreadable int
}

// BuildScanReport orders the collected records by path and computes summary counts.
func BuildScanReport(records []FileRecord, configuration ScanConfiguration) ScanReport {
	ordered := make([]FileRecord, len(records))
	copy(ordered, records)
	sortRecordsByPath(ordered)

	report := ScanReport{
		Records:      ordered,
		TotalScanned: len(ordered),
	}

	for _, record := range ordered {
		if !record.IsClean(configuration) {
			report.TotalFlagged++
		}
		if record.Rewritten {
			report.TotalRewritten++
		}
		if !record.Readable {
			report.TotalUnreadable++
		}
	}

	return report
}
