package enforce

import (
	"fmt"
	"io"
	"strings"
)

const (
	cleanStatusLineTemplateConstant     = "%s: clean\n"
	flaggedStatusLineTemplateConstant   = "%s: %s\n"
	rewrittenStatusLineTemplateConstant = "%s: rewrote line endings to %s\n"
	tabLineDetailTemplateConstant       = "    line %03d: tab\n"
	trailingLineDetailTemplateConstant  = "    line %03d: trailing whitespace\n"
	rewriteFailureDetailTemplate        = "    rewrite failed: %s\n"
	summaryLineTemplateConstant         = "scanned %d files: %d flagged, %d rewritten, %d unreadable\n"
	violationSeparatorConstant          = ", "
)

// Reporter renders the per-file listing and summary for a finished scan.
type Reporter struct {
	configuration ScanConfiguration
	outputWriter  io.Writer
}

// NewReporter constructs a Reporter writing to the provided destination.
func NewReporter(configuration ScanConfiguration, outputWriter io.Writer) *Reporter {
	return &Reporter{configuration: configuration, outputWriter: outputWriter}
}

// Render prints one status line per listed record followed by the summary
// counts. Clean records appear only when the list-all policy is enabled;
// rewritten records always appear so mutations are visible.
func (reporter *Reporter) Render(report ScanReport) {
	for _, record := range report.Records {
		reporter.renderRecord(record)
	}

	fmt.Fprintf(
		reporter.outputWriter,
		summaryLineTemplateConstant,
		report.TotalScanned,
		report.TotalFlagged,
		report.TotalRewritten,
		report.TotalUnreadable,
	)
}

func (reporter *Reporter) renderRecord(record FileRecord) {
	violations := record.Violations(reporter.configuration)

	if len(violations) == 0 {
		switch {
		case record.Rewritten:
			fmt.Fprintf(reporter.outputWriter, rewrittenStatusLineTemplateConstant, record.Path, reporter.configuration.LineEndingTarget)
		case reporter.configuration.ListAll:
			fmt.Fprintf(reporter.outputWriter, cleanStatusLineTemplateConstant, record.Path)
		}
		return
	}

	fmt.Fprintf(reporter.outputWriter, flaggedStatusLineTemplateConstant, record.Path, joinViolations(violations))

	if !reporter.configuration.IgnoreTabs {
		for _, tabLineNumber := range record.TabLineNumbers {
			fmt.Fprintf(reporter.outputWriter, tabLineDetailTemplateConstant, tabLineNumber)
		}
	}
	if reporter.configuration.ShowTrailing {
		for _, trailingLineNumber := range record.TrailingLineNumbers {
			fmt.Fprintf(reporter.outputWriter, trailingLineDetailTemplateConstant, trailingLineNumber)
		}
	}
	if len(record.RewriteFailure) > 0 {
		fmt.Fprintf(reporter.outputWriter, rewriteFailureDetailTemplate, record.RewriteFailure)
	}
}

func joinViolations(violations []ViolationKind) string {
	descriptions := make([]string, 0, len(violations))
	for _, violation := range violations {
		descriptions = append(descriptions, string(violation))
	}
	return strings.Join(descriptions, violationSeparatorConstant)
}
