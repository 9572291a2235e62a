package enforce

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkerCountNumber             = 8
	violationsFoundErrorTemplateConstant = "%w: %d of %d files"
	scanStartedMessageConstant           = "scan started"
	scanFinishedMessageConstant          = "scan finished"
	fileInspectedMessageConstant         = "file inspected"
	logFieldRootFolderConstant           = "root_folder"
	logFieldPathConstant                 = "path"
	logFieldLineEndingKindConstant       = "line_ending_kind"
	logFieldWorkerCountConstant          = "worker_count"
	logFieldScannedConstant              = "scanned"
	logFieldFlaggedConstant              = "flagged"
	logFieldRewrittenConstant            = "rewritten"
	logFieldUnreadableConstant           = "unreadable"
)

// Service coordinates discovery, inspection, normalization, and reporting for one scan.
type Service struct {
	configuration ScanConfiguration
	logger        *zap.Logger
	outputWriter  io.Writer
}

// NewService constructs a Service using the provided dependencies.
func NewService(configuration ScanConfiguration, logger *zap.Logger, outputWriter io.Writer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		configuration: configuration,
		logger:        logger,
		outputWriter:  outputWriter,
	}
}

// Run executes the full pipeline against the root folder. Inspection and
// normalization fan out over a bounded worker pool; each file is inspected and
// normalized by the same worker, so reads and rewrites of one file never
// overlap. Records stream back over a channel and are ordered by path before
// reporting. Run returns ErrViolationsFound when any file remains flagged
// after the optional normalization pass.
func (service *Service) Run(executionContext context.Context, rootFolder string) (ScanReport, error) {
	workerCount := service.configuration.WorkerCount
	if workerCount <= 0 {
		workerCount = defaultWorkerCountNumber
	}

	service.logger.Debug(
		scanStartedMessageConstant,
		zap.String(logFieldRootFolderConstant, rootFolder),
		zap.Int(logFieldWorkerCountConstant, workerCount),
	)

	discoverer := NewDiscoverer(service.configuration)
	inspector := NewInspector(service.configuration)
	normalizer := NewNormalizer(service.configuration)

	candidatePaths, discoveryError := discoverer.Discover(executionContext, rootFolder)
	if discoveryError != nil {
		return ScanReport{}, discoveryError
	}

	collectedRecords := make(chan FileRecord)
	workerGroup, workerContext := errgroup.WithContext(executionContext)

	for workerIndex := 0; workerIndex < workerCount; workerIndex++ {
		workerGroup.Go(func() error {
			for candidatePath := range candidatePaths {
				record := normalizer.Normalize(inspector.Inspect(candidatePath))
				select {
				case collectedRecords <- record:
				case <-workerContext.Done():
					return workerContext.Err()
				}
			}
			return nil
		})
	}

	collectorDone := make(chan struct{})
	var records []FileRecord
	go func() {
		defer close(collectorDone)
		for record := range collectedRecords {
			service.logger.Debug(
				fileInspectedMessageConstant,
				zap.String(logFieldPathConstant, record.Path),
				zap.String(logFieldLineEndingKindConstant, string(record.LineEndingKind)),
			)
			records = append(records, record)
		}
	}()

	waitError := workerGroup.Wait()
	close(collectedRecords)
	<-collectorDone
	if waitError != nil {
		return ScanReport{}, waitError
	}

	report := BuildScanReport(records, service.configuration)

	service.logger.Info(
		scanFinishedMessageConstant,
		zap.String(logFieldRootFolderConstant, rootFolder),
		zap.Int(logFieldScannedConstant, report.TotalScanned),
		zap.Int(logFieldFlaggedConstant, report.TotalFlagged),
		zap.Int(logFieldRewrittenConstant, report.TotalRewritten),
		zap.Int(logFieldUnreadableConstant, report.TotalUnreadable),
	)

	NewReporter(service.configuration, service.outputWriter).Render(report)

	if report.TotalFlagged > 0 {
		return report, fmt.Errorf(violationsFoundErrorTemplateConstant, ErrViolationsFound, report.TotalFlagged, report.TotalScanned)
	}

	return report, nil
}
