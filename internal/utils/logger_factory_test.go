package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dstauffman/drepo/internal/utils"
)

const (
	loggerSubtestNameTemplateConstant = "%d_level_%s_format_%s"
	testLogMessageConstant            = "logger_factory_test_message"
)

func captureLoggerStderr(testInstance *testing.T, emitLog func()) string {
	testInstance.Helper()

	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)

	originalStderr := os.Stderr
	os.Stderr = pipeWriter

	emitLog()

	os.Stderr = originalStderr
	require.NoError(testInstance, pipeWriter.Close())

	capturedOutput, readError := io.ReadAll(pipeReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, pipeReader.Close())

	return string(bytes.TrimSpace(capturedOutput))
}

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectStructuredLog bool
	}{
		{requestedLogLevel: utils.LogLevelDebug, requestedLogFormat: utils.LogFormatStructured, expectStructuredLog: true},
		{requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormatStructured, expectStructuredLog: true},
		{requestedLogLevel: utils.LogLevelInfo, requestedLogFormat: utils.LogFormatConsole, expectStructuredLog: false},
		{requestedLogLevel: utils.LogLevelWarn, requestedLogFormat: utils.LogFormatConsole, expectStructuredLog: false},
	}

	for testCaseIndex, testCase := range testCases {
		subtestName := fmt.Sprintf(loggerSubtestNameTemplateConstant, testCaseIndex, testCase.requestedLogLevel, testCase.requestedLogFormat)
		testInstance.Run(subtestName, func(testInstance *testing.T) {
			loggerFactory := utils.NewLoggerFactory()

			capturedOutput := captureLoggerStderr(testInstance, func() {
				logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, logger)

				logger.Warn(testLogMessageConstant)
				syncError := logger.Sync()
				if syncError != nil {
					require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
				}
			})

			require.NotEmpty(testInstance, capturedOutput)
			require.Contains(testInstance, capturedOutput, testLogMessageConstant)
			require.Equal(testInstance, testCase.expectStructuredLog, json.Valid([]byte(capturedOutput)))
		})
	}
}

func TestLoggerFactoryRespectsConfiguredLevel(testInstance *testing.T) {
	loggerFactory := utils.NewLoggerFactory()

	capturedOutput := captureLoggerStderr(testInstance, func() {
		logger, creationError := loggerFactory.CreateLogger(utils.LogLevelError, utils.LogFormatStructured)
		require.NoError(testInstance, creationError)

		logger.Info(testLogMessageConstant)
		_ = logger.Sync()
	})

	require.Empty(testInstance, capturedOutput)
}

func TestLoggerFactoryRejectsUnsupportedInputs(testInstance *testing.T) {
	loggerFactory := utils.NewLoggerFactory()

	logger, levelError := loggerFactory.CreateLogger(utils.LogLevel("verbose"), utils.LogFormatStructured)
	require.Error(testInstance, levelError)
	require.Nil(testInstance, logger)

	logger, formatError := loggerFactory.CreateLogger(utils.LogLevelInfo, utils.LogFormat("xml"))
	require.Error(testInstance, formatError)
	require.Nil(testInstance, logger)
}
