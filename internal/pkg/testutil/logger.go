// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"bytes"
	"testing"

	"github.com/MGTheTrain/rsa-vault/internal/pkg/config"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/logger"
	"github.com/stretchr/testify/require"
)

// SetupTestLogger initializes the process logger at info level and returns it.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	err := logger.InitLogger(config.NewDefaultLoggerSettings())
	require.NoError(t, err)

	log, err := logger.GetLogger()
	require.NoError(t, err)

	return log
}

// NewBufferLogger returns a debug level logger recording into the returned buffer.
func NewBufferLogger(t *testing.T) (logger.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	return logger.NewConsoleLoggerWithWriter(config.LogLevelDebug, &buf), &buf
}
