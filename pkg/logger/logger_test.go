package logger_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learnconnect/learnconnect.go/pkg/logger"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger)
	// Get Stats Before
	require.Equal(t, buff.Len(), 0)
	templogger.Info("fetch settled", "view", "doubts", "items", 3)
	// Get Stats After
	require.Contains(t, buff.String(), "fetch settled")
	require.Contains(t, buff.String(), `"view":"doubts"`)
	require.Contains(t, buff.String(), `"items":3`)
}

func TestLogLevelFiltersDebug(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).WithLevel("warn").Make()
	require.NoError(t, err)

	templogger.Debug("hidden")
	templogger.Info("hidden too")
	require.Equal(t, 0, buff.Len())

	templogger.Warn("shown")
	require.Contains(t, buff.String(), "shown")
}

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	templogger, err := logger.New().FromPath(path).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger.LogFile)
	templogger.Error("boom")
	require.NoError(t, templogger.Close())
}

func TestOrNop(t *testing.T) {
	require.NotPanics(t, func() {
		logger.OrNop(nil).Error("ignored", "k", "v")
	})
}
