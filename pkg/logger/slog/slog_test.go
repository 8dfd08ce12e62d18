package slog_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	rawslog "log/slog"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnconnect/learnconnect.go/pkg/logger"
	"github.com/learnconnect/learnconnect.go/pkg/logger/slog"
)

var _ logger.Logger = (*slog.SlogHandler)(nil)

type testMethod struct {
	fn    func(msg string, args ...any)
	level rawslog.Level
}

type testLogJSON struct {
	Time  time.Time `json:"time"`
	Level string    `json:"level"`
	Msg   string    `json:"msg"`
	Group int       `json:"group"`
}

func TestLogger(t *testing.T) {
	buffer := bytes.NewBuffer([]byte{})

	handler := rawslog.NewJSONHandler(buffer, &rawslog.HandlerOptions{Level: rawslog.LevelDebug})
	log := slog.New(handler)

	testMethods := []testMethod{
		{fn: log.Error, level: rawslog.LevelError},
		{fn: log.Warn, level: rawslog.LevelWarn},
		{fn: log.Info, level: rawslog.LevelInfo},
		{fn: log.Debug, level: rawslog.LevelDebug},
	}

	for _, v := range testMethods {
		t.Run(fmt.Sprintf("testing %s", v.level.String()), func(t *testing.T) {
			buffer.Reset()
			v.fn("Load group failed", "group", 7)

			got := new(testLogJSON)
			require.NoError(t, json.Unmarshal(buffer.Bytes(), got))
			assert.Equal(t, v.level.String(), got.Level)
			assert.Equal(t, "Load group failed", got.Msg)
			assert.Equal(t, 7, got.Group)
		})
	}
}

func TestNewTextFiltersByLevel(t *testing.T) {
	var buffer bytes.Buffer
	log := slog.NewText(&buffer, "warn")

	log.Info("fetch started")
	log.Warn("fetch failed", "op", "Load groups")

	assert.NotContains(t, buffer.String(), "fetch started")
	assert.Contains(t, buffer.String(), `level=WARN msg="fetch failed" op="Load groups"`)
}

func TestWith(t *testing.T) {
	var buffer bytes.Buffer
	log := slog.NewText(&buffer, "debug").With("view", "doubts")

	log.Debug("mutation applied")
	assert.Contains(t, buffer.String(), "view=doubts")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, rawslog.LevelDebug, slog.ParseLevel("DEBUG"))
	assert.Equal(t, rawslog.LevelWarn, slog.ParseLevel("warning"))
	assert.Equal(t, rawslog.LevelError, slog.ParseLevel("error"))
	assert.Equal(t, rawslog.LevelInfo, slog.ParseLevel(""))
	assert.Equal(t, rawslog.LevelInfo, slog.ParseLevel("loud"))
}
