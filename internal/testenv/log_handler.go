package testenv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// LogHandler is a slog.Handler that writes the message index (starting
// from 0), level and message, without the timestamp, so test log output
// is deterministic. Handlers derived with WithAttrs or WithGroup share
// the index and the writer.
type LogHandler struct {
	out    *logOutput
	attrs  []slog.Attr
	groups []string

	ignoreErrorPrefixes []string
	ignoreDebug         bool
}

type logOutput struct {
	mu    sync.Mutex
	w     io.Writer
	index int
	lines []string
}

// LogHandlerOption configures a LogHandler.
type LogHandlerOption func(*LogHandler)

// WithIgnoreErrorPrefixes drops error records whose message starts with
// one of prefixes.
func WithIgnoreErrorPrefixes(prefixes ...string) LogHandlerOption {
	return func(h *LogHandler) {
		h.ignoreErrorPrefixes = append(h.ignoreErrorPrefixes, prefixes...)
	}
}

// WithIgnoreDebug drops DEBUG records.
func WithIgnoreDebug() LogHandlerOption {
	return func(h *LogHandler) {
		h.ignoreDebug = true
	}
}

// NewLogHandler writes to w. A nil w only keeps the lines in memory.
func NewLogHandler(w io.Writer, opts ...LogHandlerOption) *LogHandler {
	h := &LogHandler{out: &logOutput{w: w}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Lines returns every line written so far.
func (h *LogHandler) Lines() []string {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	return append([]string(nil), h.out.lines...)
}

// Contains reports whether any line contains s.
func (h *LogHandler) Contains(s string) bool {
	for _, line := range h.Lines() {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

//nolint:gocritic
func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	if r.Level == slog.LevelDebug && h.ignoreDebug {
		return nil
	}
	if r.Level == slog.LevelError {
		for _, prefix := range h.ignoreErrorPrefixes {
			if strings.HasPrefix(r.Message, prefix) {
				return nil
			}
		}
	}

	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	line := fmt.Sprintf("[%d] %s: %s", h.out.index, r.Level, r.Message)
	if attrs := h.attrsToString(&r); attrs != "" {
		line += " " + attrs
	}
	h.out.index++
	h.out.lines = append(h.out.lines, line)
	if h.out.w != nil {
		if _, err := fmt.Fprintln(h.out.w, line); err != nil {
			return err
		}
	}
	return nil
}

func (h *LogHandler) attrsToString(r *slog.Record) string {
	var parts []string
	for _, attr := range h.attrs {
		parts = append(parts, formatAttr(attr, ""))
	}

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, formatAttr(a, prefix))
		return true
	})
	return strings.Join(parts, ", ")
}

func formatAttr(a slog.Attr, prefix string) string {
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix + a.Key + "."
		parts := make([]string, 0, len(a.Value.Group()))
		for _, ga := range a.Value.Group() {
			parts = append(parts, formatAttr(ga, groupPrefix))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%s%s=%v", prefix, a.Key, a.Value)
}

func (h *LogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	prefixed := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		if prefix == "" {
			prefixed = append(prefixed, attr)
			continue
		}
		prefixed = append(prefixed, slog.Attr{Key: prefix + attr.Key, Value: attr.Value})
	}

	clone := *h
	clone.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], prefixed...)
	return &clone
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &clone
}
