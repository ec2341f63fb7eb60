package diag

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// SlogOptions controls SlogSink construction, mirroring the small
// environment-driven Options struct in gocomicwriter's internal/log package:
// a level, a format, and an optional rotating log file.
type SlogOptions struct {
	// Level is one of "debug", "info", "warn", "error"; default "info".
	Level string
	// Format is "console" or "json"; default "console".
	Format string
	// File, if non-empty, additionally writes JSON records to a
	// lumberjack-rotated file.
	File string
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogSink reports diagnostics as structured slog records, tagging every
// record with the run ID it was constructed with so that all diagnostics
// from one parser.Parser.ParseFile call can be correlated in log output.
type SlogSink struct {
	logger *slog.Logger
	runID  string
	source string
}

// NewSlogSink builds a SlogSink for a single ParseFile run against source
// (typically the script's path). A fresh v4 run ID is minted per call.
func NewSlogSink(opts SlogOptions, source string) *SlogSink {
	lvl := parseLevel(opts.Level)
	var w io.Writer = os.Stderr
	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	if opts.File != "" {
		fileWriter := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		fileHandler := slog.NewJSONHandler(fileWriter, handlerOpts)
		handler = newMultiHandler(handler, fileHandler)
	}

	return &SlogSink{
		logger: slog.New(handler),
		runID:  uuid.NewString(),
		source: source,
	}
}

// RunID returns the correlation ID minted for this sink's parse run.
func (s *SlogSink) RunID() string {
	return s.runID
}

func (s *SlogSink) Report(kind Kind, line int, message string) {
	level := slog.LevelWarn
	if kind == FileOpenFailed || kind == BadHeader {
		level = slog.LevelError
	}
	s.logger.LogAttrs(context.Background(), level, message,
		slog.String("kind", kind.String()),
		slog.Int("line", line),
		slog.String("run_id", s.runID),
		slog.String("source", s.source),
	)
}

// multiHandler fans slog records out to several handlers, mirroring
// gocomicwriter's internal/log multiHandler used to duplicate records to
// both a console and a rotating file handler.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
