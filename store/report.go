package store

import (
	"context"
	"log/slog"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal // developer fatal, ie a misconfigured index
)

func (self Severity) String() string {
	switch self {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Reporter is the error sink handed to a RecordSet at construction. It only
// receives copies of conditions; every error is still returned to the caller.
type Reporter interface {
	Report(severity Severity, message string)
}

type ReporterFunc func(Severity, string)

func (self ReporterFunc) Report(severity Severity, message string) {
	self(severity, message)
}

type nopReporter struct{}

func (nopReporter) Report(Severity, string) {}

// NopReporter discards everything.
func NopReporter() Reporter { return nopReporter{} }

type slogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter forwards reports to a structured logger. A nil logger
// uses slog.Default().
func NewSlogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogReporter{logger: logger}
}

func (self *slogReporter) Report(severity Severity, message string) {
	level := slog.LevelInfo
	switch severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError, SeverityFatal:
		level = slog.LevelError
	}
	self.logger.Log(
		context.Background(),
		level,
		message,
		"severity", severity.String(),
	)
}
