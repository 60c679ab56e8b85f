package envutil

import (
	"log/slog"
	"os"
)

// Sink receives the failure report when MustResolve cannot build a Config.
type Sink interface {
	Fail(err *ValidationError)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(err *ValidationError)

func (f SinkFunc) Fail(err *ValidationError) {
	f(err)
}

// ExitSink logs a single summary line at error level and terminates the
// process with status 1. Both the logger and the exit function can be
// replaced, which is how tests observe it.
type ExitSink struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Exit defaults to os.Exit.
	Exit func(code int)
}

func (s ExitSink) Fail(err *ValidationError) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exit := s.Exit
	if exit == nil {
		exit = os.Exit
	}

	logger.Error(err.Error())

	exit(1)
}

// DefaultSink returns an ExitSink using the default logger and os.Exit.
func DefaultSink() Sink {
	return ExitSink{}
}
