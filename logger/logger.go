// Package logger configures log/slog for programs that validate their
// environment with envutil. The logging settings themselves come from the
// environment (LOG_JSON, LOG_LEVEL, LEGACY_LOG_LEVEL, LOG_OUTPUT) and are
// resolved through envutil, so a bad setting is reported like any other
// invalid variable.
package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/amp-labs/envcheck/envutil"
	"github.com/amp-labs/envcheck/validators"
)

// configMutex protects concurrent calls to ConfigureLoggingWithOptions.
// This is necessary because the function modifies global state (slog.SetDefault and log.Default).
var configMutex sync.Mutex //nolint:gochecknoglobals

// osExit is replaced in tests.
var osExit = os.Exit //nolint:gochecknoglobals

var (
	// Default log format is text.
	logJSON = envutil.Define("LOG_JSON", //nolint:gochecknoglobals
		validators.Default(validators.BooleanPermissive, false))

	// Default log level is info.
	logLevel = envutil.Define("LOG_LEVEL", //nolint:gochecknoglobals
		validators.Default(validators.LogLevel, slog.LevelInfo))

	// If any packages use the old log package, it is redirected into slog.
	// Since the old log package doesn't support levels, we have to tell it
	// what level to use.
	legacyLogLevel = envutil.Define("LEGACY_LOG_LEVEL", //nolint:gochecknoglobals
		validators.Default(validators.LogLevel, slog.LevelInfo))

	logOutput = envutil.Define("LOG_OUTPUT", //nolint:gochecknoglobals
		validators.Default(validators.OneOf("stdout", "stderr"), "stdout"))

	// Schema lists the variables read by ConfigureLogging.
	Schema = envutil.NewSchema(logJSON, logLevel, legacyLogLevel, logOutput) //nolint:gochecknoglobals
)

// Fatal logs an error message and exits the application.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)

	osExit(1)
}

// Options is used to configure logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer
}

// ConfigureLoggingWithOptions configures logging for the application.
// It returns the default logger.
// This function is thread-safe but modifies global state, so concurrent calls
// will be serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	var handler slog.Handler

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	handler = NewValidationErrorHandler(handler)

	logger := slog.New(handler)
	if opts.Subsystem != "" {
		logger = logger.With("subsystem", opts.Subsystem)
	}

	slog.SetDefault(logger)

	// Set up the legacy logger (we won't be using this directly, but 3rd party packages might)
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	return logger
}

// Option is a functional option for configuring logging via ConfigureLogging.
// Options are applied after the environment has been read, so they win.
type Option func(*Options)

// WithOutput sends log output to w regardless of LOG_OUTPUT.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// WithMinLevel overrides LOG_LEVEL.
func WithMinLevel(level slog.Level) Option {
	return func(o *Options) {
		o.MinLevel = level
	}
}

// WithJSON overrides LOG_JSON.
func WithJSON(json bool) Option {
	return func(o *Options) {
		o.JSON = json
	}
}

// OptionsFromEnv resolves the LOG_* variables from src into Options.
func OptionsFromEnv(app string, src envutil.Source) (Options, error) {
	cfg, err := envutil.Resolve(src, Schema)
	if err != nil {
		return Options{}, err
	}

	var output io.Writer = os.Stdout
	if logOutput.Get(cfg) == "stderr" {
		output = os.Stderr
	}

	return Options{
		Subsystem:   app,
		JSON:        logJSON.Get(cfg),
		MinLevel:    logLevel.Get(cfg),
		LegacyLevel: legacyLogLevel.Get(cfg),
		Output:      output,
	}, nil
}

// ConfigureLogging configures logging for the application from the LOG_*
// variables in src. It returns the default logger. If a LOG_* variable is
// set to something invalid, nothing is configured and the
// *envutil.ValidationError is returned.
func ConfigureLogging(app string, src envutil.Source, opts ...Option) (*slog.Logger, error) {
	options, err := OptionsFromEnv(app, src)
	if err != nil {
		return nil, err
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options), nil
}
