package logger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amp-labs/envcheck/envutil"
)

// validationErrorHandler is a slog.Handler decorator. When a record carries
// an error attribute wrapping an *envutil.ValidationError, the failing keys
// are added to the record as "invalid" and "missing" attributes, so they can
// be queried in structured logs without parsing the message.
type validationErrorHandler struct {
	inner slog.Handler
}

// NewValidationErrorHandler wraps inner. ConfigureLoggingWithOptions installs
// it on every logger it builds.
func NewValidationErrorHandler(inner slog.Handler) slog.Handler {
	return &validationErrorHandler{inner: inner}
}

var _ slog.Handler = (*validationErrorHandler)(nil)

func (h *validationErrorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *validationErrorHandler) Handle(ctx context.Context, record slog.Record) error {
	var extra []slog.Attr

	record.Attrs(func(attr slog.Attr) bool {
		err, ok := attr.Value.Any().(error)
		if !ok {
			return true
		}

		var vErr *envutil.ValidationError
		if errors.As(err, &vErr) {
			extra = append(extra,
				slog.Any("invalid", vErr.Invalid()),
				slog.Any("missing", vErr.Missing()))

			return false
		}

		return true
	})

	if len(extra) == 0 {
		return h.inner.Handle(ctx, record)
	}

	r := record.Clone()
	r.AddAttrs(extra...)

	return h.inner.Handle(ctx, r)
}

func (h *validationErrorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &validationErrorHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *validationErrorHandler) WithGroup(name string) slog.Handler {
	return &validationErrorHandler{inner: h.inner.WithGroup(name)}
}
