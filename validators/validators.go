// Package validators provides the reusable validator functions used to turn a raw
// environment value into a typed one.
//
// A Validator is a total, pure function. It receives the raw value as an
// optional.Value (None when the variable is absent) and returns the parsed value,
// or None when the input is absent or cannot be parsed. Validators never panic
// and never return errors, which keeps them composable:
//
//	validators.Optional(validators.OneOf("a", "b"))
//
// Most built-ins are thin lifts of the xform transformers through FromTransform.
package validators

import (
	"log/slog"
	"time"

	"github.com/amp-labs/envcheck/optional"
	"github.com/amp-labs/envcheck/xform"
	"github.com/google/uuid"
)

// Validator converts a raw, possibly absent, environment value into a T.
// Returning None signals failure.
type Validator[T any] func(raw optional.Value[string]) optional.Value[T]

// Validate runs the validator against a raw string that is known to be present.
func (v Validator[T]) Validate(raw string) (T, bool) {
	return v(optional.Some(raw)).Get()
}

// FromTransform lifts an xform-style transformer into a Validator.
// Absent input and transformer errors both yield None.
func FromTransform[T any](f func(string) (T, error)) Validator[T] {
	return func(raw optional.Value[string]) optional.Value[T] {
		return optional.FlatMap(raw, func(s string) optional.Value[T] {
			val, err := f(s)
			if err != nil {
				return optional.None[T]()
			}

			return optional.Some(val)
		})
	}
}

var (
	// String accepts any non-empty string and returns it unchanged.
	String = FromTransform(xform.NonEmpty) //nolint:gochecknoglobals

	// Number parses the value as a float64. NaN is rejected.
	Number = FromTransform(xform.Float64) //nolint:gochecknoglobals

	// Int parses the value as a base-10 int64.
	Int = FromTransform(xform.Int64) //nolint:gochecknoglobals

	// Boolean accepts exactly "true" and "false".
	Boolean = FromTransform(xform.Bool) //nolint:gochecknoglobals

	// BooleanPermissive additionally accepts "1" and "0".
	BooleanPermissive = FromTransform(xform.BoolPermissive) //nolint:gochecknoglobals

	// Email performs a local@domain.tld shape check and returns the input.
	Email = FromTransform(xform.Email) //nolint:gochecknoglobals

	// URL accepts any absolute, parseable URL and returns the input.
	URL = FromTransform(xform.URL) //nolint:gochecknoglobals

	// Port accepts an integer in the range 1..65535.
	Port = FromTransform(xform.Port) //nolint:gochecknoglobals

	// HostPort accepts "host:port" with a valid port.
	HostPort = FromTransform(xform.HostAndPort) //nolint:gochecknoglobals

	Duration = FromTransform(xform.Duration) //nolint:gochecknoglobals

	UUID = FromTransform(xform.UUID) //nolint:gochecknoglobals

	// LogLevel accepts debug, info, warn or error, ignoring case and surrounding space.
	LogLevel = FromTransform(func(s string) (slog.Level, error) { //nolint:gochecknoglobals
		s, _ = xform.TrimString(s)
		s, _ = xform.ToLower(s)

		return xform.SlogLevel(s)
	})
)

// Compile-time checks that the built-ins keep their success types.
var (
	_ Validator[string]        = String
	_ Validator[float64]       = Number
	_ Validator[bool]          = Boolean
	_ Validator[uint16]        = Port
	_ Validator[time.Duration] = Duration
	_ Validator[uuid.UUID]     = UUID
)

// OneOf accepts only the given literals and returns the matching one, so a
// named string type is preserved:
//
//	type Mode string
//	validators.OneOf[Mode]("development", "test", "production")
func OneOf[S xform.Stringish](values ...S) Validator[S] {
	return FromTransform(xform.OneOf(values...))
}

// Optional wraps a validator so that it never fails. The result is
// Some(value) when the inner validator succeeds, and None when the raw value
// is absent or the inner validator rejects it.
func Optional[T any](inner Validator[T]) Validator[optional.Value[T]] {
	return func(raw optional.Value[string]) optional.Value[optional.Value[T]] {
		return optional.Some(inner(raw))
	}
}

// Default substitutes dfl when the raw value is absent. A present value is
// still handed to inner, so an invalid setting is not silently replaced.
func Default[T any](inner Validator[T], dfl T) Validator[T] {
	return func(raw optional.Value[string]) optional.Value[T] {
		if raw.Empty() {
			return optional.Some(dfl)
		}

		return inner(raw)
	}
}

// Map converts a validator's successful result with f.
func Map[T any, U any](inner Validator[T], f func(T) U) Validator[U] {
	return func(raw optional.Value[string]) optional.Value[U] {
		return optional.Map(inner(raw), f)
	}
}

// Check adds a constraint on top of a validator. Values for which
// predicate returns false become None.
func Check[T any](inner Validator[T], predicate func(T) bool) Validator[T] {
	return func(raw optional.Value[string]) optional.Value[T] {
		return inner(raw).Filter(predicate)
	}
}

// Func adapts a plain parse function that reports success with a bool.
// The function is only called for present values.
func Func[T any](f func(string) (T, bool)) Validator[T] {
	return func(raw optional.Value[string]) optional.Value[T] {
		return optional.FlatMap(raw, func(s string) optional.Value[T] {
			val, ok := f(s)

			return optional.FromLookup(val, ok)
		})
	}
}
