// Package xform holds the string transformers behind the built-in validators.
// Each transformer has the shape func(string) (T, error) and reports why a
// raw environment value was rejected through a sentinel error.
package xform

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const portMax = 65535

// Shape check only: something@domain.tld, no whitespace.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// TrimString removes leading and trailing whitespace from a string.
func TrimString(s string) (string, error) {
	return strings.TrimSpace(s), nil
}

// ToLower converts a string to lowercase.
func ToLower(s string) (string, error) {
	return strings.ToLower(s), nil
}

// NonEmpty returns the input unchanged, rejecting the empty string.
func NonEmpty(value string) (string, error) {
	if value == "" {
		return "", ErrEmptyString
	}

	return value, nil
}

// Float64 parses the whole string as a float64. NaN is rejected since it
// can never be a meaningful setting.
func Float64(value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, value)
	}

	if math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, value)
	}

	return f, nil
}

// Int64 parses a string as a base-10 int64.
func Int64(value string) (int64, error) {
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, value)
	}

	return i, nil
}

// Bool accepts exactly "true" or "false".
func Bool(value string) (bool, error) {
	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidBool, value)
	}
}

// BoolPermissive accepts "true", "false", "1" and "0".
func BoolPermissive(value string) (bool, error) {
	switch value {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return Bool(value)
	}
}

// OneOf returns a transformer that validates a value is one of the allowed choices.
// The matching choice is returned, so named string types survive the round trip.
func OneOf[S Stringish](choices ...S) func(string) (S, error) { //nolint:ireturn
	return func(value string) (S, error) {
		idx := slices.IndexFunc(choices, func(c S) bool { return string(c) == value })
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrInvalidChoice, value)
		}

		return choices[idx], nil
	}
}

// Email performs a shape check (local@domain.tld), not RFC 5322 validation.
func Email(value string) (string, error) {
	if !emailPattern.MatchString(value) {
		return "", fmt.Errorf("%w: %q", ErrBadEmail, value)
	}

	return value, nil
}

// URL parses the value as an absolute URL and returns the input unchanged.
// Values without a scheme (e.g. "example.com") are rejected.
func URL(value string) (string, error) {
	u, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadURL, err)
	}

	if u.Scheme == "" {
		return "", fmt.Errorf("%w: missing scheme in %q", ErrBadURL, value)
	}

	return value, nil
}

// Port parses a string as a TCP/UDP port number. Port 0 is rejected
// because it cannot be configured as a listen or dial target.
func Port(value string) (uint16, error) {
	port, err := Int64(value)
	if err != nil {
		return 0, err
	}

	if port <= 0 || port > portMax {
		return 0, fmt.Errorf("%w: %d", ErrBadPort, port)
	}

	return uint16(port), nil
}

// HostAndPort parses "host:port". The host may be empty (":8080") or a
// bracketed IPv6 literal; the port follows the rules of Port.
func HostAndPort(value string) (HostPort, error) {
	host, portStr, err := net.SplitHostPort(value)
	if err != nil {
		return HostPort{}, fmt.Errorf("%w: %q", ErrBadHostAndPort, value)
	}

	port, err := Port(portStr)
	if err != nil {
		return HostPort{}, fmt.Errorf("%w: %w", ErrBadHostAndPort, err)
	}

	return HostPort{Host: host, Port: port}, nil
}

// Duration parses a string as a time.Duration ("1h30m", "5s", "100ms").
func Duration(value string) (time.Duration, error) {
	return time.ParseDuration(value)
}

// UUID parses a string as a UUID in any of the formats accepted by github.com/google/uuid.
func UUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

// SlogLevel parses a string as a slog.Level.
// Accepts: "debug", "info", "warn", "error" (case-sensitive).
func SlogLevel(value string) (slog.Level, error) {
	switch value {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, value)
	}
}
