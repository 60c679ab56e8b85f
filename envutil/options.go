package envutil

import (
	"log/slog"
	"maps"
)

// Policy selects how failures are classified in the ValidationError.
type Policy int

const (
	// PolicySplit reports absent variables as missing and present-but-rejected
	// variables as invalid. Empty strings count as absent unless
	// WithEmptyAsUnset(false) is given.
	PolicySplit Policy = iota

	// PolicyMerged reports every failing variable in a single list (all
	// classified as invalid). Empty strings are handed to the validator,
	// which decides whether they are acceptable.
	PolicyMerged
)

func (p Policy) String() string {
	switch p {
	case PolicySplit:
		return "split"
	case PolicyMerged:
		return "merged"
	default:
		return "unknown"
	}
}

// Option is a function which modifies a single Resolve call. It's used so
// that the caller can easily provide a prefix, overrides and a reporting policy.
type Option func(*options)

type options struct {
	prefix       string
	overrides    map[string]any
	policy       Policy
	emptyAsUnset *bool
	logger       *slog.Logger
	metrics      *Metrics
}

func newOptions(opts []Option) *options {
	o := &options{
		overrides: make(map[string]any),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o
}

func (o *options) emptyIsUnset() bool {
	if o.emptyAsUnset != nil {
		return *o.emptyAsUnset
	}

	return o.policy == PolicySplit
}

// WithPrefix makes Resolve look every variable up as prefix+name. The
// resulting Config still uses the unprefixed names.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithOverride supplies an already-typed value for v. The value is used
// as-is: it is never validated, and the source is never consulted for v.
func WithOverride[T any](v *Var[T], value T) Option {
	return func(o *options) {
		o.overrides[v.Name()] = value
	}
}

// WithOverrides is the untyped form of WithOverride. Names that are not
// declared in the schema are ignored.
func WithOverrides(overrides map[string]any) Option {
	return func(o *options) {
		maps.Copy(o.overrides, overrides)
	}
}

// WithPolicy selects the failure classification policy. The default is PolicySplit.
func WithPolicy(policy Policy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithEmptyAsUnset controls whether an empty string is treated as if the
// variable were not set at all. Shell tooling frequently exports unset
// variables as empty.
func WithEmptyAsUnset(emptyAsUnset bool) Option {
	return func(o *options) {
		o.emptyAsUnset = &emptyAsUnset
	}
}

// WithLogger makes Resolve log each failing key at debug level.
// Raw values are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records the outcome of the Resolve call.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}
