// Package envutil resolves a set of declared environment variables into a typed,
// validated configuration in a single pass.
//
// Variables are declared with Define and grouped into a Schema. Resolve looks
// every declared name up in a Source, runs its validator, and either returns a
// Config holding exactly the declared keys or a *ValidationError naming every
// key that was missing or invalid:
//
//	port := envutil.Define("SERVER_PORT", validators.Port)
//	mode := envutil.Define("MODE", validators.OneOf("development", "production"))
//
//	cfg, err := envutil.Resolve(envutil.OS(), envutil.NewSchema(port, mode),
//		envutil.WithPrefix("APP_"))
//	if err != nil {
//		return err
//	}
//
//	listenPort := port.Get(cfg)
//
// Callers that cannot recover at start-up use MustResolve with an ExitSink,
// which logs one summary line and exits with status 1.
package envutil

import (
	"errors"

	"github.com/amp-labs/envcheck/optional"
)

// Resolve validates every variable declared in schema against src.
//
// Overridden variables are copied into the result without consulting src or
// running their validator. All other variables are looked up as prefix+name
// and validated in declaration order. Failures are collected rather than
// returned one at a time, so the returned *ValidationError names every
// offending key. No Config is returned unless every key resolved.
func Resolve(src Source, schema *Schema, opts ...Option) (*Config, error) {
	o := newOptions(opts)

	if src == nil {
		src = Map(nil)
	}

	if schema == nil {
		schema = NewSchema()
	}

	cfg := newConfig(schema.Len())

	var failures []Failure

	for _, name := range schema.names {
		if value, ok := o.overrides[name]; ok {
			cfg.set(name, value)

			continue
		}

		raw := o.lookup(src, name)

		value, ok := schema.fields[name].resolve(raw)
		if ok {
			cfg.set(name, value)

			continue
		}

		failure := Failure{Key: name, Kind: o.failureKind(raw)}
		failures = append(failures, failure)

		if o.logger != nil {
			// Raw values are deliberately left out, they are frequently secrets.
			o.logger.Debug("environment variable failed validation",
				"key", name, "lookup", o.prefix+name, "kind", failure.Kind.String())
		}
	}

	o.metrics.observe(failures)

	if len(failures) > 0 {
		return nil, &ValidationError{failures: failures}
	}

	return cfg, nil
}

// MustResolve is Resolve with the terminating contract: on failure the
// *ValidationError is handed to sink, which is expected to end the process.
// If the sink returns anyway, MustResolve returns nil.
func MustResolve(src Source, schema *Schema, sink Sink, opts ...Option) *Config {
	cfg, err := Resolve(src, schema, opts...)
	if err == nil {
		return cfg
	}

	if sink == nil {
		sink = DefaultSink()
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		sink.Fail(vErr)
	}

	return nil
}

func (o *options) lookup(src Source, name string) optional.Value[string] {
	value, ok := src.Lookup(o.prefix + name)
	raw := optional.FromLookup(value, ok)

	if o.emptyIsUnset() {
		raw = raw.Filter(func(s string) bool { return s != "" })
	}

	return raw
}

func (o *options) failureKind(raw optional.Value[string]) Kind {
	if o.policy == PolicySplit && raw.Empty() {
		return KindMissing
	}

	return KindInvalid
}
