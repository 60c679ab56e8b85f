package envutil

import (
	"slices"

	"github.com/amp-labs/envcheck/optional"
	"github.com/amp-labs/envcheck/validators"
)

// Field is a declared environment variable. Fields are created with Define.
type Field interface {
	// Name is the unprefixed variable name, which is also the Config key.
	Name() string

	resolve(raw optional.Value[string]) (any, bool)
}

// Var is a declared variable whose resolved value has type T. Keep the *Var
// returned by Define around to read the value back out of a Config without
// type assertions.
type Var[T any] struct {
	name      string
	validator validators.Validator[T]
}

// Define declares a variable with the given name and validator.
func Define[T any](name string, validator validators.Validator[T]) *Var[T] {
	return &Var[T]{name: name, validator: validator}
}

func (v *Var[T]) Name() string {
	return v.name
}

func (v *Var[T]) resolve(raw optional.Value[string]) (any, bool) {
	if v.validator == nil {
		return nil, false
	}

	return v.validator(raw).Get()
}

// Lookup returns the resolved value of v from cfg. It reports false if cfg
// does not contain v, or if an untyped override stored a value of a
// different type.
func (v *Var[T]) Lookup(cfg *Config) (T, bool) {
	val, err := Value[T](cfg, v.name)

	return val, err == nil
}

// Get returns the resolved value of v from cfg, or the zero value of T.
func (v *Var[T]) Get(cfg *Config) T {
	val, _ := v.Lookup(cfg)

	return val
}

// Override is shorthand for WithOverride(v, value).
func (v *Var[T]) Override(value T) Option {
	return WithOverride(v, value)
}

// Schema is an ordered set of declared variables. Resolution visits the
// fields, and reports failures, in declaration order. A Schema is not
// modified after construction and may be shared.
type Schema struct {
	names  []string
	fields map[string]Field
}

// NewSchema builds a Schema from the given fields. If a name is declared
// twice, the later field replaces the earlier one but keeps its position.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{
		names:  make([]string, 0, len(fields)),
		fields: make(map[string]Field, len(fields)),
	}

	for _, f := range fields {
		s.add(f)
	}

	return s
}

func (s *Schema) add(f Field) {
	if f == nil {
		return
	}

	if _, ok := s.fields[f.Name()]; !ok {
		s.names = append(s.names, f.Name())
	}

	s.fields[f.Name()] = f
}

// With returns a new Schema with the given fields appended.
func (s *Schema) With(fields ...Field) *Schema {
	out := &Schema{
		names:  slices.Clone(s.names),
		fields: make(map[string]Field, len(s.fields)+len(fields)),
	}

	for name, f := range s.fields {
		out.fields[name] = f
	}

	for _, f := range fields {
		out.add(f)
	}

	return out
}

// Names returns the declared names in declaration order.
func (s *Schema) Names() []string {
	return slices.Clone(s.names)
}

func (s *Schema) Len() int {
	return len(s.names)
}

func (s *Schema) Has(name string) bool {
	_, ok := s.fields[name]

	return ok
}
