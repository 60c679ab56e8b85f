// Package optional provides a type-safe Value type for representing an environment
// value that may or may not be defined. Validators use it on both sides: an absent
// raw variable is None going in, and a failed parse is None coming out.
package optional

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errMissingDefinedField = errors.New("optional: missing 'defined' field in JSON")

// Value represents a value that may or may not be defined.
// Use Some(value) to create a defined Value, or None() for an undefined one.
type Value[T any] struct {
	value   T
	defined bool
}

// Some creates a defined Value holding the given value.
func Some[T any](value T) Value[T] {
	return Value[T]{value: value, defined: true}
}

// None creates an undefined Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// FromLookup adapts the (value, ok) pair returned by lookups such as
// os.LookupEnv into a Value.
func FromLookup[T any](value T, ok bool) Value[T] {
	if !ok {
		return None[T]()
	}

	return Some(value)
}

// Defined returns true if the Value holds a value.
func (o Value[T]) Defined() bool {
	return o.defined
}

// Empty returns true if the Value does not hold a value.
func (o Value[T]) Empty() bool {
	return !o.defined
}

// Get returns the value and whether it is defined.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.defined
}

// GetOrElse returns the value if defined, or defaultValue otherwise.
func (o Value[T]) GetOrElse(defaultValue T) T {
	if o.defined {
		return o.value
	}

	return defaultValue
}

// OrElse returns this Value if defined, or the alternative otherwise.
func (o Value[T]) OrElse(alternative Value[T]) Value[T] {
	if o.defined {
		return o
	}

	return alternative
}

// Filter returns this Value if it is defined and satisfies the predicate, or None.
func (o Value[T]) Filter(predicate func(T) bool) Value[T] {
	if o.defined && predicate(o.value) {
		return o
	}

	return None[T]()
}

// String returns "Some(value)" if defined, or "None".
func (o Value[T]) String() string {
	if o.defined {
		return fmt.Sprintf("Some(%v)", o.value)
	}

	return "None"
}

// Map transforms the value using f. Returns None if o is undefined.
func Map[T any, U any](o Value[T], f func(T) U) Value[U] {
	if !o.defined {
		return None[U]()
	}

	return Some(f(o.value))
}

// FlatMap transforms the value using f, which may itself yield None.
// This is how validators are chained without nesting.
func FlatMap[T any, U any](o Value[T], f func(T) Value[U]) Value[U] {
	if !o.defined {
		return None[U]()
	}

	return f(o.value)
}

type wireValue[T any] struct {
	Defined *bool `json:"defined"`
	Value   *T    `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler.
// None is marshaled as {"defined":false}, Some(value) as {"defined":true,"value":...}.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.defined {
		return []byte(`{"defined":false}`), nil
	}

	defined := true

	return json.Marshal(wireValue[T]{Defined: &defined, Value: &o.value})
}

// UnmarshalJSON implements json.Unmarshaler. null is accepted as None.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None[T]()

		return nil
	}

	var wire wireValue[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	if wire.Defined == nil {
		return errMissingDefinedField
	}

	if !*wire.Defined || wire.Value == nil {
		*o = None[T]()

		return nil
	}

	*o = Some(*wire.Value)

	return nil
}

// MarshalYAML implements yaml.Marshaler with the same shape as MarshalJSON.
func (o Value[T]) MarshalYAML() (any, error) {
	if !o.defined {
		return map[string]any{"defined": false}, nil
	}

	return map[string]any{"defined": true, "value": o.value}, nil
}
