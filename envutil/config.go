package envutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownKey = errors.New("unknown configuration key")
	ErrWrongType  = errors.New("wrong type")
)

// Config is the result of a successful Resolve. It holds exactly the keys
// declared in the schema, in declaration order, and is immutable.
type Config struct {
	keys   []string
	values map[string]any
}

func newConfig(size int) *Config {
	return &Config{
		keys:   make([]string, 0, size),
		values: make(map[string]any, size),
	}
}

func (c *Config) set(key string, value any) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}

	c.values[key] = value
}

// Keys returns the keys in declaration order.
func (c *Config) Keys() []string {
	return slices.Clone(c.keys)
}

func (c *Config) Len() int {
	return len(c.keys)
}

// Get returns the raw resolved value for key.
func (c *Config) Get(key string) (any, bool) {
	val, ok := c.values[key]

	return val, ok
}

// All iterates over the resolved values in declaration order.
func (c *Config) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range c.keys {
			if !yield(key, c.values[key]) {
				return
			}
		}
	}
}

// AsMap returns a copy of the resolved values.
func (c *Config) AsMap() map[string]any {
	return maps.Clone(c.values)
}

// Value returns the value stored under key as a T.
func Value[T any](cfg *Config, key string) (T, error) { //nolint:ireturn
	var zero T

	if cfg == nil {
		return zero, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	raw, ok := cfg.values[key]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	val, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T, not %T", ErrWrongType, key, raw, zero)
	}

	return val, nil
}

// MarshalJSON writes the values as a JSON object in declaration order.
func (c *Config) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(c.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", key, err)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML returns a mapping node in declaration order, since yaml.v3
// would otherwise sort map keys.
func (c *Config) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, key := range c.keys {
		var k, v yaml.Node

		if err := k.Encode(key); err != nil {
			return nil, err
		}

		if err := v.Encode(c.values[key]); err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", key, err)
		}

		node.Content = append(node.Content, &k, &v)
	}

	return node, nil
}
