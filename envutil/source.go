package envutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Source is where Resolve reads raw values from. Lookup reports whether the
// key was set at all, so that an absent variable can be told apart from one
// set to the empty string.
type Source interface {
	Lookup(key string) (string, bool)
}

// SourceFunc adapts a plain lookup function such as os.LookupEnv.
type SourceFunc func(key string) (string, bool)

func (f SourceFunc) Lookup(key string) (string, bool) {
	return f(key)
}

// OS returns a Source backed by the process environment.
func OS() Source {
	return SourceFunc(os.LookupEnv)
}

// Layered returns a Source that consults each source in order and returns
// the first hit. Nil sources are skipped.
func Layered(sources ...Source) Source {
	return SourceFunc(func(key string) (string, bool) {
		for _, src := range sources {
			if src == nil {
				continue
			}

			if val, ok := src.Lookup(key); ok {
				return val, true
			}
		}

		return "", false
	})
}

// Map is a Source backed by a plain map of raw strings.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	val, ok := m[key]

	return val, ok
}

// Environ builds a Map from KEY=VALUE pairs in the format returned by
// os.Environ. Entries without '=' are skipped; later duplicates win.
func Environ(environ []string) Map {
	out := make(Map, len(environ))

	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}

		out[key] = val
	}

	return out
}

// Literals is a Source whose values may already be typed primitives
// (42, true, 1.5). They are converted to the string a validator would
// expect to see, so they survive a parse round trip. A nil value is
// treated as absent.
type Literals map[string]any

func (l Literals) Lookup(key string) (string, bool) {
	val, ok := l[key]
	if !ok || val == nil {
		return "", false
	}

	return stringify(val), true
}

func stringify(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
