package config

import (
	"time"
)

// Config is a read-only view over a decoded settings map. Lookups
// never fail: every accessor takes a default and returns it when the
// key is absent or the stored value has the wrong shape.
type Config struct {
	data map[string]any
}

// New wraps data in a Config. A nil map yields an empty Config.
func New(data map[string]any) Config {
	if data == nil {
		return Config{data: map[string]any{}}
	}
	return Config{data: data}
}

// String reads key as a string.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Duration reads key as a time.Duration. Strings go through
// time.ParseDuration. Plain ints count as seconds, floats as
// fractional seconds. A time.Duration value passes through unchanged.
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch v := c.data[key].(type) {
	case time.Duration:
		return v
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return defaultVal
		}
		return d
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	default:
		return defaultVal
	}
}

// Bool reads key as a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int reads key as an int. int64 values narrow, and float64 values
// convert only when they carry no fractional part.
func (c Config) Int(key string, defaultVal int) int {
	switch v := c.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if float64(int(v)) != v {
			return defaultVal
		}
		return int(v)
	default:
		return defaultVal
	}
}

// Float reads key as a float64. Integer values widen.
func (c Config) Float(key string, defaultVal float64) float64 {
	switch v := c.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return defaultVal
	}
}

// StringSlice reads key as a []string. A []any converts only when
// every element is a string; a single element of another type rejects
// the whole slice.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	switch v := c.data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return defaultVal
			}
			out[i] = s
		}
		return out
	default:
		return defaultVal
	}
}

// Section reads key as a nested Config. A missing key or a non-map
// value both yield an empty Config, so chained lookups like
// cfg.Section("observability").Bool("metrics", false) are safe on any
// input.
func (c Config) Section(key string) Config {
	m, ok := c.data[key].(map[string]any)
	if !ok {
		return New(nil)
	}
	return New(m)
}

// Any reads the raw value stored under key.
func (c Config) Any(key string, defaultVal any) any {
	if v, ok := c.data[key]; ok {
		return v
	}
	return defaultVal
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw exposes the underlying map. Callers must not modify it.
func (c Config) Raw() map[string]any {
	return c.data
}
