// Package probe reads loosely shaped JSON (decoded into map[string]any)
// with null-coalescing: each getter tries keys in order and returns the
// first present, non-null value of the wanted kind.
package probe

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Object returns the first key holding a JSON object.
func Object(m map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok {
			return v, true
		}
	}
	return nil, false
}

// Array returns the first key holding a JSON array.
func Array(m map[string]any, keys ...string) ([]any, bool) {
	for _, k := range keys {
		if v, ok := m[k].([]any); ok {
			return v, true
		}
	}
	return nil, false
}

// Objects returns the objects inside the first array found under keys.
// Non-object elements are skipped.
func Objects(m map[string]any, keys ...string) []map[string]any {
	arr, _ := Array(m, keys...)
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if o, ok := item.(map[string]any); ok {
			out = append(out, o)
		}
	}
	return out
}

// String returns the first non-empty string under keys. Numbers are
// formatted, so an integer id still comes back as text.
func String(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

// Number returns the first numeric value under keys. Numeric strings
// are accepted.
func Number(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Float is Number with a zero default.
func Float(m map[string]any, keys ...string) float64 {
	f, _ := Number(m, keys...)
	return f
}

// Int is Number truncated to int64 with a zero default.
func Int(m map[string]any, keys ...string) int64 {
	f, _ := Number(m, keys...)
	return int64(f)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time returns the first parseable timestamp under keys. Strings in
// RFC 3339 or date-only form are accepted, as are epoch milliseconds.
func Time(m map[string]any, keys ...string) *time.Time {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return &t
				}
			}
		case float64:
			if v > 0 {
				t := time.UnixMilli(int64(v)).UTC()
				return &t
			}
		}
	}
	return nil
}
