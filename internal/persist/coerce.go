package persist

import (
	"strconv"
	"time"
)

// Coercion helpers for untrusted decoded JSON. Every accessor returns a
// usable zero value instead of failing: migration must never abort a load.

func asMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

func asSlice(v any) []any {
	s, ok := v.([]any)
	if !ok {
		return nil
	}
	return s
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// Old persisted records stored some ids as numbers.
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		if i, err := strconv.Atoi(t); err == nil {
			return i
		}
	}
	return 0
}

func asBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func asStringSlice(v any) []string {
	out := []string{}
	for _, item := range asSlice(v) {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case float64:
		// Epoch milliseconds, as written by older records.
		return time.UnixMilli(int64(t)).UTC()
	}
	return time.Time{}
}

func asTimePtr(v any) *time.Time {
	t := asTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}
