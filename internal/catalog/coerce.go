package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// stringFrom renders a scalar value as a string. Nil becomes the empty
// string; numbers lose any float formatting noise ("12.0" -> "12").
func stringFrom(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(v)
	}
}

// intFrom parses an integer out of whatever the API sent: a JSON number, a
// plain digit string, a string with thousands separators ("1,234"), or a
// float-looking string. Anything unparseable yields 0.
func intFrom(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return int(n)
	case int:
		return n
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if cleaned == "" {
			return 0
		}
		if i, err := strconv.Atoi(cleaned); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

// floatFrom parses a float, accepting decimal-comma strings ("0,5"). Returns
// 0 when the value cannot be interpreted.
func floatFrom(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		trimmed := strings.TrimSpace(n)
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

// firstString returns the first non-empty string value among the candidate
// keys, in order. Alias resolution is table-driven: callers list the keys a
// logical field may arrive under and the first present one wins.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s := stringFrom(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstInt returns the first present candidate key coerced to an integer.
func firstInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return intFrom(v)
		}
	}
	return 0
}

// stringsFrom converts a raw JSON array into a string slice, skipping
// non-string members.
func stringsFrom(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// itemList unwraps the list/`items` duality: a collection value is either a
// bare JSON list or an object holding the list under "items". The second
// return is false when neither shape matches.
func itemList(v any) ([]any, bool) {
	switch raw := v.(type) {
	case []any:
		return raw, true
	case map[string]any:
		if items, ok := raw["items"].([]any); ok {
			return items, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// hasAnyKey reports whether the map contains at least one of the given keys.
func hasAnyKey(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
