package services

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPerRequest is the upstream's hard ceiling on items per single request.
// It applies uniformly to limit and page-size parameters and is not
// configurable per call.
const MaxPerRequest = 100

// ClampLimit caps a requested item count at [MaxPerRequest]. Values below 1
// fall back to 1.
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxPerRequest {
		return MaxPerRequest
	}
	return limit
}

// NormalizeParams canonicalizes request parameters for a query string: nil
// values are dropped, sequences are joined with commas, everything else
// passes through unchanged. Pure and total — there are no error conditions.
func NormalizeParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		switch seq := v.(type) {
		case []string:
			out[k] = strings.Join(seq, ",")
		case []any:
			parts := make([]string, 0, len(seq))
			for _, e := range seq {
				parts = append(parts, paramString(e))
			}
			out[k] = strings.Join(parts, ",")
		case []int:
			parts := make([]string, 0, len(seq))
			for _, e := range seq {
				parts = append(parts, strconv.Itoa(e))
			}
			out[k] = strings.Join(parts, ",")
		default:
			out[k] = v
		}
	}
	return out
}

// paramString renders a normalized parameter value for the query string.
func paramString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
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

const spotifyHost = "open.spotify.com"

// SpotifyIDResolver implements [IDResolver] for the identifier forms the
// Chosic tools accept: Spotify URIs, share URLs, and bare ids.
//
//	spotify:track:6r7FXNO57mlZCBY6PXcZZT          -> 6r7FXNO57mlZCBY6PXcZZT
//	https://open.spotify.com/track/6r7F...?si=xxx -> 6r7FXNO57mlZCBY6PXcZZT
//	6r7FXNO57mlZCBY6PXcZZT                        -> 6r7FXNO57mlZCBY6PXcZZT
type SpotifyIDResolver struct{}

// Resolve extracts the canonical id. Non-strings are coerced to their string
// form first; nil and blank input yield the empty string.
func (SpotifyIDResolver) Resolve(value any) string {
	if value == nil {
		return ""
	}
	v, ok := value.(string)
	if !ok {
		v = fmt.Sprint(value)
	}

	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "spotify:") {
		parts := strings.Split(v, ":")
		return parts[len(parts)-1]
	}
	if strings.Contains(v, spotifyHost) {
		path, _, _ := strings.Cut(v, "?")
		path = strings.TrimRight(path, "/")
		parts := strings.Split(path, "/")
		return parts[len(parts)-1]
	}
	if before, _, found := strings.Cut(v, "?"); found {
		return before
	}
	return v
}
