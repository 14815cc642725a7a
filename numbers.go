package jsonm

import (
	"encoding/json"
	"strconv"
)

// numberLiteral renders a Go-native number value (as produced by a
// caller's in-memory value tree: int, int64, float64, or json.Number) to
// its canonical decimal text, matching the regexes the decode side uses to
// classify literals (see internal/wire).
func numberLiteral(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return string(n), true
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 64), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	default:
		return "", false
	}
}

// asIndex reports whether v is a JSON-number-shaped value holding a whole
// number (a dictionary index or a sequence id), and returns it. Negative
// values are not rejected here.
func asIndex(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.Atoi(string(n))
		if err != nil {
			return 0, false
		}
		return i, true
	case float64:
		i := int(n)
		if float64(i) != n {
			return 0, false
		}
		return i, true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// parseFloatStrict and parseIntStrict are thin strconv wrappers used once
// the wire regexes have already classified a literal's shape.
func parseFloatStrict(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseIntStrict(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// reparseLiteral applies the decode-side scalar reparse rule: try integer,
// then float, else leave it as a string.
func reparseLiteral(lit string) any {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return f
	}
	return lit
}
