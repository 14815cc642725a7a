package jsonm

import (
	"fmt"

	"github.com/seiflotfy/jsonm/internal/dictionary"
	"github.com/seiflotfy/jsonm/internal/wire"
)

// packValue encodes a single leaf JSON value (null, bool, number, or
// string). Numbers and strings are memoized in dict, and a repeat emission
// returns the existing backreference index instead of a fresh literal;
// null and bool pass through as-is and take no dictionary slot.
func packValue(dict *dictionary.Dictionary, v any) (any, error) {
	if v == nil {
		return packLeaf(dict, "null", "null", false)
	}

	switch val := v.(type) {
	case bool:
		lit := "false"
		if val {
			lit = "true"
		}
		return packLeaf(dict, lit, lit, false)
	case string:
		return packLeaf(dict, "~"+val, val, true)
	default:
		lit, ok := numberLiteral(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a packable leaf value", ErrMalformed, v)
		}
		return packLeaf(dict, lit, lit, false)
	}
}

// packLeaf is the shared memoization step used by packValue: null/bool are
// emitted as-is without touching dict (unpackValue installs nothing for
// them either); otherwise look up key, return the backreference index on a
// hit, else insert and emit per kind.
func packLeaf(dict *dictionary.Dictionary, key, lit string, isString bool) (any, error) {
	if !isString {
		if lit == "null" {
			return nil, nil
		}
		if lit == "true" || lit == "false" {
			return lit == "true", nil
		}
	}

	if idx, ok := dict.LookupScalar(key); ok {
		return idx, nil
	}

	dict.InsertScalar(key, lit)

	if !isString {
		// Numbers are always emitted as their string form on the wire.
		return lit, nil
	}

	if wire.NeedsTildeEscape(lit) {
		return "~" + lit, nil
	}
	return lit, nil
}

// unpackValue decodes a single encoded leaf.
func unpackValue(dict *dictionary.Dictionary, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if b, ok := v.(bool); ok {
		return b, nil
	}

	if idx, ok := asIndex(v); ok {
		entry, found := dict.LookupLiteral(idx)
		if !found {
			return nil, fmt.Errorf("%w: index %d", ErrDictionaryMiss, idx)
		}
		if entry.Object {
			return unmarshalObjectLiteral(entry.Literal)
		}
		return reparseLiteral(entry.Literal), nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected leaf type %T", ErrMalformed, v)
	}

	if wire.LooksLikeFloat(s) {
		if f, err := parseFloatStrict(s); err == nil {
			dict.InsertDecoded(s, false)
			return f, nil
		}
	}

	if wire.LooksLikeInt(s) {
		if i, err := parseIntStrict(s); err == nil {
			dict.InsertDecoded(s, false)
			return i, nil
		}
	}

	value := s
	if len(value) > 0 && value[0] == '~' {
		value = value[1:]
	}
	dict.InsertDecoded(value, false)
	return value, nil
}
