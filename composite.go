package jsonm

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/seiflotfy/jsonm/internal/dictionary"
	"github.com/seiflotfy/jsonm/internal/wire"
)

// packComposite is the recursive descent over arrays and objects, emitting
// type-tagged forms. Leaves are handed to packValue; strings that still
// have string-depth budget are routed through packString instead.
func packComposite(dict *dictionary.Dictionary, v any, stringDepth int) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return packArray(dict, val, stringDepth-1)
	case map[string]any:
		return packObject(dict, val, stringDepth)
	case string:
		if stringDepth >= 0 {
			return packString(dict, val, PackOptions{NoSequenceID: true, PackStringDepth: 0})
		}
		return packValue(dict, val)
	default:
		return packValue(dict, val)
	}
}

func packArray(dict *dictionary.Dictionary, arr []any, stringDepth int) (any, error) {
	result := make([]any, 0, len(arr)+1)
	result = append(result, wire.TagArray)
	for _, elem := range arr {
		packed, err := packComposite(dict, elem, stringDepth)
		if err != nil {
			return nil, err
		}
		result = append(result, packed)
	}
	return result, nil
}

func packObject(dict *dictionary.Dictionary, obj map[string]any, stringDepth int) (any, error) {
	keys := sortedKeys(obj)

	results := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		packed, err := packValue(dict, k)
		if err != nil {
			return nil, err
		}
		results = append(results, packed)
	}

	for _, k := range keys {
		v := obj[k]
		var (
			packed any
			err    error
		)
		switch val := v.(type) {
		case map[string]any, []any:
			packed, err = packComposite(dict, val, stringDepth-1)
		case string:
			if stringDepth > 0 {
				packed, err = packString(dict, val, PackOptions{NoSequenceID: true, PackStringDepth: -1})
			} else {
				packed, err = packValue(dict, val)
			}
		default:
			packed, err = packValue(dict, val)
		}
		if err != nil {
			return nil, err
		}
		results = append(results, packed)
	}

	return tryPackComplexObject(dict, obj, results)
}

// tryPackComplexObject implements the small-object memoization refinement:
// when every encoded key and value in results is itself a backreference
// index and the payload is small, the whole object collapses to a single
// index once it has been seen in this exact shape before.
func tryPackComplexObject(dict *dictionary.Dictionary, obj map[string]any, results []any) (any, error) {
	if len(results) > wire.MaxComplexObjectSize || len(results) == 0 {
		return results, nil
	}
	for _, el := range results {
		if _, ok := el.(int); !ok {
			return results, nil
		}
	}

	canonical, err := json.Marshal(obj)
	if err != nil {
		return results, nil
	}
	fingerprint := string(canonical)

	if idx, ok := dict.LookupObject(fingerprint); ok {
		return idx, nil
	}
	dict.InsertObject(fingerprint, fingerprint)
	return results, nil
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// unpackComposite decodes an encoded array,
// dispatching on its leading tag (if any is structurally present - a
// backreference index can never collide with a tag, since real indices
// start at dictionary.MinIndex).
func unpackComposite(dict *dictionary.Dictionary, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	arr, ok := v.([]any)
	if !ok {
		return unpackValue(dict, v)
	}

	if len(arr) == 0 {
		return map[string]any{}, nil
	}

	if tag, ok := tagOf(arr[0]); ok {
		switch tag {
		case wire.TagArray:
			out := make([]any, 0, len(arr)-1)
			for _, el := range arr[1:] {
				decoded, err := unpackComposite(dict, el)
				if err != nil {
					return nil, err
				}
				out = append(out, decoded)
			}
			return out, nil
		case wire.TagString:
			joined := ""
			for i, el := range arr[1:] {
				decoded, err := unpackComposite(dict, el)
				if err != nil {
					return nil, err
				}
				line, ok := decoded.(string)
				if !ok {
					return nil, fmt.Errorf("%w: STRING fragment decoded to %T", ErrMalformed, decoded)
				}
				if i > 0 {
					joined += "\n"
				}
				joined += line
			}
			return joined, nil
		case wire.TagValue:
			if len(arr) < 2 {
				return nil, fmt.Errorf("%w: VALUE envelope missing payload", ErrMalformed)
			}
			return unpackValue(dict, arr[1])
		}
	}

	return unpackObjectPayload(dict, arr)
}

// unpackObjectPayload decodes an untagged flat key/value array (the
// "otherwise" branch) back into a map, mirroring the encoder's
// small-object-memoization slot consumption so both peers' dictionaries
// stay positionally aligned even though an object-fingerprint slot carries
// no literal scalar on the wire.
func unpackObjectPayload(dict *dictionary.Dictionary, arr []any) (any, error) {
	eligible := len(arr) <= wire.MaxComplexObjectSize && len(arr) > 0 && allBackreferences(arr)

	decoded := make([]any, len(arr))
	for i, el := range arr {
		var (
			v   any
			err error
		)
		switch el.(type) {
		case []any:
			v, err = unpackComposite(dict, el)
		default:
			v, err = unpackValue(dict, el)
		}
		if err != nil {
			return nil, err
		}
		decoded[i] = v
	}

	half := len(decoded) / 2
	result := make(map[string]any, half)
	for i := 0; i < half; i++ {
		key, ok := decoded[i].(string)
		if !ok {
			key = fmt.Sprint(decoded[i])
		}
		result[key] = decoded[i+half]
	}

	if eligible {
		canonical, err := json.Marshal(result)
		if err == nil {
			dict.InsertDecoded(string(canonical), true)
		}
	}

	return result, nil
}

// tagOf reports whether v is one of the three reserved structural tags.
// Real backreference indices start at dictionary.MinIndex (3), so a bare
// 0, 1, or 2 in a leading position is always a tag, never a key or index.
func tagOf(v any) (int, bool) {
	idx, ok := asIndex(v)
	if !ok {
		return 0, false
	}
	if idx == wire.TagArray || idx == wire.TagValue || idx == wire.TagString {
		return idx, true
	}
	return 0, false
}

// allBackreferences reports whether every element of arr is a JSON-number
// shaped backreference (the "every key and value was a dictionary
// hit" eligibility test for small-object memoization).
func allBackreferences(arr []any) bool {
	for _, el := range arr {
		if _, ok := asIndex(el); !ok {
			return false
		}
	}
	return true
}

// unmarshalObjectLiteral reconstructs a value collapsed by small-object
// memoization from its canonical JSON text.
func unmarshalObjectLiteral(literal string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(literal), &v); err != nil {
		return nil, fmt.Errorf("%w: corrupt object literal: %v", ErrMalformed, err)
	}
	return v, nil
}
