package jsonm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seiflotfy/jsonm/internal/dictionary"
	"github.com/seiflotfy/jsonm/internal/wire"
)

// PackString packs text that the caller knows
// should round-trip as a string. It tries to parse text as JSON first (so
// an embedded JSON document still benefits from normal memoization); on
// parse failure it falls back to splitting on line breaks and encoding the
// fragments as a STRING-tagged array that UnpackString rejoins with "\n".
func (p *Packer) PackString(text string, opts PackOptions) (any, error) {
	if parsed, ok := tryParseJSON(text); ok {
		// A successful JSON parse is encoded with the ordinary rules and
		// left untagged (or tagged ARRAY/VALUE, whichever it naturally
		// produces): UnpackString recovers the original text generically,
		// by decoding and re-serializing, rather than by a tag rewrite -
		// rewriting position 0 unconditionally would corrupt an
		// untagged object payload, whose first element is a packed key,
		// not a spare tag slot.
		return p.packWithOptions(parsed, opts)
	}

	lines := splitLines(text)
	values := make([]any, len(lines))
	for i, line := range lines {
		values[i] = line
	}

	encoded, err := p.packWithOptions(values, opts)
	if err != nil {
		return nil, err
	}
	arr, ok := encoded.([]any)
	if !ok || len(arr) == 0 {
		return nil, fmt.Errorf("%w: line-split encoding did not produce an array", ErrMalformed)
	}
	arr[0] = wire.TagString
	return arr, nil
}

// packString encodes text as a STRING-tagged array of its lines, with no
// envelope; the composite walker routes string leaves that still have
// string-depth budget here. Unlike PackString it does not try a JSON parse
// first, so the decoder always gets a string back.
func packString(dict *dictionary.Dictionary, text string, opts PackOptions) (any, error) {
	fragments := []any{}
	for _, line := range splitLines(text) {
		fragments = append(fragments, line)
	}
	encoded, err := packArray(dict, fragments, opts.PackStringDepth-1)
	if err != nil {
		return nil, err
	}
	arr := encoded.([]any)
	arr[0] = wire.TagString
	return arr, nil
}

// tryParseJSON attempts a strict JSON parse of text, preserving number
// literal text via json.Number so memoization round-trips exact digit
// sequences rather than a reparsed float64.
func tryParseJSON(text string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return v, true
}

// splitLines mirrors Rust's str::lines(): split on "\n", with a trailing
// "\r" stripped from each fragment so CRLF input doesn't leak carriage
// returns into the dictionary.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// UnpackString is the inverse of PackString: for a
// STRING-tagged envelope this is simply the decoded join; for anything
// else, the decoded value is re-serialized to JSON text, recovering
// whatever PackString's JSON-parse-success path originally encoded.
func (u *Unpacker) UnpackString(encoded any) (string, error) {
	taggedString := false
	if arr, ok := encoded.([]any); ok && len(arr) > 0 {
		if tag, isTag := tagOf(arr[0]); isTag && tag == wire.TagString {
			taggedString = true
		}
	}

	decoded, err := u.Unpack(encoded)
	if err != nil {
		return "", err
	}

	if taggedString {
		s, ok := decoded.(string)
		if !ok {
			return "", fmt.Errorf("%w: STRING envelope decoded to %T", ErrTypeCoercion, decoded)
		}
		return s, nil
	}

	text, err := json.Marshal(decoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTypeCoercion, err)
	}
	return string(text), nil
}
