// Package wire holds the small, stateless leaf rules of the on-wire format:
// the reserved type tags and the regexes that decide whether a string looks
// like a number (and must therefore be escaped or reparsed specially).
//
// Keeping these out of the packer/unpacker files means the control flow
// there stays about walking the value tree, not about regex bookkeeping.
package wire

import "regexp"

// Reserved tag values. They occupy the dictionary's otherwise-unused low
// indices (0, 1, 2); a real backreference index is always >= dictionary.MinIndex,
// so a bare 0, 1 or 2 in a tag position can never be confused with one.
const (
	TagArray  = 0
	TagValue  = 1
	TagString = 2
)

// MaxComplexObjectSize is the largest encoded object payload (key count *
// 2) eligible for whole-object fingerprint memoization.
const MaxComplexObjectSize = 12

// NeedsTildeEscape reports whether lit must be emitted with a leading tilde
// to survive a round trip as a string. This is deliberately the exact
// negation of "the decoder would leave it alone": a literal escapes if a
// decoder's LooksLikeInt or LooksLikeFloat check would otherwise fire on
// it (both allow a leading '-', so "-1" escapes even though a naive
// digit-or-dot-only check would miss it), or if it already starts with the
// escape character itself.
func NeedsTildeEscape(lit string) bool {
	if len(lit) > 0 && lit[0] == '~' {
		return true
	}
	return LooksLikeInt(lit) || LooksLikeFloat(lit)
}

// looksLikeFloat matches the reference decoder's float-detection rule:
// an optional sign, optional leading digits, then a required decimal point.
var looksLikeFloat = regexp.MustCompile(`^-?[0-9]*\.`)

// LooksLikeFloat reports whether s should be attempted as a float literal
// during decode, before falling back to the integer or string rules.
func LooksLikeFloat(s string) bool {
	return looksLikeFloat.MatchString(s)
}

// looksLikeInt matches the reference decoder's integer-detection rule: an
// optional sign followed by at least one digit.
var looksLikeInt = regexp.MustCompile(`^-?[0-9]+`)

// LooksLikeInt reports whether s should be attempted as an integer literal
// during decode.
func LooksLikeInt(s string) bool {
	return looksLikeInt.MatchString(s)
}
