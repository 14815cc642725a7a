package jsonm

import (
	"reflect"
	"testing"
)

// ============================================================================
// Helper Functions
// ============================================================================

func mustPack(t *testing.T, p *Packer, v any) any {
	t.Helper()
	out, err := p.Pack(v, nil)
	if err != nil {
		t.Fatalf("Pack(%#v): %v", v, err)
	}
	return out
}

func mustUnpack(t *testing.T, u *Unpacker, v any) any {
	t.Helper()
	out, err := u.Unpack(v)
	if err != nil {
		t.Fatalf("Unpack(%#v): %v", v, err)
	}
	return out
}

// ============================================================================
// Concrete Wire Scenarios
// ============================================================================

func TestPackSingleKeyObject(t *testing.T) {
	p := NewPacker()
	got := mustPack(t, p, map[string]any{"foo": 1})
	want := []any{"foo", "1", int64(0)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	u := NewUnpacker()
	back := mustUnpack(t, u, got)
	if !reflect.DeepEqual(back, map[string]any{"foo": int64(1)}) {
		t.Fatalf("round trip: got %#v", back)
	}
}

func TestPackNumericArray(t *testing.T) {
	p := NewPacker()
	got := mustPack(t, p, []any{0, 1, 2})
	want := []any{0, "0", "1", "2", int64(0)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	u := NewUnpacker()
	back := mustUnpack(t, u, got)
	if !reflect.DeepEqual(back, []any{int64(0), int64(1), int64(2)}) {
		t.Fatalf("round trip: got %#v", back)
	}
}

func TestPackBareFloat(t *testing.T) {
	p := NewPacker()
	got := mustPack(t, p, 1.5)
	want := []any{1, "1.5", int64(0)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	u := NewUnpacker()
	back := mustUnpack(t, u, got)
	if back != 1.5 {
		t.Fatalf("round trip: got %#v", back)
	}
}

func TestPackBareBool(t *testing.T) {
	p := NewPacker()
	got := mustPack(t, p, true)
	want := []any{1, true, int64(0)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	u := NewUnpacker()
	back := mustUnpack(t, u, got)
	if back != true {
		t.Fatalf("round trip: got %#v", back)
	}
}

func TestPackTildeEscapedString(t *testing.T) {
	p := NewPacker()
	got := mustPack(t, p, "~1")
	want := []any{1, "~~1", int64(0)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	u := NewUnpacker()
	back := mustUnpack(t, u, got)
	if back != "~1" {
		t.Fatalf("round trip: got %#v, want %q", back, "~1")
	}
}

func TestPackRepeatedObjectCollapsesOnThirdOccurrence(t *testing.T) {
	p := NewPacker()
	obj := map[string]any{"bar": 1, "foo": 2}

	first := mustPack(t, p, obj)
	wantFirst := []any{"bar", "foo", "1", "2", int64(0)}
	if !reflect.DeepEqual(first, wantFirst) {
		t.Fatalf("first: got %#v, want %#v", first, wantFirst)
	}

	second := mustPack(t, p, obj)
	wantSecond := []any{3, 4, 5, 6, int64(1)}
	if !reflect.DeepEqual(second, wantSecond) {
		t.Fatalf("second: got %#v, want %#v", second, wantSecond)
	}

	third := mustPack(t, p, obj)
	wantThird := []any{1, 7, int64(2)}
	if !reflect.DeepEqual(third, wantThird) {
		t.Fatalf("third: got %#v, want %#v", third, wantThird)
	}

	u := NewUnpacker()
	for i, msg := range []any{first, second, third} {
		back := mustUnpack(t, u, msg)
		want := map[string]any{"bar": int64(1), "foo": int64(2)}
		if i == 2 {
			// Reconstructed from the collapsed fingerprint entry; numbers
			// come back through encoding/json's generic float64 path
			// rather than the scalar reparse rules.
			want = map[string]any{"bar": float64(1), "foo": float64(2)}
		}
		if !reflect.DeepEqual(back, want) {
			t.Fatalf("message %d: got %#v, want %#v", i, back, want)
		}
	}
}

func TestDictionaryEvictionReusesSlotsWithinBound(t *testing.T) {
	p := NewPackerSize(6)

	first := mustPack(t, p, []any{1, 2, 3, 4})
	wantFirst := []any{0, "1", "2", "3", "4", int64(0)}
	if !reflect.DeepEqual(first, wantFirst) {
		t.Fatalf("first: got %#v, want %#v", first, wantFirst)
	}

	second := mustPack(t, p, []any{7, 8, 1, 2})
	wantSecond := []any{0, "7", "8", 3, 4, int64(1)}
	if !reflect.DeepEqual(second, wantSecond) {
		t.Fatalf("second: got %#v, want %#v", second, wantSecond)
	}

	u := NewUnpackerSize(6)
	mustUnpack(t, u, first)
	back := mustUnpack(t, u, second)
	want := []any{int64(7), int64(8), int64(1), int64(2)}
	if !reflect.DeepEqual(back, want) {
		t.Fatalf("round trip: got %#v, want %#v", back, want)
	}
}

func TestResetAnnouncesViaSequenceZero(t *testing.T) {
	p := NewPacker()
	u := NewUnpacker()

	mustUnpack(t, u, mustPack(t, p, 1))
	mustUnpack(t, u, mustPack(t, p, 2))

	p.Reset()
	msg := mustPack(t, p, 3)
	arr := msg.([]any)
	if got := arr[len(arr)-1]; got != int64(0) {
		t.Fatalf("sequence id after reset: got %v, want 0", got)
	}

	back := mustUnpack(t, u, msg)
	if back != int64(3) {
		t.Fatalf("got %#v, want int64(3)", back)
	}
}

func TestUnpackRejectsOutOfSequenceMessage(t *testing.T) {
	p := NewPacker()
	u := NewUnpacker()

	mustUnpack(t, u, mustPack(t, p, "a"))
	_, second := p.Pack("b", nil)
	_ = second
	skipped := mustPack(t, p, "c")

	if _, err := u.Unpack(skipped); err == nil {
		t.Fatal("expected an out-of-sequence error, got nil")
	}
}

func TestUnpackNilPassesThrough(t *testing.T) {
	u := NewUnpacker()
	got, err := u.Unpack(nil)
	if err != nil {
		t.Fatalf("Unpack(nil): %v", err)
	}
	if got != nil {
		t.Fatalf("got %#v, want nil", got)
	}
}

// ============================================================================
// Escape Correctness
// ============================================================================

func TestNumberShapedStringsRoundTripAsStrings(t *testing.T) {
	cases := []string{"1", ".1", "-1", "~", "~1", "~~1"}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			p := NewPacker()
			u := NewUnpacker()
			back := mustUnpack(t, u, mustPack(t, p, s))
			if back != s {
				t.Fatalf("got %#v, want %q", back, s)
			}
		})
	}
}

// ============================================================================
// Round-Trip Property
// ============================================================================

func TestRoundTripPreservesStructure(t *testing.T) {
	values := []any{
		nil,
		true,
		false,
		0,
		-42,
		3.14159,
		"plain string",
		[]any{1, "two", 3.0, nil, true},
		map[string]any{"a": 1, "b": []any{"x", "y"}, "c": map[string]any{"nested": true}},
	}

	p := NewPacker()
	u := NewUnpacker()
	for i, v := range values {
		encoded := mustPack(t, p, v)
		decoded := mustUnpack(t, u, encoded)
		if !looseEqual(v, decoded) {
			t.Fatalf("value %d: round trip mismatch: sent %#v, got %#v", i, v, decoded)
		}
	}
}

// looseEqual compares JSON-ish values allowing the usual int/int64/float64
// slippage a reparse introduces; it does not allow structural drift.
func looseEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		return numericEqual(float64(av), b)
	case int64:
		return numericEqual(float64(av), b)
	case float64:
		return numericEqual(av, b)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !looseEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			if !looseEqual(v, bv[k]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func numericEqual(a float64, b any) bool {
	switch bv := b.(type) {
	case int:
		return a == float64(bv)
	case int64:
		return a == float64(bv)
	case float64:
		return a == bv
	default:
		return false
	}
}

// ============================================================================
// Fuzzing
// ============================================================================

func FuzzPackUnpackString(f *testing.F) {
	for _, seed := range []string{"", "1", "-1", ".5", "~", "hello", "~~escaped", "line1\nline2"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		p := NewPacker()
		u := NewUnpacker()
		encoded, err := p.Pack(s, nil)
		if err != nil {
			t.Fatalf("Pack: %v", err)
		}
		decoded, err := u.Unpack(encoded)
		if err != nil {
			t.Fatalf("Unpack: %v", err)
		}
		if decoded != s {
			t.Fatalf("round trip: sent %q, got %#v", s, decoded)
		}
	})
}
