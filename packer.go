// Package jsonm implements a paired encoder/decoder (Packer/Unpacker) that
// compresses tree-shaped JSON values by memoizing previously emitted
// scalars in a bounded, sender-and-receiver-synchronized dictionary
// addressed by small integer indices. See SPEC_FULL.md for the protocol
// this package implements.
package jsonm

import (
	"github.com/seiflotfy/jsonm/internal/dictionary"
	"github.com/seiflotfy/jsonm/internal/wire"
)

// Packer is the encoder half of the codec. It is not safe for concurrent
// use: every call mutates the dictionary and the sequence counter, and the
// wire protocol defines a total order over a given Packer's output.
type Packer struct {
	dict *dictionary.Dictionary
	seq  int64
}

// NewPacker creates a Packer with the default dictionary size
// (dictionary.DefaultMaxSize).
func NewPacker() *Packer {
	return NewPackerSize(dictionary.DefaultMaxSize)
}

// NewPackerSize creates a Packer bounded to maxDictSize live dictionary
// slots. The paired Unpacker must be constructed with the same size.
func NewPackerSize(maxDictSize int) *Packer {
	return &Packer{
		dict: dictionary.New(maxDictSize),
		seq:  -1,
	}
}

// Pack encodes v (a null, bool, number, string, array, or string-keyed
// object) into its on-wire form. A nil PackOptions is equivalent to
// DefaultPackOptions.
func (p *Packer) Pack(v any, opts *PackOptions) (any, error) {
	o := DefaultPackOptions()
	if opts != nil {
		o = *opts
	}
	return p.packWithOptions(v, o)
}

// packWithOptions encodes the value, then
// either return it unchanged (no_sequence_id) or append/wrap it with the
// next sequence id.
func (p *Packer) packWithOptions(v any, opts PackOptions) (any, error) {
	encoded, err := packComposite(p.dict, v, opts.PackStringDepth)
	if err != nil {
		return nil, err
	}
	if opts.NoSequenceID {
		return encoded, nil
	}

	p.seq++
	if arr, ok := encoded.([]any); ok {
		return append(arr, p.seq), nil
	}
	return []any{wire.TagValue, encoded, p.seq}, nil
}

// SetMaxDictSize changes the dictionary bound. The paired Unpacker must be
// updated to the same value, or the two sides will diverge silently.
func (p *Packer) SetMaxDictSize(n int) {
	p.dict.SetMaxSize(n)
}

// Reset clears the dictionary and rewinds the sequence counter. The next
// packed message, bearing sequence id 0, is the implicit signal an
// Unpacker uses to resynchronize - reset is never announced out of band.
func (p *Packer) Reset() {
	p.dict.Clear()
	p.seq = -1
}
