package jsonm

import (
	"fmt"

	"github.com/seiflotfy/jsonm/internal/dictionary"
)

// Unpacker is the decoder half of the codec, symmetric in dictionary
// mechanics to Packer. Like Packer, it is not safe for concurrent use.
type Unpacker struct {
	dict *dictionary.Dictionary
	seq  int64
}

// NewUnpacker creates an Unpacker with the default dictionary size
// (dictionary.DefaultMaxSize). It must match the size of the Packer whose
// output it will consume.
func NewUnpacker() *Unpacker {
	return NewUnpackerSize(dictionary.DefaultMaxSize)
}

// NewUnpackerSize creates an Unpacker bounded to maxDictSize live
// dictionary slots.
func NewUnpackerSize(maxDictSize int) *Unpacker {
	return &Unpacker{
		dict: dictionary.New(maxDictSize),
		seq:  -1,
	}
}

// SetMaxDictSize changes the dictionary bound. Must match the paired
// Packer's bound.
func (u *Unpacker) SetMaxDictSize(n int) {
	u.dict.SetMaxSize(n)
}

// Unpack decodes an encoded value, enforcing
// sequence order and advancing the dictionary. Null input returns null
// without mutating any state. A failure midway leaves the sequence counter
// not advanced, and the dictionary is left in whatever partial state
// decoding reached - callers that hit an error mid-message should discard
// the Unpacker and start a fresh session rather than try to recover it.
func (u *Unpacker) Unpack(encoded any) (any, error) {
	if encoded == nil {
		return nil, nil
	}

	arr, ok := encoded.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value must be null or an array", ErrMalformed)
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("%w: message is missing a sequence id", ErrMalformed)
	}

	declared, ok := asIndex(arr[len(arr)-1])
	if !ok {
		return nil, fmt.Errorf("%w: final element is not a sequence id", ErrMalformed)
	}

	if declared == 0 {
		u.dict.Reset()
	} else if int64(declared) != u.seq+1 {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrOutOfSequence, declared, u.seq+1)
	}

	body := arr[:len(arr)-1]
	decoded, err := unpackComposite(u.dict, body)
	if err != nil {
		return nil, err
	}

	u.seq = int64(declared)
	return decoded, nil
}
