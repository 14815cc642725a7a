// Package dictionary implements the bounded, positionally-evicted index
// allocator shared between a Packer and an Unpacker. Both peers run an
// identical Dictionary so that small integer indices on the wire always
// mean the same token to both sides, without ever exchanging the table
// itself.
//
// Eviction is strictly positional, never LRU: the slot next in line is
// always the one overwritten, regardless of how recently it was used. This
// is what lets two independent peers evolve identical tables with zero
// extra bookkeeping - substituting a recency-based policy would make the
// two sides diverge silently.
package dictionary

// MinIndex is the first assignable dictionary slot. Indices below it (0, 1,
// 2) are reserved wire type tags and are never allocated to a token.
const MinIndex = 3

// DefaultMaxSize is the dictionary size used when a Packer or Unpacker is
// constructed without an explicit size.
const DefaultMaxSize = 2000

// Entry is what a dictionary slot remembers about the token stored there.
type Entry struct {
	// Literal is the canonical string form of the token: a string's
	// content, or a number's/bool's/null's textual form.
	Literal string
	// Object marks an entry produced by whole-object fingerprint
	// memoization (see Dictionary.InsertObject) rather than a plain
	// scalar. Decoders must reconstruct an Object entry by re-parsing
	// Literal as JSON rather than by the scalar reparse rules.
	Object bool
}

// owner records which forward map (and under which key) currently holds a
// slot, so eviction can remove the right entry when the slot is recycled.
type owner struct {
	kind ownerKind
	key  string
}

type ownerKind uint8

const (
	ownerNone ownerKind = iota
	ownerScalar
	ownerObject
)

// Dictionary is the bounded circular table. The zero value is not usable;
// construct one with New.
type Dictionary struct {
	maxSize int
	next    int

	// scalar is the forward map used by a Packer for plain scalar tokens:
	// lookup key (see package jsonm's key-prefixing rule) -> index.
	scalar map[string]int
	// object is the forward map used by a Packer for whole-object
	// fingerprints (small-object memoization refinement).
	object map[string]int
	// reverse is the map every Unpacker maintains, and that a Packer
	// doesn't need but keeps anyway for symmetry and introspection:
	// index -> Entry.
	reverse map[int]Entry

	owners map[int]owner
}

// New creates a Dictionary bounded to maxSize live slots. maxSize must be
// at least 1; a non-positive value falls back to DefaultMaxSize.
func New(maxSize int) *Dictionary {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	d := &Dictionary{}
	d.reset(maxSize)
	return d
}

// Reset rewinds the allocation pointer to MinIndex. This does not
// clear the reverse table - slots are overwritten positionally as encoding
// or decoding proceeds, exactly like ordinary eviction. This is what an
// Unpacker does on receiving a sequence id of 0.
func (d *Dictionary) Reset() {
	d.next = MinIndex
}

// Clear rewinds the allocation pointer and discards every live entry. This
// is what a Packer does on an explicit Reset call: unlike
// the Unpacker's implicit resync, the side initiating a reset has no
// further use for its old forward-lookup state.
func (d *Dictionary) Clear() {
	d.reset(d.maxSize)
}

// reset is used both by New and by SetMaxSize, which additionally need to
// allocate the maps.
func (d *Dictionary) reset(maxSize int) {
	d.maxSize = maxSize
	d.next = MinIndex
	d.scalar = make(map[string]int)
	d.object = make(map[string]int)
	d.reverse = make(map[int]Entry)
	d.owners = make(map[int]owner)
}

// SetMaxSize changes the bound on live slots. Packer and Unpacker must
// agree on this value out of band; this only takes effect for future
// insertions and clears all current state, since a differently sized
// window makes old indices meaningless to a peer using the new bound.
func (d *Dictionary) SetMaxSize(maxSize int) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	d.reset(maxSize)
}

// MaxSize reports the current bound.
func (d *Dictionary) MaxSize() int {
	return d.maxSize
}

// LookupScalar returns the index previously assigned to key, if any. key is
// the jsonm package's dictionary key for a scalar token (built in its
// packValue), not the raw literal.
func (d *Dictionary) LookupScalar(key string) (int, bool) {
	idx, ok := d.scalar[key]
	return idx, ok
}

// LookupObject returns the index previously assigned to an object
// fingerprint, if any.
func (d *Dictionary) LookupObject(fingerprint string) (int, bool) {
	idx, ok := d.object[fingerprint]
	return idx, ok
}

// LookupLiteral returns the entry stored at index, for decode-side
// backreference resolution.
func (d *Dictionary) LookupLiteral(index int) (Entry, bool) {
	e, ok := d.reverse[index]
	return e, ok
}

// InsertScalar assigns the next slot to (key, literal) and returns that
// index, evicting whatever previously lived there. key is the forward
// lookup key; literal is what a decoder should reparse.
func (d *Dictionary) InsertScalar(key, literal string) int {
	idx := d.allocate()
	d.scalar[key] = idx
	d.owners[idx] = owner{kind: ownerScalar, key: key}
	d.reverse[idx] = Entry{Literal: literal}
	return idx
}

// InsertObject assigns the next slot to a whole-object fingerprint,
// consuming one position the same way InsertScalar does. literal is the
// canonical JSON text of the object, used to reconstruct it on a decode-side
// backreference hit.
func (d *Dictionary) InsertObject(fingerprint, literal string) int {
	idx := d.allocate()
	d.object[fingerprint] = idx
	d.owners[idx] = owner{kind: ownerObject, key: fingerprint}
	d.reverse[idx] = Entry{Literal: literal, Object: true}
	return idx
}

// InsertDecoded installs a value a decoder has just seen for the first
// time at the current slot, advancing the pointer the same way an encoder's
// insertion would. isObject marks a slot consumed by the decode-side mirror
// of small-object memoization (see package jsonm's unpackObjectPayload).
func (d *Dictionary) InsertDecoded(literal string, isObject bool) int {
	idx := d.allocate()
	d.reverse[idx] = Entry{Literal: literal, Object: isObject}
	d.owners[idx] = owner{kind: ownerNone}
	return idx
}

// allocate returns the current slot pointer, evicts its previous occupant
// from whichever forward map owns it, and advances the pointer, wrapping
// from MinIndex+maxSize back to MinIndex.
func (d *Dictionary) allocate() int {
	idx := d.next

	if prev, ok := d.owners[idx]; ok {
		switch prev.kind {
		case ownerScalar:
			delete(d.scalar, prev.key)
		case ownerObject:
			delete(d.object, prev.key)
		}
	}
	delete(d.owners, idx)
	delete(d.reverse, idx)

	d.next++
	if d.next >= MinIndex+d.maxSize {
		d.next = MinIndex
	}
	return idx
}
