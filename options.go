package jsonm

// PackOptions configures a single Pack call.
type PackOptions struct {
	// PackStringDepth controls how many levels of nested string-valued
	// fields are opened for line-splitting (see Packer.PackString). -1
	// (the default) disables it entirely; 0 or greater enables it for
	// that many levels of array/object descent.
	PackStringDepth int

	// NoSequenceID, when true, omits the envelope and sequence id. This
	// is for internal recursive use and for callers embedding jsonm
	// inside a larger message envelope of their own.
	NoSequenceID bool
}

// DefaultPackOptions returns the options used when a caller passes nil to
// Pack: string-depth packing disabled, sequence ids included. This differs
// from the zero PackOptions value, whose PackStringDepth of 0 enables it.
func DefaultPackOptions() PackOptions {
	return PackOptions{PackStringDepth: -1}
}
