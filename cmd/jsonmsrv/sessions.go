package main

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/seiflotfy/jsonm"
)

// session owns one independent Packer/Unpacker pair. Distinct sessions
// never share dictionary state, so bounding how many are held concurrently
// is purely a resource question, unrelated to the dictionary's own
// (positional, non-LRU) eviction policy.
type session struct {
	id       string
	packer   *jsonm.Packer
	unpacker *jsonm.Unpacker
}

// sessionStore bounds the number of live sessions a long-running jsonmsrv
// process keeps in memory, evicting the least recently used one once the
// bound is hit.
type sessionStore struct {
	cache       *lru.Cache[string, *session]
	maxDictSize int
}

func newSessionStore(capacity, maxDictSize int) (*sessionStore, error) {
	s := &sessionStore{maxDictSize: maxDictSize}

	onEvict := func(id string, _ *session) {
		// Nothing to release beyond the Go garbage collector's reach - a
		// session holds no file descriptors or goroutines - but the hook
		// is where a real deployment would log the eviction or flush
		// session metrics.
		_ = id
	}

	cache, err := lru.NewWithEvict[string, *session](capacity, onEvict)
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

// get returns the session for id, creating a fresh Packer/Unpacker pair on
// first use.
func (s *sessionStore) get(id string) *session {
	if sess, ok := s.cache.Get(id); ok {
		return sess
	}
	sess := &session{
		id:       id,
		packer:   jsonm.NewPackerSize(s.maxDictSize),
		unpacker: jsonm.NewUnpackerSize(s.maxDictSize),
	}
	s.cache.Add(id, sess)
	return sess
}
