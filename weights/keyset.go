package weights

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// keySet is a set of raw byte strings. Entries are bucketed by their xxHash64
// and compared byte-wise within a bucket.
type keySet struct {
	buckets map[uint64][][]byte
	size    int
}

func newKeySet() *keySet {
	return &keySet{buckets: make(map[uint64][][]byte)}
}

func (s *keySet) Contains(key []byte) bool {
	for _, k := range s.buckets[xxhash.Sum64(key)] {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}

// Insert adds a copy of key and reports whether it was absent.
func (s *keySet) Insert(key []byte) bool {
	h := xxhash.Sum64(key)
	for _, k := range s.buckets[h] {
		if bytes.Equal(k, key) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], bytes.Clone(key))
	s.size++
	return true
}

func (s *keySet) Len() int {
	return s.size
}
