package testutil

import (
	"fmt"
	"sync"
)

// DefaultIDPrefix is the prefix of SequenceIDs created with an empty prefix.
const DefaultIDPrefix = "$s/"

// SequenceIDs provides thread-safe, resettable correlation ids for tests.
//
// Unlike criteria.Counter, SequenceIDs can be reset for test reuse.
// This enables the same scenario to run multiple times with identical ids.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequenceIDs creates a generator starting at 0.
//
// The first call to NextID() returns prefix + "1".
func NewSequenceIDs(prefix string) *SequenceIDs {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return &SequenceIDs{prefix: prefix}
}

// NextID increments the sequence and returns the next id.
//
// Implements criteria.IDGenerator.
func (s *SequenceIDs) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("%s%d", s.prefix, s.seq)
}

// Current returns the last issued sequence number without incrementing.
func (s *SequenceIDs) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset resets the sequence to 0.
//
// After Reset(), the next call to NextID() returns prefix + "1" again.
func (s *SequenceIDs) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}
