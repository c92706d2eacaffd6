package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator generates predictable snapshot ids for tests.
//
// The same sequence of calls produces the same ids, which keeps golden output
// and store assertions reproducible. Ids look like "snap-00000001".
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceIDGenerator creates a generator. An empty prefix uses "snap".
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	if prefix == "" {
		prefix = "snap"
	}
	return &SequenceIDGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%08d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *SequenceIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
