// Package ids generates identifiers for atoms, bonds and history entries.
package ids

import (
	"io"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator produces unique string identifiers.
type Generator interface {
	New() string
}

// ULIDGenerator produces monotonic ULIDs. Safe for concurrent use.
type ULIDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

// NewGenerator returns a ULID generator seeded from the wall clock.
func NewGenerator() *ULIDGenerator {
	return &ULIDGenerator{
		now:     time.Now,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// NewDeterministic returns a ULID generator with a fixed seed and a clock
// that starts at start and advances one millisecond per id.
func NewDeterministic(seed int64, start time.Time) *ULIDGenerator {
	t := start
	return &ULIDGenerator{
		now: func() time.Time {
			cur := t
			t = t.Add(time.Millisecond)
			return cur
		},
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}
}

// New returns the next ULID as a string.
func (g *ULIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}

// Sequence is a counter-backed generator producing prefix-1, prefix-2, ...
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence returns a counter generator with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.prefix + "-" + strconv.Itoa(s.n)
}
