package roll

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Sides is the number of faces on the advancement die.
const Sides = 20

// Die produces uniform draws in [1, Sides].
type Die interface {
	Roll() int
}

// D20 is a seeded twenty-sided die safe for concurrent use.
type D20 struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewD20 returns a die seeded from crypto/rand.
func NewD20() (*D20, error) {
	seed, err := newSeed()
	if err != nil {
		return nil, err
	}
	return SeededD20(seed), nil
}

// SeededD20 returns a deterministic die for replays and tests.
func SeededD20(seed int64) *D20 {
	return &D20{rng: rand.New(rand.NewSource(seed))}
}

// Roll draws one value in [1, 20].
func (d *D20) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(Sides) + 1
}

// Fixed replays a scripted sequence of draws, repeating the last one.
type Fixed struct {
	mu    sync.Mutex
	draws []int
	next  int
}

// NewFixed returns a die that yields draws in order.
func NewFixed(draws ...int) *Fixed {
	return &Fixed{draws: draws}
}

// Roll returns the next scripted draw.
func (f *Fixed) Roll() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.draws) == 0 {
		return 1
	}
	if f.next >= len(f.draws) {
		return f.draws[len(f.draws)-1]
	}
	v := f.draws[f.next]
	f.next++
	return v
}

func newSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
