package game

import (
	"math/rand"
	"sync"
)

// Rand is the randomness source behind exit resolution, coin drops, and the
// presentation shuffle. Tests inject a stub to force individual branches.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// lockedRand serializes access to a *rand.Rand, which is not safe for
// concurrent use. Sessions on different connections share one source.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewLockedRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rng.Shuffle(n, swap)
}
