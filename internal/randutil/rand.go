package randutil

import (
	rand "math/rand/v2"
	"sync"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG
// words are derived from it so equal seeds give equal sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Locked is a seeded generator safe for concurrent use.
type Locked struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// NewLocked returns a concurrency-safe generator seeded like New.
func NewLocked(seed int64) *Locked {
	return &Locked{rng: New(seed), seed: seed}
}

// Float64 returns a uniform draw in [0, 1).
func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

// Seed returns the seed the generator was created with.
func (l *Locked) Seed() int64 {
	return l.seed
}

// Seed returns *flag when set, otherwise a seed derived from the clock.
func Seed(flag *int64) int64 {
	if flag != nil {
		return *flag
	}
	return time.Now().UnixNano()
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
