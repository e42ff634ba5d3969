package random

import (
	"sync"
	"time"

	"github.com/valyala/fastrand"
)

// Source is the randomness consumed by shuffles and card draws.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). n must be > 0.
	IntN(n int) int
}

// RNG is a goroutine-safe Source backed by fastrand.
type RNG struct {
	mu  sync.Mutex
	rng fastrand.RNG
}

var _ Source = (*RNG)(nil)

// New returns a generator seeded with seed. A zero seed picks one from the clock.
func New(seed uint32) *RNG {
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}
	r := &RNG{}
	r.rng.Seed(seed)
	return r
}

func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(r.rng.Uint32()) / (1 << 32)
}

func (r *RNG) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.rng.Uint32n(uint32(n)))
}

// Shuffle permutes n elements in place with Fisher-Yates.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		swap(i, j)
	}
}
