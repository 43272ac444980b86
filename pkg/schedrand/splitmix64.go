// Package schedrand provides the single deterministic pseudo-random generator shared
// by the vacation allocator and the rebalancer. Per the determinism contract, the
// algorithm is a documented splitmix64: a 64-bit state advanced by a fixed additive
// constant, output-mixed by the standard splitmix64 finalizer. No other source of
// randomness (math/rand, time-seeded or otherwise) is used anywhere in the scheduler.
package schedrand

const goldenGamma = 0x9E3779B97F4A7C15

// Source is a splitmix64 generator. The zero value is not usable; use New.
type Source struct {
	state uint64
}

// New creates a Source seeded with the given 64-bit seed.
func New(seed uint64) *Source {
	return &Source{state: seed}
}

// NewAttempt seeds a Source for the given base seed and attempt/pass index:
// seed = base XOR index.
func NewAttempt(base uint64, index int) *Source {
	return New(base ^ uint64(index))
}

// Next returns the next raw 64-bit output.
func (s *Source) Next() uint64 {
	s.state += goldenGamma
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Intn returns a uniform pseudo-random integer in [0, n). Panics if n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("schedrand: Intn called with n <= 0")
	}
	return int(s.Next() % uint64(n))
}

// Shuffle permutes data in place using the Fisher-Yates algorithm, swap reorders
// elements i and j.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		swap(i, j)
	}
}
