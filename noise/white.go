// Package noise provides the signal sources of the pipeline: a deterministic
// white-noise generator and the shaped brown-noise Streamer built from it.
package noise

import "github.com/electronjoe/brownstream"

// fallbackSeed replaces a zero seed, which would lock an xorshift sequence
// at zero forever.
const fallbackSeed = 0x9e3779b97f4a7c15

// Source is a white-noise generator based on the xorshift64* sequence. Each
// call advances the state once and runs in constant time with no branches on
// the value, so it is safe on the real-time fill path. The sequence period is
// 2^64-1 samples, far beyond any session length.
//
// A Source is seeded exactly once, at construction. It is not safe for
// concurrent use; the pipeline owns exactly one.
type Source struct {
	state uint64
}

// NewSource returns a Source seeded with seed. A zero seed is replaced by a
// fixed nonzero constant. Equal seeds yield identical sample sequences.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		seed = fallbackSeed
	}
	return &Source{state: seed}
}

// Next returns the next white-noise sample, uniformly distributed in [-1, 1).
func (s *Source) Next() float64 {
	s.state ^= s.state >> 12
	s.state ^= s.state << 25
	s.state ^= s.state >> 27
	u := s.state * 0x2545f4914f6cdd1d
	// Top 53 bits give a uniform float64 in [0, 1).
	return float64(u>>11)/(1<<53)*2 - 1
}

// White returns an endless Streamer of unfiltered white noise. Both channels
// carry the same signal, one draw per sample frame.
func White(seed uint64) brownstream.Streamer {
	src := NewSource(seed)
	return brownstream.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			v := src.Next()
			samples[i][0] = v
			samples[i][1] = v
		}
		return len(samples), true
	})
}
