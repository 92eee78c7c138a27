// Package randutil centralises how RNGs are derived from seeds so that
// every call site gets reproducible shuffle sequences for the same
// seed.
package randutil

import (
	"math/rand"
	"time"
)

// New returns a *rand.Rand seeded deterministically from the provided
// int64. The seed is mixed (SplitMix64 finalizer) so that nearby seeds
// still produce unrelated streams.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(uint64(seed)))))
}

// NewTimeSeeded returns a *rand.Rand seeded from the current time, for
// callers that don't need reproducibility.
func NewTimeSeeded() *rand.Rand {
	return New(time.Now().UnixNano())
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
