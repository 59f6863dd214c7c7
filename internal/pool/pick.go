package pool

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInsufficientPool indicates that more characters were requested than the
// pool holds while sampling without replacement.
var ErrInsufficientPool = errors.New("pick count exceeds pool size")

// PickRequest describes one act of selecting characters from a pool.
type PickRequest struct {
	// Count is the number of characters to draw. Zero means the whole pool
	// in pool order, consuming no entropy.
	Count int
	// Seed makes draws reproducible when >= 0: identical (pool, count, seed)
	// always yields the identical sequence. Negative means draw fresh
	// entropy from the OS.
	Seed int64
	// WithReplacement allows duplicate draws and lifts the Count <= pool
	// size restriction.
	WithReplacement bool
}

// Pick draws characters from the pool per the request. Draws are sequenced
// through a single generator owned by this call, so a seeded pick stays
// deterministic no matter how the rendering stages downstream are
// parallelized. Returns [ErrInsufficientPool] when Count exceeds the pool
// size and replacement is disallowed.
func (p Pool) Pick(req PickRequest) ([]rune, error) {
	if req.Count < 0 {
		return nil, fmt.Errorf("negative pick count %d", req.Count)
	}
	if req.Count == 0 {
		out := make([]rune, len(p))
		copy(out, p)
		return out, nil
	}
	if !req.WithReplacement && req.Count > len(p) {
		return nil, fmt.Errorf("%w: want %d from %d (enable replacement to allow duplicates)",
			ErrInsufficientPool, req.Count, len(p))
	}

	rng := newGenerator(req.Seed)
	out := make([]rune, 0, req.Count)
	if req.WithReplacement {
		for range req.Count {
			out = append(out, p[rng.IntN(len(p))])
		}
		return out, nil
	}
	for _, idx := range rng.Perm(len(p))[:req.Count] {
		out = append(out, p[idx])
	}
	return out, nil
}

// newGenerator returns the reference generator: PCG seeded with (seed, seed)
// when seed >= 0, otherwise seeded from crypto/rand.
func newGenerator(seed int64) *rand.Rand {
	if seed >= 0 {
		return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms; if it somehow
		// does, an arbitrary fixed fallback still produces a valid pick.
		return rand.New(rand.NewPCG(0x9E3779B97F4A7C15, 0xD1B54A32D192ED03))
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:]),
	))
}
