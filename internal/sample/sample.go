// Package sample draws reproducible, uniformly-distributed sample indices
// — manifest entries for the backup engine's post-copy verification, LBAs
// for the wipe executor's post-wipe verification — from a seeded NIST
// SP 800-90A Hash-DRBG, the same auditable-randomness construction
// secboot uses via canonical/go-sp800.90a-drbg for key-sealing nonces.
// The seed is always recorded by the caller into certificate evidence, per
// spec §4.G's "seeded PRNG whose seed is recorded... enabling reproducible
// audit".
package sample

import (
	"crypto"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	drbg "github.com/canonical/go-sp800.90a-drbg"

	"github.com/canonical/securewipe/internal/wipeerr"
)

// Drawer produces a reproducible sequence of indices in [0, n) without
// repetition, backed by a seeded Hash-DRBG.
type Drawer struct {
	seed []byte
	d    *drbg.HashDRBG
}

// NewDrawer creates a Drawer seeded from crypto/rand. The seed is exposed
// via Seed() so the caller can embed it in certificate evidence.
func NewDrawer() (*Drawer, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, wipeerr.Wrap(wipeerr.Internal, "generate sample seed", err)
	}
	return NewDrawerFromSeed(seed)
}

// NewDrawerFromSeed creates a Drawer from an explicit seed, used by tests
// and by audit replay to reproduce a prior sampling run exactly.
func NewDrawerFromSeed(seed []byte) (*Drawer, error) {
	d, err := drbg.NewHashDRBG(crypto.SHA256, seed, nil, nil)
	if err != nil {
		return nil, wipeerr.Wrap(wipeerr.Internal, "initialize sample DRBG", err)
	}
	return &Drawer{seed: seed, d: d}, nil
}

// Seed returns the hex-encoded seed used to initialize the drawer, for
// embedding in certificate evidence (spec §4.G).
func (s *Drawer) Seed() string { return hex.EncodeToString(s.seed) }

// Draw returns count distinct indices uniformly drawn from [0, n), in draw
// order. If count >= n, it returns all of [0, n) (spec §4.E step 5: "if
// fewer files exist, all").
func (s *Drawer) Draw(n, count int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}
	if count >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}

	seen := make(map[int]bool, count)
	out := make([]int, 0, count)
	for len(out) < count {
		idx, err := s.uniform(n)
		if err != nil {
			return nil, err
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out, nil
}

// uniform draws one index in [0, n) using rejection sampling over 8 bytes
// of DRBG output, avoiding modulo bias.
func (s *Drawer) uniform(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("sample: n must be positive")
	}
	limit := (^uint64(0) / uint64(n)) * uint64(n)
	for {
		buf := make([]byte, 8)
		if err := s.d.Generate(buf, nil); err != nil {
			return 0, wipeerr.Wrap(wipeerr.Internal, "draw sample bytes", err)
		}
		v := binary.BigEndian.Uint64(buf)
		if v < limit {
			return int(v % uint64(n)), nil
		}
	}
}
