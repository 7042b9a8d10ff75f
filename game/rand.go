package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Rand is the random source used for every draw. *math/rand.Rand satisfies
// it; tests pass a fixed sequence.
type Rand interface {
	Intn(n int) int
}

// NewSeed returns a high-entropy seed for a new game's random source.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRand returns a seeded source. It is not safe for concurrent use; each
// room owns one and only touches it under the room lock.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
