package calibration

import (
	"context"
	"hash/fnv"
	"math/rand"

	"gokea/ports"
)

// SeededRNG hands out deterministic streams. Each named stream mixes the
// name into the seed so streams sharing a base seed stay independent.
type SeededRNG struct{}

var _ ports.RNGPort = SeededRNG{}

// SeededStream returns a generator for name derived from seed
func (SeededRNG) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64()))), nil
}
