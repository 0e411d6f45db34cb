package ecs

import (
	"hash"

	"github.com/pierrec/xxHash/xxHash32"
)

// hashBytes computes the seed-0 XXH32 digest of data. Archetype and
// query identity both depend on this being bit-exact, so it is backed
// by a real implementation of the algorithm rather than anything
// hand-rolled.
func hashBytes(data []byte) uint32 {
	return xxHash32.Checksum(data, 0)
}

// newHasher starts an incremental XXH32 digest (seed 0), for hashing
// several fields in a fixed order without building an intermediate
// byte slice.
func newHasher() hash.Hash32 {
	return xxHash32.New(0)
}
