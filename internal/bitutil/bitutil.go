// Package bitutil collects small bit-twiddling primitives, wrapping
// math/bits so call sites read in chess terms (LSB/MSB/PopCount)
// rather than bits.* names. Of these, only Prefetch is currently
// called (by the ttable package); board, eval and search use the
// board.Bitboard methods instead.
package bitutil

import "math/bits"

// PopCount returns the number of set bits.
func PopCount(b uint64) int {
	return bits.OnesCount64(b)
}

// LSB returns the index of the least significant set bit, or 64 if b is zero.
func LSB(b uint64) int {
	return bits.TrailingZeros64(b)
}

// MSB returns the index of the most significant set bit, or -1 if b is zero.
func MSB(b uint64) int {
	if b == 0 {
		return -1
	}
	return 63 - bits.LeadingZeros64(b)
}

// PopLSB clears and returns the index of the least significant set bit.
func PopLSB(b *uint64) int {
	i := LSB(*b)
	*b &= *b - 1
	return i
}

// Prefetch is a no-op hook for transposition-table probes. The target
// toolchain exposes no portable cache-prefetch intrinsic, so this
// exists only so call sites read the same regardless of platform.
func Prefetch(_ uint64) {}
