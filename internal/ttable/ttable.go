// Package ttable implements the engine's transposition table: a
// fixed-capacity, prime-sized hash table keyed by the full 64-bit
// Zobrist hash (not just its folded index), so every probe verifies
// the stored entry actually belongs to the position asked for rather
// than trusting the index alone.
package ttable

import (
	"chessplay/internal/bitutil"
	"chessplay/internal/board"
)

// NodeKind records which kind of bound a stored score represents.
type NodeKind uint8

const (
	Exact NodeKind = iota
	LowerBound
	UpperBound
)

// Entry is one transposition table slot.
type Entry struct {
	Hash  uint64
	Best  board.Move
	Score int16
	Depth int8
	Kind  NodeKind
	Valid bool // distinguishes a stored depth-0 (quiescence) entry from an empty slot
}

// Table is a fixed-capacity transposition table. Capacity is rounded
// down to the nearest prime rather than a power of two: a prime
// modulus spreads Zobrist keys (themselves generated from an
// xorshift64* PRNG) more evenly than a power-of-two mask does,
// avoiding the periodic clustering that a mask can produce against a
// hash with regular low bits.
type Table struct {
	entries []Entry
	probes  uint64
	hits    uint64
}

const bytesPerEntry = 16 // Hash(8) + Best(2) + Score(2) + Depth(1) + Kind(1) + Valid(1), padded to 8-byte alignment

// New creates a table sized to approximately megabytes MB.
func New(megabytes int) *Table {
	if megabytes < 1 {
		megabytes = 1
	}
	requested := uint64(megabytes) * 1024 * 1024 / bytesPerEntry
	size := largestPrimeAtMost(requested)
	return &Table{entries: make([]Entry, size)}
}

// Resize rebuilds the table at a new size, discarding all entries.
func (t *Table) Resize(megabytes int) {
	*t = *New(megabytes)
}

// Clear empties the table without changing its capacity.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.probes = 0
	t.hits = 0
}

func (t *Table) index(hash uint64) uint64 {
	return hash % uint64(len(t.entries))
}

// Prefetch hints that hash's slot will be probed soon. The target
// toolchain has no portable cache-prefetch primitive, so this simply
// forwards to bitutil's no-op hook; the search calls it before each
// recursive negamax call, so that call site does not need to change
// if a real prefetch is ever wired in.
func (t *Table) Prefetch(hash uint64) {
	bitutil.Prefetch(t.index(hash))
}

// Probe looks up hash, verifying the full stored hash (not merely the
// index) before returning a hit.
func (t *Table) Probe(hash uint64) (Entry, bool) {
	t.probes++
	e := t.entries[t.index(hash)]
	if e.Valid && e.Hash == hash {
		t.hits++
		return e, true
	}
	return Entry{}, false
}

// Store writes an entry, always overwriting whatever occupied the
// slot. The table carries no generation/age counter: "replace always"
// is simplest to reason about for a single-worker, non-persistent
// search and costs little since a stale entry is just a wasted probe,
// never a correctness issue (Probe always re-verifies the hash).
func (t *Table) Store(hash uint64, depth int, score int, kind NodeKind, best board.Move) {
	t.entries[t.index(hash)] = Entry{
		Hash:  hash,
		Best:  best,
		Score: int16(score),
		Depth: int8(depth),
		Kind:  kind,
		Valid: true,
	}
}

// HashFull returns the permille of a representative sample of slots
// that are occupied, for UCI-style "hashfull" reporting.
func (t *Table) HashFull() int {
	sample := 1000
	if sample > len(t.entries) {
		sample = len(t.entries)
	}
	if sample == 0 {
		return 0
	}
	used := 0
	for i := 0; i < sample; i++ {
		if t.entries[i].Valid {
			used++
		}
	}
	return used * 1000 / sample
}

// HitRate returns the fraction of probes that found a usable entry.
func (t *Table) HitRate() float64 {
	if t.probes == 0 {
		return 0
	}
	return float64(t.hits) / float64(t.probes)
}

// Len returns the table's entry capacity.
func (t *Table) Len() int {
	return len(t.entries)
}

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// largestPrimeAtMost returns the largest prime <= n, or 2 if none exists below n.
func largestPrimeAtMost(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	for candidate := n; candidate >= 2; candidate-- {
		if isPrime(candidate) {
			return candidate
		}
	}
	return 2
}

// Mate scoring constants shared with the search package.
const (
	MaxDepth  = 128
	MaxPly    = 2 * MaxDepth
	Infinity  = 1<<15 - 1 // SHRT_MAX
	MateScore = Infinity - MaxPly
)

// AdjustScoreToTT converts a mate score counted from the root (as the
// search produces it) into one counted from the node at ply, for
// storage, so the entry stays valid when reached at a different ply.
func AdjustScoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

// AdjustScoreFromTT converts a stored node-relative mate score back
// into one counted from the root, given the ply it is probed at.
func AdjustScoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}
