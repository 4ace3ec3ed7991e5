package cache

import (
	"encoding/binary"
	"sort"

	roaring "github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
)

// fingerprintBufCap bounds the thread-local buffer used to build a
// fingerprint without allocating. Inputs larger than this fall back to a
// streaming hash (allocates one xxhash.Digest per call, never grows the
// buffer) — spec §4.5/§9: "on overflow, the implementation must fall back
// to a streaming hash without allocation [of the buffer]".
const fingerprintBufCap = 512

// FieldValue is one (fieldId, encoded value) pair contributing to a
// base-condition cache fingerprint. Callers must supply one FieldValue per
// static field id the model tracks, even when the event carries no value
// for it (Present=false) — omitting absent fields instead of marking them
// would let two events with different attribute shapes collide on the same
// fingerprint.
type FieldValue struct {
	FieldID uint32
	// ValueID is used when the field's encoded value is an interned
	// string id; IsString distinguishes it from a raw numeric/bool
	// bit-pattern in Bits.
	ValueID  uint32
	Bits     uint64
	IsString bool
	// Present is false when the event has no value for FieldID at all.
	Present bool
}

// Fingerprinter computes collision-resistant 128-bit cache keys from a set
// of (field, value) pairs, reusing a fixed buffer across calls on a single
// worker goroutine (it is not safe for concurrent use — each
// EvaluationContext owns one, matching the per-worker-exclusive ownership
// spec §3 assigns to EvaluationContext).
type Fingerprinter struct {
	buf [fingerprintBufCap]byte
}

// Fingerprint returns a 128-bit fingerprint over pairs, sorted by FieldID
// first so that the result depends on the (field, value) pairing, not just
// the multiset of values (spec Scenario F) and is independent of the
// caller's iteration order.
func (fp *Fingerprinter) Fingerprint(pairs []FieldValue) [2]uint64 {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].FieldID < pairs[j].FieldID })

	n := 0
	overflow := false
	for _, p := range pairs {
		need := 4 + 1 + 1 + 8
		if n+need > len(fp.buf) {
			overflow = true
			break
		}
		n += encodePair(fp.buf[n:n+need], p)
	}

	if !overflow {
		h1 := xxhash.Sum64(fp.buf[:n])
		return [2]uint64{h1, mix(h1)}
	}
	return streamingFingerprint(pairs)
}

func encodePair(dst []byte, p FieldValue) int {
	binary.BigEndian.PutUint32(dst[0:4], p.FieldID)
	if !p.Present {
		dst[4] = 0
		dst[5] = 0
		binary.BigEndian.PutUint64(dst[6:14], 0)
		return 4 + 1 + 1 + 8
	}
	dst[4] = 1
	if p.IsString {
		dst[5] = 1
		binary.BigEndian.PutUint64(dst[6:14], uint64(p.ValueID))
	} else {
		dst[5] = 0
		binary.BigEndian.PutUint64(dst[6:14], p.Bits)
	}
	return 4 + 1 + 1 + 8
}

// streamingFingerprint hashes pairs through one streaming xxhash.Digest,
// deriving the second lane with mix() as the buffered path does, rather
// than growing a buffer, for the rare rule corpus whose static-field count
// overflows fingerprintBufCap.
func streamingFingerprint(pairs []FieldValue) [2]uint64 {
	d1 := xxhash.New()
	var tmp [14]byte
	for _, p := range pairs {
		n := encodePair(tmp[:], p)
		_, _ = d1.Write(tmp[:n])
	}
	h1 := d1.Sum64()
	return [2]uint64{h1, mix(h1)}
}

// HashBitmap returns a 128-bit identity hash of bm's contents, used to key
// the EligiblePredicateCache by the eligible-combinations bitmap itself
// (spec §4.5 tier 2: "Key: identity (or equality hash) of the
// eligible-combinations bitmap"). Two bitmaps with the same set bits always
// hash equal, regardless of how each was built.
func HashBitmap(bm *roaring.Bitmap) [2]uint64 {
	if bm == nil {
		h1 := xxhash.Sum64(nil)
		return [2]uint64{h1, mix(h1)}
	}
	d1 := xxhash.New()
	var tmp [4]byte
	it := bm.Iterator()
	for it.HasNext() {
		binary.BigEndian.PutUint32(tmp[:], it.Next())
		_, _ = d1.Write(tmp[:])
	}
	h1 := d1.Sum64()
	return [2]uint64{h1, mix(h1)}
}

// mix derives a second, independent-looking 64-bit lane from the first so
// that a single hash pass yields a 128-bit key, avoiding the cost of a
// second full pass over the input in the common (non-overflow) case only
// when h1 has already consumed it; otherwise relies on the avalanche of
// xxhash's finalization to decorrelate the two lanes.
func mix(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}
