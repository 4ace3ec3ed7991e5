package cache

import (
	"encoding/binary"
	"errors"
)

// errShortBuffer is returned by a distributed-cache value decoder when the
// wire payload is truncated below the minimum header size.
var errShortBuffer = errors.New("cache: short buffer")

// keyToString renders a 128-bit fingerprint key as a fixed 16-byte string,
// the wire key used by the distributed backend (redis keys are strings;
// go-redis has no native [2]uint64 key type).
func keyToString(k [2]uint64) string {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], k[0])
	binary.BigEndian.PutUint64(b[8:16], k[1])
	return string(b[:])
}
