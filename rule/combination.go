package rule

// Combination is a canonical conjunction: a sorted, duplicate-free list of
// predicate ids. Identical predicate-id lists (after IS_ANY_OF expansion)
// collapse to the same Combination id; several source rules may reference
// it.
type Combination struct {
	ID             uint32
	PredicateIDs   []uint32
	PredicateCount uint16
}

// CanonicalKey returns the string identity used to deduplicate
// Combinations: the sorted predicate-id list joined with a separator that
// cannot appear in a decimal-printed uint32, so it never aliases a
// different list.
func CanonicalKey(sortedPredicateIDs []uint32) string {
	buf := make([]byte, 0, len(sortedPredicateIDs)*5)
	for i, id := range sortedPredicateIDs {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendUint32(buf, id)
	}
	return string(buf)
}

func appendUint32(buf []byte, v uint32) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [10]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[i:]...)
}
