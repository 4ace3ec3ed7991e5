// Package dict provides the bijective string<->dense-id dictionaries used
// to intern field names and string values during compilation.
//
// A Dictionary never errors on lookup: Encode always succeeds (assigning a
// new id if needed) and Decode returns ok=false for an unknown id rather
// than panicking. Dictionaries are built single-threaded during compile and
// are read-only once the owning model is frozen.
package dict

// Dictionary is a bijection between strings and dense, 0-based sequential
// ids. Ids are stable for the lifetime of the dictionary: once assigned, an
// id is never reused or renumbered.
type Dictionary struct {
	toID   map[string]uint32
	toName []string
}

// New creates an empty Dictionary.
func New() *Dictionary {
	return &Dictionary{
		toID: make(map[string]uint32),
	}
}

// Encode returns the existing id for name if present, otherwise assigns and
// returns the next sequential id. Encode is idempotent: encoding the same
// name twice returns the same id both times.
func (d *Dictionary) Encode(name string) uint32 {
	if id, ok := d.toID[name]; ok {
		return id
	}
	id := uint32(len(d.toName))
	d.toID[name] = id
	d.toName = append(d.toName, name)
	return id
}

// Lookup returns the id for name without assigning one, and whether name is
// present.
func (d *Dictionary) Lookup(name string) (uint32, bool) {
	id, ok := d.toID[name]
	return id, ok
}

// Decode returns the name for id, and whether id is present.
func (d *Dictionary) Decode(id uint32) (string, bool) {
	if int(id) >= len(d.toName) {
		return "", false
	}
	return d.toName[id], true
}

// Len returns the number of distinct entries in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.toName)
}
