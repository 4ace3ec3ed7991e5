package event

import (
	"github.com/helioseng/helios/dict"
	"github.com/helioseng/helios/model"
)

// Kind discriminates the scalar payload Flatten produced for one field.
type Kind int

const (
	// KindNumber carries a float64 in Value.Number.
	KindNumber Kind = iota
	// KindBool carries a bool in Value.Bool.
	KindBool
	// KindString carries a case-folded string. ValueID/HasValueID are set
	// only if the folded string is already present in the model's value
	// dictionary — CONTAINS and REGEX never need an interned id, only
	// EQUAL_TO/NOT_EQUAL_TO do.
	KindString
)

// Value is one field's encoded attribute value.
type Value struct {
	Kind       Kind
	Number     float64
	Bool       bool
	ValueID    uint32
	HasValueID bool
	Folded     string
}

// Encoded is an Event after dictionary encoding against one model:
// fieldId -> Value for comparison, plus fieldId -> original (non-folded)
// string for REGEX, which always matches against the unfolded attribute
// (spec §4.3.3). Fields absent from the event, or whose name isn't known
// to the model's field dictionary, are simply omitted — never encoded as
// a sentinel (spec §3 Encoded-event invariant).
type Encoded struct {
	Values map[uint32]Value
	Raw    map[uint32]string
}

// Encode flattens e and dictionary-encodes every field the model's field
// dictionary already knows about (spec §4.4 step 1). Unknown field paths
// are dropped: a rule corpus frozen at compile time can never reference a
// field name the event introduces later.
func Encode(e *Event, m *model.Model) *Encoded {
	flat := e.Flatten()
	enc := &Encoded{
		Values: make(map[uint32]Value, len(flat)),
		Raw:    make(map[uint32]string),
	}

	for path, raw := range flat {
		fieldID, ok := m.FieldDict.Lookup(path)
		if !ok {
			continue
		}
		v, rawStr, ok := encodeScalar(m.ValueDict, raw)
		if !ok {
			continue
		}
		enc.Values[fieldID] = v
		if rawStr != "" || v.Kind == KindString {
			enc.Raw[fieldID] = rawStr
		}
	}
	return enc
}

func encodeScalar(vd *dict.Dictionary, raw any) (Value, string, bool) {
	switch x := raw.(type) {
	case string:
		folded := dict.NormalizeValue(x)
		id, has := vd.Lookup(folded)
		return Value{Kind: KindString, Folded: folded, ValueID: id, HasValueID: has}, x, true
	case bool:
		return Value{Kind: KindBool, Bool: x}, "", true
	case float64:
		return Value{Kind: KindNumber, Number: x}, "", true
	case float32:
		return Value{Kind: KindNumber, Number: float64(x)}, "", true
	case int:
		return Value{Kind: KindNumber, Number: float64(x)}, "", true
	case int64:
		return Value{Kind: KindNumber, Number: float64(x)}, "", true
	default:
		// Slices (IS_ANY_OF-shaped event values) and nil never match a
		// scalar predicate family; omitted rather than erroring (spec §7:
		// "predicates simply return false" on type mismatch, achieved
		// here by never encoding the field at all).
		return Value{}, "", false
	}
}
