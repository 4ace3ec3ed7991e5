package event

import (
	"testing"

	"github.com/helioseng/helios/dict"
	"github.com/helioseng/helios/model"
)

func TestFlattenNestedAndNormalizes(t *testing.T) {
	e := &Event{
		EventID: "e1",
		Attributes: map[string]any{
			"user": map[string]any{
				"first-name": "Ada",
			},
			"amount": 42.0,
		},
	}
	flat := e.Flatten()

	if got, ok := flat["USER.FIRST_NAME"]; !ok || got != "Ada" {
		t.Fatalf("expected USER.FIRST_NAME=Ada, got %v (present=%v)", got, ok)
	}
	if got, ok := flat["AMOUNT"]; !ok || got != 42.0 {
		t.Fatalf("expected AMOUNT=42, got %v (present=%v)", got, ok)
	}
}

func TestFlattenRepeatable(t *testing.T) {
	e := &Event{Attributes: map[string]any{"b": 1.0, "a": 2.0}}
	flat1 := e.Flatten()
	flat2 := e.Flatten()
	if len(flat1) != 2 || len(flat2) != 2 {
		t.Fatalf("expected 2 flattened keys, got %d and %d", len(flat1), len(flat2))
	}
	for _, flat := range []map[string]any{flat1, flat2} {
		if flat["A"] != 2.0 || flat["B"] != 1.0 {
			t.Fatalf("expected A=2 and B=1 on every call, got %v", flat)
		}
	}
}

func newTestModel() *model.Model {
	m := model.NewEmpty(1)
	m.FieldDict = dict.New()
	m.ValueDict = dict.New()
	return m
}

func TestEncodeDropsUnknownFields(t *testing.T) {
	m := newTestModel()
	m.FieldDict.Encode("AMOUNT")

	e := &Event{Attributes: map[string]any{"amount": 10.0, "unknown_field": "x"}}
	enc := Encode(e, m)

	fieldID, _ := m.FieldDict.Lookup("AMOUNT")
	if _, ok := enc.Values[fieldID]; !ok {
		t.Fatal("expected known field AMOUNT to be encoded")
	}
	if len(enc.Values) != 1 {
		t.Fatalf("expected exactly 1 encoded field, got %d", len(enc.Values))
	}
}

func TestEncodeNumericValue(t *testing.T) {
	m := newTestModel()
	m.FieldDict.Encode("AMOUNT")
	fieldID, _ := m.FieldDict.Lookup("AMOUNT")

	enc := Encode(&Event{Attributes: map[string]any{"amount": 99.5}}, m)
	v := enc.Values[fieldID]
	if v.Kind != KindNumber || v.Number != 99.5 {
		t.Fatalf("expected numeric value 99.5, got %+v", v)
	}
}

func TestEncodeStringFoldsAndPreservesRaw(t *testing.T) {
	m := newTestModel()
	m.FieldDict.Encode("COUNTRY")
	m.ValueDict.Encode("US")
	fieldID, _ := m.FieldDict.Lookup("COUNTRY")

	enc := Encode(&Event{Attributes: map[string]any{"country": "us"}}, m)
	v := enc.Values[fieldID]
	if v.Kind != KindString || v.Folded != "US" || !v.HasValueID {
		t.Fatalf("expected folded string US with a known value id, got %+v", v)
	}
	if enc.Raw[fieldID] != "us" {
		t.Fatalf("expected raw value to preserve original case, got %q", enc.Raw[fieldID])
	}
}

func TestEncodeUnknownStringValueHasNoValueID(t *testing.T) {
	m := newTestModel()
	m.FieldDict.Encode("COUNTRY")
	fieldID, _ := m.FieldDict.Lookup("COUNTRY")

	enc := Encode(&Event{Attributes: map[string]any{"country": "zz"}}, m)
	v := enc.Values[fieldID]
	if v.HasValueID {
		t.Fatal("expected HasValueID=false for a string never interned into the value dictionary")
	}
}

func TestEncodeDropsSliceAttribute(t *testing.T) {
	m := newTestModel()
	m.FieldDict.Encode("TAGS")
	fieldID, _ := m.FieldDict.Lookup("TAGS")

	enc := Encode(&Event{Attributes: map[string]any{"tags": []any{"a", "b"}}}, m)
	if _, ok := enc.Values[fieldID]; ok {
		t.Fatal("a slice-valued attribute should never be encoded as a scalar")
	}
}
