package dict

import "testing"

func TestEncodeIdempotent(t *testing.T) {
	d := New()
	id1 := d.Encode("USER.NAME")
	id2 := d.Encode("USER.NAME")
	if id1 != id2 {
		t.Fatalf("Encode(%q) returned %d then %d, want stable id", "USER.NAME", id1, id2)
	}
}

func TestEncodeAssignsSequentialIDs(t *testing.T) {
	d := New()
	ids := make([]uint32, 3)
	names := []string{"A", "B", "C"}
	for i, n := range names {
		ids[i] = d.Encode(n)
	}
	for i, id := range ids {
		if int(id) != i {
			t.Fatalf("Encode(%q) = %d, want %d", names[i], id, i)
		}
	}
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}
}

func TestLookupMissing(t *testing.T) {
	d := New()
	d.Encode("KNOWN")
	if _, ok := d.Lookup("UNKNOWN"); ok {
		t.Fatal("Lookup of unregistered name returned ok=true")
	}
	id, ok := d.Lookup("KNOWN")
	if !ok || id != 0 {
		t.Fatalf("Lookup(KNOWN) = (%d, %v), want (0, true)", id, ok)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	d := New()
	id := d.Encode("FIELD")
	name, ok := d.Decode(id)
	if !ok || name != "FIELD" {
		t.Fatalf("Decode(%d) = (%q, %v), want (FIELD, true)", id, name, ok)
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	d := New()
	d.Encode("ONLY")
	if _, ok := d.Decode(99); ok {
		t.Fatal("Decode of an id past Len() returned ok=true")
	}
}
