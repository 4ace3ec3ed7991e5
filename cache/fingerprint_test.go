package cache

import (
	"testing"

	roaring "github.com/RoaringBitmap/roaring/v2"
)

func TestFingerprintDeterministicAcrossOrder(t *testing.T) {
	var fp Fingerprinter
	a := []FieldValue{
		{FieldID: 1, Bits: 10, Present: true},
		{FieldID: 2, Bits: 20, Present: true},
	}
	b := []FieldValue{
		{FieldID: 2, Bits: 20, Present: true},
		{FieldID: 1, Bits: 10, Present: true},
	}
	h1 := fp.Fingerprint(a)
	h2 := fp.Fingerprint(b)
	if h1 != h2 {
		t.Fatalf("Fingerprint depends on input order: %v != %v", h1, h2)
	}
}

func TestFingerprintDistinguishesAbsentFromZero(t *testing.T) {
	var fp Fingerprinter
	present := []FieldValue{{FieldID: 1, Bits: 0, Present: true}}
	absent := []FieldValue{{FieldID: 1, Present: false}}
	if fp.Fingerprint(present) == fp.Fingerprint(absent) {
		t.Fatal("fingerprint collided between a present zero value and an absent field")
	}
}

func TestFingerprintDistinguishesStringFromNumeric(t *testing.T) {
	var fp Fingerprinter
	asString := []FieldValue{{FieldID: 1, ValueID: 7, IsString: true, Present: true}}
	asNumber := []FieldValue{{FieldID: 1, Bits: 7, IsString: false, Present: true}}
	if fp.Fingerprint(asString) == fp.Fingerprint(asNumber) {
		t.Fatal("fingerprint collided between a string-encoded and bit-encoded value sharing the same 7")
	}
}

func TestFingerprintOverflowFallsBackConsistently(t *testing.T) {
	var fp Fingerprinter
	many := make([]FieldValue, fingerprintBufCap)
	for i := range many {
		many[i] = FieldValue{FieldID: uint32(i), Bits: uint64(i), Present: true}
	}
	h1 := fp.Fingerprint(many)
	h2 := fp.Fingerprint(many)
	if h1 != h2 {
		t.Fatalf("overflow fingerprint not stable across repeated calls: %v != %v", h1, h2)
	}
}

func TestHashBitmapSameBitsHashEqual(t *testing.T) {
	a := roaring.New()
	a.Add(1)
	a.Add(5)
	a.Add(9)

	b := roaring.New()
	b.Add(9)
	b.Add(1)
	b.Add(5)

	if HashBitmap(a) != HashBitmap(b) {
		t.Fatal("HashBitmap differs for two bitmaps with identical set bits")
	}
}

func TestHashBitmapDifferentBitsHashDifferent(t *testing.T) {
	a := roaring.New()
	a.Add(1)
	b := roaring.New()
	b.Add(2)
	if HashBitmap(a) == HashBitmap(b) {
		t.Fatal("HashBitmap collided for distinct bitmaps")
	}
}

func TestHashBitmapNil(t *testing.T) {
	empty := roaring.New()
	if HashBitmap(nil) != HashBitmap(empty) {
		t.Fatal("HashBitmap(nil) should match HashBitmap of an empty bitmap")
	}
}
