package ssz

import (
	"errors"
	"strings"
	"testing"
)

func TestRootHex(t *testing.T) {
	s := "0x" + strings.Repeat("ab", 32)
	r, err := RootFromHex(s)
	if err != nil {
		t.Fatal(err)
	}
	if r.Hex() != s || r.String() != s {
		t.Fatalf("Hex = %s", r.Hex())
	}
	text, err := r.MarshalText()
	if err != nil || string(text) != s {
		t.Fatalf("MarshalText = %s, %v", text, err)
	}
}

func TestRootFromHexErrors(t *testing.T) {
	for _, s := range []string{"", "abab", "0x" + strings.Repeat("ab", 31), "0xzz"} {
		if _, err := RootFromHex(s); !errors.Is(err, ErrParseFailure) {
			t.Errorf("RootFromHex(%q) err = %v, want ErrParseFailure", s, err)
		}
	}
}

func TestRootOrdering(t *testing.T) {
	a, b := Root{1}, Root{2}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatal("roots must order byte-wise")
	}
	if !a.Equal(Root{1}) || a.Equal(b) {
		t.Fatal("Equal mismatch")
	}
	if !(Root{}).IsZero() || a.IsZero() {
		t.Fatal("IsZero mismatch")
	}
	bs := a.Bytes()
	bs[0] = 9
	if a[0] != 1 {
		t.Fatal("Bytes must return a copy")
	}
}
