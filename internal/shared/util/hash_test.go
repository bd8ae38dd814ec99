package util

import "testing"

func TestHashKeyIsStableHex(t *testing.T) {
	jd := "Senior Go engineer\nRemote"
	got := HashKey(jd)
	if got != HashKey(jd) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
}

func TestHashKeyDistinguishesWhitespace(t *testing.T) {
	if HashKey("Go") == HashKey(" Go") {
		t.Fatal("expected keys differing in whitespace to hash differently")
	}
}
