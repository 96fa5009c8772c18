package pairs

import "testing"

func TestCanonicalOrdersLexicographically(t *testing.T) {
	lo, hi := Canonical("zed", "amy")
	if lo != "amy" || hi != "zed" {
		t.Fatalf("expected (amy, zed), got (%s, %s)", lo, hi)
	}

	lo, hi = Canonical("amy", "zed")
	if lo != "amy" || hi != "zed" {
		t.Fatalf("expected stable order, got (%s, %s)", lo, hi)
	}
}

func TestKeyIsOrderIndependent(t *testing.T) {
	if Key("u1", "u2") != Key("u2", "u1") {
		t.Fatalf("key must not depend on argument order")
	}
	if Key("u1", "u2") != "u1_u2" {
		t.Fatalf("expected u1_u2, got %s", Key("u1", "u2"))
	}
}

func TestKeySamePair(t *testing.T) {
	if Key("u1", "u1") != "u1_u1" {
		t.Fatalf("expected u1_u1, got %s", Key("u1", "u1"))
	}
}
