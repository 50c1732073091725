package bpm

import "testing"

func TestBpmLimits(t *testing.T) {
	b := New()

	if got := b.Value(); got != Default {
		t.Fatalf("Value() = %d, want %d", got, Default)
	}

	if !b.Set(Max - 1) {
		t.Fatal("Set(Max-1) failed")
	}
	if !b.Increment(1) {
		t.Error("Increment() below Max should succeed")
	}
	if b.Increment(1) {
		t.Error("Increment() at Max should fail")
	}

	if !b.Set(Min) {
		t.Fatal("Set(Min) failed")
	}
	if b.Decrement(1) {
		t.Error("Decrement() at Min should fail")
	}
	if b.Set(Min - 1) {
		t.Error("Set() below Min should fail")
	}
}
