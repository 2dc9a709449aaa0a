package sample

import (
	"bytes"
	"testing"
)

func TestDrawReturnsAllWhenCountExceedsN(t *testing.T) {
	d, err := NewDrawerFromSeed(bytes.Repeat([]byte{1}, 32))
	if err != nil {
		t.Fatal(err)
	}
	got, err := d.Draw(3, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 indices, got %d", len(got))
	}
}

func TestDrawIsDistinct(t *testing.T) {
	d, err := NewDrawerFromSeed(bytes.Repeat([]byte{2}, 32))
	if err != nil {
		t.Fatal(err)
	}
	got, err := d.Draw(1000, 50)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]bool)
	for _, idx := range got {
		if seen[idx] {
			t.Fatalf("duplicate index %d drawn", idx)
		}
		seen[idx] = true
		if idx < 0 || idx >= 1000 {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestDrawReproducibleFromSameSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{3}, 32)
	d1, err := NewDrawerFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := NewDrawerFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}

	a, err := d1.Draw(500, 20)
	if err != nil {
		t.Fatal(err)
	}
	b, err := d2.Draw(500, 20)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != len(b) {
		t.Fatalf("length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draws diverged at %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestSeedIsRecorded(t *testing.T) {
	seed := bytes.Repeat([]byte{4}, 32)
	d, err := NewDrawerFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	if d.Seed() == "" {
		t.Fatal("expected non-empty seed")
	}
}
