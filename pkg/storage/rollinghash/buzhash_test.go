package rollinghash

import (
	"math/rand"
	"testing"
)

func TestRolIdentityAndPeriod(t *testing.T) {
	x := uint32(0xdeadbeef)
	if got := Rol(x, 0); got != x {
		t.Errorf("Rol(x,0) = %x, want %x", got, x)
	}
	if got := Rol(x, 32); got != x {
		t.Errorf("Rol(x,32) = %x, want %x", got, x)
	}
	for k := uint(1); k < 32; k++ {
		rotated := Rol(x, k)
		back := Rol(rotated, 32-k)
		if back != x {
			t.Errorf("Rol(Rol(x,%d),%d) = %x, want %x", k, 32-k, back, x)
		}
	}
}

func TestTableIsPermutationDerived(t *testing.T) {
	seen := make(map[uint32]int)
	for _, v := range Table {
		seen[v]++
	}
	if len(seen) != 256 {
		t.Errorf("expected 256 distinct table entries, got %d", len(seen))
	}
}

func TestStateMatchesFromScratchHash(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 4096)
	rng.Read(data)

	s := NewState()
	var lastPrimed uint32
	for i, b := range data {
		h, primed := s.Push(b)
		if !primed {
			continue
		}
		if i+1 >= Window {
			want := Hash(data[i+1-Window : i+1])
			if h != want {
				t.Fatalf("at byte %d: rolling hash = %x, want %x", i, h, want)
			}
		}
		lastPrimed = h
	}
	_ = lastPrimed
}

func TestDiscriminatorAndBoundaryDeterministic(t *testing.T) {
	d := Discriminator(64 * 1024)
	if d <= 0 {
		t.Fatalf("Discriminator(64KiB) = %d, want positive", d)
	}

	rng := rand.New(rand.NewSource(2))
	h := rng.Uint32()
	if IsBoundary(h, d) != IsBoundary(h, d) {
		t.Fatalf("IsBoundary not deterministic")
	}
}

func TestResetClearsState(t *testing.T) {
	s := NewState()
	for i := 0; i < Window; i++ {
		s.Push(byte(i))
	}
	s.Reset()
	_, primed := s.Push(0)
	if primed {
		t.Fatalf("expected unprimed state immediately after Reset")
	}
}
