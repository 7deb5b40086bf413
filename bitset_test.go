package oecs

import "testing"

func TestBitSetSetHasClear(t *testing.T) {
	var b BitSet
	if !b.IsEmpty() {
		t.Fatal("new bitset should be empty")
	}
	b.Set(3)
	b.Set(70) // lands in word 2, inside the initial 4-word capacity
	if !b.Has(3) || !b.Has(70) {
		t.Fatal("expected bits 3 and 70 to be set")
	}
	if b.Has(4) {
		t.Fatal("bit 4 should not be set")
	}
	b.Clear(3)
	if b.Has(3) {
		t.Fatal("bit 3 should be cleared")
	}
	if !b.Has(70) {
		t.Fatal("clearing bit 3 must not disturb bit 70")
	}
}

func TestBitSetClearOutOfRangeIsNoop(t *testing.T) {
	var b BitSet
	b.Clear(500) // must not panic or grow
	if len(b.words) != 0 {
		t.Fatalf("expected no growth from Clear, got %d words", len(b.words))
	}
}

func TestBitSetContains(t *testing.T) {
	var a, b BitSet
	a.Set(1)
	a.Set(2)
	a.Set(64)
	b.Set(1)
	b.Set(64)
	if !a.Contains(b) {
		t.Fatal("a should be a superset of b")
	}
	if a.Contains(MaskOf(3)) {
		t.Fatal("a should not contain bit 3")
	}
	var empty BitSet
	if !a.Contains(empty) {
		t.Fatal("every bitset contains the empty bitset")
	}
	if !empty.Contains(empty) {
		t.Fatal("empty bitset contains itself")
	}
}

func TestBitSetOverlaps(t *testing.T) {
	a := MaskOf(1, 2)
	b := MaskOf(2, 3)
	c := MaskOf(4)
	if !a.Overlaps(b) {
		t.Fatal("a and b share bit 2")
	}
	if a.Overlaps(c) {
		t.Fatal("a and c share nothing")
	}
}

func TestBitSetEqualsIgnoresTrailingCapacity(t *testing.T) {
	a := MaskOf(1)
	var b BitSet
	b.Set(1)
	b.Set(200)
	b.Clear(200) // leaves extra zero-valued words allocated
	if !a.Equals(b) {
		t.Fatal("bitsets with the same logical bits but different capacity must be equal")
	}
}

func TestBitSetHashStableAcrossCapacity(t *testing.T) {
	a := MaskOf(5)
	var b BitSet
	b.Set(5)
	b.Set(300)
	b.Clear(300)
	if a.Hash() != b.Hash() {
		t.Fatal("hash must be stable regardless of trailing zero words")
	}
}

func TestBitSetForEachAscending(t *testing.T) {
	mask := MaskOf(5, 1, 64, 2)
	var got []int
	mask.ForEach(func(bit int) { got = append(got, bit) })
	want := []int{1, 2, 5, 64}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBitSetLen(t *testing.T) {
	mask := MaskOf(1, 2, 3, 100)
	if mask.Len() != 4 {
		t.Fatalf("expected 4 set bits, got %d", mask.Len())
	}
}

func TestBitSetCopyIsIndependent(t *testing.T) {
	a := MaskOf(1)
	b := a.Copy()
	b.Set(2)
	if a.Has(2) {
		t.Fatal("mutating the copy must not affect the original")
	}
}

func TestBitSetCopyWithSetAndClear(t *testing.T) {
	a := MaskOf(1)
	b := a.CopyWithSet(2)
	if !b.Has(1) || !b.Has(2) {
		t.Fatal("CopyWithSet should carry forward existing bits and add the new one")
	}
	if a.Has(2) {
		t.Fatal("CopyWithSet must not mutate the receiver")
	}
	c := b.CopyWithClear(1)
	if c.Has(1) || !c.Has(2) {
		t.Fatal("CopyWithClear should drop only the targeted bit")
	}
}
