package bitset_test

import (
	"testing"

	"github.com/netintent-io/netintent/internal/bitset"
)

func TestOfDedupesAndSorts(t *testing.T) {
	s := bitset.Of(3, 1, 2, 1, 3)
	if got, want := s.Members(), []int{1, 2, 3}; !equalInts(got, want) {
		t.Fatalf("Members() = %v, want %v", got, want)
	}
}

func TestEqualIgnoresOrder(t *testing.T) {
	a := bitset.Of(1, 2, 3)
	b := bitset.Of(3, 2, 1)
	if !a.Equal(b) {
		t.Fatalf("a.Equal(b) = false, want true")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("a.Hash() != b.Hash() for equal sets")
	}
}

func TestHashDistinguishesDistinctSets(t *testing.T) {
	a := bitset.Of(1, 2)
	b := bitset.Of(1, 3)
	if a.Hash() == b.Hash() {
		t.Fatalf("distinct sets hashed equal (allowed, but suspicious for this fixture): %v", a.Hash())
	}
}

func TestSubsetSuperset(t *testing.T) {
	a := bitset.Of(1, 2)
	b := bitset.Of(1, 2, 3)
	if !a.Subset(b) {
		t.Fatalf("a.Subset(b) = false, want true")
	}
	if !b.Superset(a) {
		t.Fatalf("b.Superset(a) = false, want true")
	}
	if b.Subset(a) {
		t.Fatalf("b.Subset(a) = true, want false")
	}
}

func TestUnionDiffWithoutWith(t *testing.T) {
	a := bitset.Of(1, 2)
	b := bitset.Of(2, 3)
	if got, want := a.Union(b).Members(), []int{1, 2, 3}; !equalInts(got, want) {
		t.Fatalf("Union = %v, want %v", got, want)
	}
	if got, want := a.Diff(b).Members(), []int{1}; !equalInts(got, want) {
		t.Fatalf("Diff = %v, want %v", got, want)
	}
	if got, want := a.Without(1).Members(), []int{2}; !equalInts(got, want) {
		t.Fatalf("Without(1) = %v, want %v", got, want)
	}
	if got, want := a.With(5).Members(), []int{1, 2, 5}; !equalInts(got, want) {
		t.Fatalf("With(5) = %v, want %v", got, want)
	}
}

func TestEmptySet(t *testing.T) {
	var s bitset.Set
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
	if s.String() != "{}" {
		t.Fatalf("String() = %q, want {}", s.String())
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
