package mapsolve_test

import (
	"testing"

	"github.com/netintent-io/netintent/internal/bitset"
	"github.com/netintent-io/netintent/mapsolve"
)

func TestNextSeedIsMaximalOverFullUniverse(t *testing.T) {
	s := mapsolve.New(3, mapsolve.BiasMSS)
	seed, ok := s.NextSeed()
	if !ok {
		t.Fatalf("NextSeed() returned false on an unblocked universe")
	}
	if seed.Len() != 3 {
		t.Fatalf("NextSeed() = %v, want the full {1,2,3} universe (maximal, nothing blocked)", seed)
	}
}

func TestBlockUpExcludesSupersets(t *testing.T) {
	s := mapsolve.New(3, mapsolve.BiasMUS)
	s.BlockUp(bitset.Of(1, 2))
	seed, ok := s.NextSeed()
	if !ok {
		t.Fatalf("NextSeed() returned false, want a seed avoiding {1,2}'s superclosure")
	}
	if seed.Superset(bitset.Of(1, 2)) {
		t.Fatalf("NextSeed() = %v, violates block_up({1,2})", seed)
	}
}

func TestBlockDownExcludesSubsets(t *testing.T) {
	s := mapsolve.New(2, mapsolve.BiasMUS)
	s.BlockDown(bitset.Of(1, 2))
	_, ok := s.NextSeed()
	if ok {
		t.Fatalf("NextSeed() returned a seed, want exhausted (only subset of universe was blocked down)")
	}
}

func TestRaiseFloorPrunesSmallSeeds(t *testing.T) {
	s := mapsolve.New(3, mapsolve.BiasMUS)
	s.RaiseFloor(2)
	seed, ok := s.NextSeed()
	if !ok {
		t.Fatalf("NextSeed() returned false with floor=2 over a 3-element universe")
	}
	if seed.Len() < 2 {
		t.Fatalf("NextSeed() = %v, want |seed| >= floor (2)", seed)
	}
}

func TestBlockingCompactsRedundantRecords(t *testing.T) {
	s := mapsolve.New(4, mapsolve.BiasMUS)
	s.BlockUp(bitset.Of(1))
	seedBefore, _ := s.NextSeed()
	if seedBefore.Contains(1) {
		t.Fatalf("seed after block_up({1}) still contains 1: %v", seedBefore)
	}
	// A more specific record (superset) should be absorbed, not duplicated.
	s.BlockUp(bitset.Of(1, 2))
	seedAfter, ok := s.NextSeed()
	if !ok || seedAfter.Contains(1) {
		t.Fatalf("block_up({1,2}) after block_up({1}) should remain dominated by {1}: seed=%v ok=%v", seedAfter, ok)
	}
}

func TestExhaustionReturnsFalse(t *testing.T) {
	s := mapsolve.New(1, mapsolve.BiasMUS)
	s.BlockUp(bitset.Of())
	_, ok := s.NextSeed()
	if ok {
		t.Fatalf("blocking up the empty set should exhaust the universe entirely")
	}
}
