package shrink

import (
	"slices"

	"github.com/netintent-io/netintent/internal/bitset"
)

// mssFeedbackMining ports _mss_feedback_mining: every known MSS gives an
// MCS (the intents outside that MSS but inside the seed under analysis),
// and every minimal hitting set of the resulting MCS collection is a MUS
// candidate, since a set that hits every MCS cannot be extended by any of
// the maximal satisfiable subsets already discovered. alreadyKnown holds
// sets a candidate is rejected if it's a subset of (it would just
// rediscover or be dominated by an existing MUS).
func (s *Shrinker) mssFeedbackMining(unsatSeed bitset.Set, knownMSS []bitset.Set, alreadyKnown []bitset.Set) []bitset.Set {
	if len(knownMSS) == 0 {
		return nil
	}

	var mcses []bitset.Set
	for _, mss := range knownMSS {
		mcs := unsatSeed.Diff(mss)
		if mcs.Len() > 0 {
			mcses = append(mcses, mcs)
		}
	}
	if len(mcses) == 0 {
		return nil
	}

	candidates := computeMinimalHittingSets(mcses)

	var discovered []bitset.Set
	for _, hs := range candidates {
		if hs.Len() == 0 || !hs.Subset(unsatSeed) {
			continue
		}
		if isSubsetOfAny(hs, alreadyKnown) {
			continue
		}
		members := hs.Members()
		if s.sat(members) {
			continue
		}
		if s.isMUS(members) {
			discovered = append(discovered, hs)
		}
	}
	return discovered
}

func isSubsetOfAny(s bitset.Set, sets []bitset.Set) bool {
	for _, o := range sets {
		if s.Subset(o) {
			return true
		}
	}
	return false
}

// computeMinimalHittingSets returns the minimal hitting sets of mcses:
// exact brute force for small instances (<=5 MCSes, matching the
// divide-and-conquer shrinker's own scale), a greedy approximation
// otherwise.
func computeMinimalHittingSets(mcses []bitset.Set) []bitset.Set {
	if len(mcses) <= 5 {
		return exactMinimalHittingSets(mcses)
	}
	return []bitset.Set{greedyHittingSet(mcses)}
}

func exactMinimalHittingSets(mcses []bitset.Set) []bitset.Set {
	universe := bitset.Set{}
	for _, mcs := range mcses {
		universe = universe.Union(mcs)
	}
	elems := universe.Members()

	var result []bitset.Set
	for size := 1; size <= len(elems); size++ {
		forEachCombination(elems, size, func(combo []int) {
			candidate := bitset.Of(combo...)
			if !hitsAll(candidate, mcses) {
				return
			}
			for _, existing := range result {
				if existing.Subset(candidate) {
					return // a smaller hitting set already dominates this one
				}
			}
			result = append(result, candidate)
		})
	}
	return result
}

func hitsAll(candidate bitset.Set, mcses []bitset.Set) bool {
	for _, mcs := range mcses {
		hit := false
		for _, m := range mcs.Members() {
			if candidate.Contains(m) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// forEachCombination calls f with every size-k combination of elems, in
// increasing lexicographic order of index.
func forEachCombination(elems []int, k int, f func(combo []int)) {
	n := len(elems)
	if k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]int, k)
		for i, j := range idx {
			combo[i] = elems[j]
		}
		f(combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// greedyHittingSet repeatedly picks the element that hits the most
// currently-uncovered MCSes, until every MCS is covered.
func greedyHittingSet(mcses []bitset.Set) bitset.Set {
	remaining := slices.Clone(mcses)
	result := bitset.Set{}
	for len(remaining) > 0 {
		counts := map[int]int{}
		for _, mcs := range remaining {
			for _, m := range mcs.Members() {
				counts[m]++
			}
		}
		best, bestCount := 0, -1
		for m, c := range counts {
			if c > bestCount || (c == bestCount && m < best) {
				best, bestCount = m, c
			}
		}
		if bestCount < 0 {
			break
		}
		result = result.With(best)
		remaining = slices.DeleteFunc(remaining, func(mcs bitset.Set) bool {
			return mcs.Contains(best)
		})
	}
	return result
}
