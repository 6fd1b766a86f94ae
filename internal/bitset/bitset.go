// Package bitset provides an order-insensitive, stably-hashable subset of
// small non-negative integers. It is the cache/blocking key shared by
// [oracle.Oracle] and [mapsolve.Solver]: two sets with the same members
// compare equal and hash equal regardless of the order they were built in
// or which process built them.
package bitset

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Set is a sorted, deduplicated slice of 1-based indices. The zero value is
// the empty set.
type Set struct {
	idx []int
}

// Of builds a Set from indices in any order, with duplicates removed.
func Of(idx ...int) Set {
	if len(idx) == 0 {
		return Set{}
	}
	cp := slices.Clone(idx)
	slices.Sort(cp)
	cp = slices.Compact(cp)
	return Set{idx: cp}
}

// FromMapSet builds a Set from a [mapset.Set], grounded on the teacher's use
// of mapset for dependency surprise-sets.
func FromMapSet(s mapset.Set[int]) Set {
	return Of(s.ToSlice()...)
}

// Len reports the number of members.
func (s Set) Len() int { return len(s.idx) }

// Members returns the indices in ascending order. The caller must not
// mutate the returned slice.
func (s Set) Members() []int { return s.idx }

// Contains reports whether i is a member.
func (s Set) Contains(i int) bool {
	_, found := slices.BinarySearch(s.idx, i)
	return found
}

// Equal reports whether s and o contain exactly the same members.
func (s Set) Equal(o Set) bool { return slices.Equal(s.idx, o.idx) }

// Subset reports whether every member of s is also a member of o.
func (s Set) Subset(o Set) bool {
	for _, i := range s.idx {
		if !o.Contains(i) {
			return false
		}
	}
	return true
}

// Superset reports whether every member of o is also a member of s.
func (s Set) Superset(o Set) bool { return o.Subset(s) }

// Union returns the sorted union of s and o.
func (s Set) Union(o Set) Set {
	out := make([]int, 0, len(s.idx)+len(o.idx))
	out = append(out, s.idx...)
	out = append(out, o.idx...)
	return Of(out...)
}

// Diff returns the members of s that are not in o.
func (s Set) Diff(o Set) Set {
	out := make([]int, 0, len(s.idx))
	for _, i := range s.idx {
		if !o.Contains(i) {
			out = append(out, i)
		}
	}
	return Set{idx: out}
}

// Without returns s with i removed, if present.
func (s Set) Without(i int) Set {
	pos, found := slices.BinarySearch(s.idx, i)
	if !found {
		return s
	}
	out := make([]int, 0, len(s.idx)-1)
	out = append(out, s.idx[:pos]...)
	out = append(out, s.idx[pos+1:]...)
	return Set{idx: out}
}

// With returns s with i added, if not already present.
func (s Set) With(i int) Set {
	if s.Contains(i) {
		return s
	}
	return Of(append(slices.Clone(s.idx), i)...)
}

// Hash returns a value that is equal for two Sets with equal members and
// stable across processes and runs (it depends only on the member values,
// never on map iteration order or pointer identity). FNV-1a over the sorted
// member slice, matching spec's call for "a hash representation that is
// order-insensitive and stable across runs."
func (s Set) Hash() uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for _, i := range s.idx {
		u := uint64(int64(i))
		for range 8 {
			h ^= u & 0xff
			h *= prime
			u >>= 8
		}
	}
	return h
}

// String renders s for diagnostics as e.g. "{1,3,5}".
func (s Set) String() string {
	if len(s.idx) == 0 {
		return "{}"
	}
	b := []byte{'{'}
	for i, v := range s.idx {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendInt(b, v)
	}
	b = append(b, '}')
	return string(b)
}

func appendInt(b []byte, v int) []byte {
	if v == 0 {
		return append(b, '0')
	}
	neg := v < 0
	if neg {
		v = -v
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	if neg {
		b = append(b, '-')
	}
	slices.Reverse(b[start:])
	return b
}
