// Package intent holds the data model shared by every other package:
// routing intents, the directed topology they're declared over, and the
// dense index assignment that lets the rest of the analyzer address an
// intent by a small integer instead of its string ID.
package intent

import (
	"fmt"
	"iter"
)

// Kind identifies which routing contract an [Intent] declares.
type Kind int

const (
	// KindSimple declares that Paths[0] must be the strict shortest path.
	KindSimple Kind = iota
	// KindPathPreference declares Paths[0] strictly preferred over Paths[1]
	// and over every other candidate path.
	KindPathPreference
	// KindECMP declares that Paths is exactly the set of tied shortest
	// paths.
	KindECMP
)

// String renders k the way error messages and CLI output want it.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindPathPreference:
		return "path_preference"
	case KindECMP:
		return "ECMP"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Intent is a single declared routing requirement.
type Intent struct {
	ID    string
	Kind  Kind
	Src   string
	Dst   string
	Paths [][]string // ordered node-name sequences; shape constrained per Kind
}

// Link is a symmetric undirected link between two routers; package
// topology's Build expands it to two directed edges.
type Link struct {
	Node1, Node2 string
}

// Topology is a network: a set of named routers and the symmetric links
// between them.
type Topology struct {
	Routers []string
	Links   []Link
}

// Set is the dense 1-based index <-> ID mapping fixed for a run: the
// mapping is immutable once built, per the data model's "index ↔ id is
// immutable for the run" invariant.
type Set struct {
	intents []Intent       // intents[i-1] is the intent with index i
	idToIdx map[string]int
}

// NewSet assigns each intent a dense 1-based index in the order given.
// Returns [ErrMalformed] if two intents share an ID.
func NewSet(intents []Intent) (Set, error) {
	s := Set{
		intents: make([]Intent, len(intents)),
		idToIdx: make(map[string]int, len(intents)),
	}
	for i, it := range intents {
		if _, dup := s.idToIdx[it.ID]; dup {
			return Set{}, fmt.Errorf("%w: duplicate intent id %q", ErrMalformed, it.ID)
		}
		idx := i + 1
		s.idToIdx[it.ID] = idx
		s.intents[i] = it
	}
	return s, nil
}

// Len reports the number of intents in the run.
func (s Set) Len() int { return len(s.intents) }

// Index returns the 1-based index for id, or 0, false if unknown.
func (s Set) Index(id string) (int, bool) {
	idx, ok := s.idToIdx[id]
	return idx, ok
}

// ByIndex returns the intent at 1-based index idx. It panics if idx is out
// of [1, Len()]; callers only ever pass indices obtained from this Set or a
// [bitset.Set] built from it, so an out-of-range index is a programming
// error, not user input.
func (s Set) ByIndex(idx int) Intent {
	if idx < 1 || idx > len(s.intents) {
		panic(fmt.Sprintf("intent: index %d out of range [1,%d]", idx, len(s.intents)))
	}
	return s.intents[idx-1]
}

// All iterates every intent in index order, yielding (index, intent) pairs.
func (s Set) All() iter.Seq2[int, Intent] {
	return func(yield func(int, Intent) bool) {
		for i, it := range s.intents {
			if !yield(i+1, it) {
				return
			}
		}
	}
}
