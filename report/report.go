// Package report builds the analysis result object spec.md §6 describes
// as output: an input summary, MUS/MSS lists rendered with both intent
// IDs and the original records, and a statistics block.
package report

import (
	"time"

	"github.com/netintent-io/netintent"
	"github.com/netintent-io/netintent/internal/bitset"
	"github.com/netintent-io/netintent/intent"
)

// Summary describes the input a run analyzed.
type Summary struct {
	IntentCount int
	RouterCount int
	LinkCount   int
}

// Subset renders a bitset.Set of intent indices as both the IDs and the
// original intent records, in index order.
type Subset struct {
	IDs     []string
	Intents []intent.Intent
}

func buildSubset(is intent.Set, s bitset.Set) Subset {
	members := s.Members()
	sub := Subset{IDs: make([]string, len(members)), Intents: make([]intent.Intent, len(members))}
	for i, idx := range members {
		it := is.ByIndex(idx)
		sub.IDs[i] = it.ID
		sub.Intents[i] = it
	}
	return sub
}

// DeltaDistribution summarizes a collection of shrink-step deltas (spec's
// record_delta): the fraction of elements removed or added at each step.
type DeltaDistribution struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

func summarizeDeltas(samples []float64) DeltaDistribution {
	d := DeltaDistribution{Count: len(samples)}
	if len(samples) == 0 {
		return d
	}
	d.Min, d.Max = samples[0], samples[0]
	var sum float64
	for _, v := range samples {
		sum += v
		if v < d.Min {
			d.Min = v
		}
		if v > d.Max {
			d.Max = v
		}
	}
	d.Mean = sum / float64(len(samples))
	return d
}

// Stats is the statistics block of the result object: per-phase elapsed
// time, per-phase call counts, and the up/down delta distributions.
type Stats struct {
	SeedsChecked  int
	SeedsSAT      int
	SeedsUNSAT    int
	RejectedSeeds int
	Indeterminate int
	MUSCount      int
	MSSCount      int

	OracleTime   time.Duration
	ShrinkTime   time.Duration
	MapSolveTime time.Duration

	UpDeltas   DeltaDistribution
	DownDeltas DeltaDistribution
}

func buildStats(s netintent.Stats) Stats {
	return Stats{
		SeedsChecked:  s.SeedsChecked,
		SeedsSAT:      s.SeedsSAT,
		SeedsUNSAT:    s.SeedsUNSAT,
		RejectedSeeds: s.RejectedSeeds,
		Indeterminate: s.Indeterminate,
		MUSCount:      s.MUSCount,
		MSSCount:      s.MSSCount,
		OracleTime:    s.OracleTime,
		ShrinkTime:    s.ShrinkTime,
		MapSolveTime:  s.MapSolveTime,
		UpDeltas:      summarizeDeltas(s.UpDeltas),
		DownDeltas:    summarizeDeltas(s.DownDeltas),
	}
}

// Result is the complete analysis result object from spec.md §6.
type Result struct {
	Input Summary
	MUSes []Subset
	MSSes []Subset
	Stats Stats
}

// Builder accumulates events from a [netintent.Driver.Run] call into a
// [Result].
type Builder struct {
	intents intent.Set
	topo    intent.Topology
	muses   []bitset.Set
	msses   []bitset.Set
}

// NewBuilder starts a Builder for a run over intents declared against
// topo.
func NewBuilder(intents intent.Set, topo intent.Topology) *Builder {
	return &Builder{intents: intents, topo: topo}
}

// Add records one driver event.
func (b *Builder) Add(ev netintent.Event) {
	switch ev.Kind {
	case netintent.KindMSS:
		b.msses = append(b.msses, ev.Set)
	case netintent.KindMUS:
		b.muses = append(b.muses, ev.Set)
	}
}

// Build renders the accumulated events plus final driver stats into a
// [Result].
func (b *Builder) Build(stats netintent.Stats) Result {
	r := Result{
		Input: Summary{
			IntentCount: b.intents.Len(),
			RouterCount: len(b.topo.Routers),
			LinkCount:   len(b.topo.Links),
		},
		Stats: buildStats(stats),
	}
	for _, m := range b.muses {
		r.MUSes = append(r.MUSes, buildSubset(b.intents, m))
	}
	for _, s := range b.msses {
		r.MSSes = append(r.MSSes, buildSubset(b.intents, s))
	}
	return r
}
