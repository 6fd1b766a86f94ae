// Package netintent analyzes a set of declared routing intents against a
// network topology and reports every minimal conflicting subset (MUS) and
// every maximal consistent subset (MSS) of intents, via MARCO-style
// seed/check/shrink enumeration.
//
// # Quick Start
//
// Load a topology and an intent set, build a [Driver], and pull events
// from [Driver.Run] until it's exhausted:
//
//	topo, err := intent.DecodeTopology(topoBytes)
//	if err != nil {
//		return err
//	}
//	intents, err := intent.DecodeIntents(intentBytes)
//	if err != nil {
//		return err
//	}
//	is, err := intent.NewSet(intents)
//	if err != nil {
//		return err
//	}
//	d, err := netintent.NewDriver(is, topo, netintent.Config{MaxResults: 1000})
//	if err != nil {
//		return err
//	}
//	for ev := range d.Run(ctx) {
//		switch ev.Kind {
//		case netintent.KindMSS:
//			fmt.Println("MSS:", ev.Set)
//		case netintent.KindMUS:
//			fmt.Println("MUS:", ev.Set)
//		}
//	}
package netintent

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/netintent-io/netintent/internal/bitset"
	"github.com/netintent-io/netintent/intent"
	"github.com/netintent-io/netintent/mapsolve"
	"github.com/netintent-io/netintent/oracle"
	"github.com/netintent-io/netintent/peer"
	"github.com/netintent-io/netintent/shrink"
	"github.com/netintent-io/netintent/topology"
)

// Kind identifies whether an [Event] carries a maximal-consistent or a
// minimal-conflicting subset.
type Kind int

const (
	KindMSS Kind = iota
	KindMUS
)

func (k Kind) String() string {
	switch k {
	case KindMSS:
		return "MSS"
	case KindMUS:
		return "MUS"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is one discovery the driver yields: a maximal satisfiable subset
// or a minimal unsatisfiable subset of intent indices.
type Event struct {
	Kind Kind
	Set  bitset.Set
}

// Config bounds a Driver's run.
type Config struct {
	// Bias selects the map solver's flip-order heuristic; see
	// [mapsolve.Bias].
	Bias mapsolve.Bias
	// MaxResults stops the run once this many events (MSS+MUS combined)
	// have been yielded. Zero means unbounded.
	MaxResults int
	// Timeout bounds wall-clock run time. Zero means unbounded.
	Timeout time.Duration
	// Peer, if non-nil, is an optional side channel the driver merges
	// remote MSS/MUS observations into and reports its own discoveries
	// to. See package peer.
	Peer peer.Peer
	// Log receives the driver's diagnostics. A nil Log discards them.
	Log *slog.Logger
}

// Stats collects run-level counters and timing, mirrored into package
// report's output object.
type Stats struct {
	SeedsChecked  int
	SeedsSAT      int
	SeedsUNSAT    int
	RejectedSeeds int // UNSAT seed yielded no MUS (oracle-indeterminate or degenerate)
	Indeterminate int
	MUSCount      int
	MSSCount      int
	OracleTime    time.Duration
	ShrinkTime    time.Duration
	MapSolveTime  time.Duration

	// UpDeltas records, for every shrink step (UNSAT seed -> discovered
	// MUS), the fraction of the seed removed to reach the MUS.
	// DownDeltas records, for every floor raise (a strictly larger MSS
	// found), the fractional growth over the previous floor. Named "up"/
	// "down" after block_up/block_down, the directions each belongs to.
	UpDeltas   []float64
	DownDeltas []float64
}

// Driver implements the Enumeration Driver: it pulls seeds from a
// [mapsolve.Solver], decides them with an [oracle.Oracle], shrinks UNSAT
// seeds with a [shrink.Shrinker], and yields every MSS/MUS it discovers.
type Driver struct {
	intents intent.Set
	oracle  *oracle.Oracle
	solver  *mapsolve.Solver
	shrink  *shrink.Shrinker
	cfg     Config
	log     *slog.Logger

	knownMUS []bitset.Set
	knownMSS []bitset.Set
	floor    int

	stats Stats
}

// NewDriver builds a Driver over intents declared against topo.
func NewDriver(intents intent.Set, topo intent.Topology, cfg Config) (*Driver, error) {
	g, err := topology.Build(topo)
	if err != nil {
		return nil, fmt.Errorf("netintent: building topology: %w", err)
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	o, err := oracle.New(g, intents, log)
	if err != nil {
		return nil, fmt.Errorf("netintent: building oracle: %w", err)
	}
	solver := mapsolve.New(intents.Len(), cfg.Bias)
	d := &Driver{
		intents: intents,
		oracle:  o,
		solver:  solver,
		cfg:     cfg,
		log:     log,
	}
	d.shrink = shrink.New(d.check)
	return d, nil
}

// drainPeer merges every event currently buffered from Config.Peer into
// this driver's own blocking state, per spec's multi-process side channel:
// a peer's MSS raises our floor and blocks down; a peer's MUS blocks up.
func (d *Driver) drainPeer() {
	if d.cfg.Peer == nil {
		return
	}
	for {
		ev, ok := d.cfg.Peer.Recv()
		if !ok {
			return
		}
		switch ev.Kind {
		case peer.KindMSS:
			d.solver.BlockDown(ev.Set)
			if ev.Set.Len() > d.floor {
				d.floor = ev.Set.Len()
				d.solver.RaiseFloor(d.floor)
			}
		case peer.KindMUS:
			d.solver.BlockUp(ev.Set)
		}
	}
}

func (d *Driver) check(s bitset.Set) oracle.Verdict {
	start := time.Now()
	v, err := d.oracle.Check(s)
	d.stats.OracleTime += time.Since(start)
	if err != nil {
		d.stats.Indeterminate++
		return oracle.Verdict{SAT: false, Reason: err.Error()}
	}
	return v
}

// Stats returns a snapshot of the run's counters; meaningful once Run has
// been fully consumed (or partially, mid-run).
func (d *Driver) Stats() Stats { return d.stats }

// Run executes the main loop of the enumeration driver, yielding one
// [Event] per discovered MSS or MUS. The iterator stops when the seed
// space is exhausted, Config.MaxResults is reached, Config.Timeout
// elapses, or ctx is cancelled.
func (d *Driver) Run(ctx context.Context) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if d.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
			defer cancel()
		}

		results := 0
		for {
			if context.Cause(ctx) != nil {
				d.log.InfoContext(ctx, "run stopped", "reason", context.Cause(ctx))
				return
			}
			if d.cfg.MaxResults > 0 && results >= d.cfg.MaxResults {
				return
			}
			d.drainPeer()

			start := time.Now()
			seed, ok := d.solver.NextSeed()
			d.stats.MapSolveTime += time.Since(start)
			if !ok {
				return
			}
			d.stats.SeedsChecked++

			verdict := d.check(seed)
			if verdict.SAT {
				d.stats.SeedsSAT++
				if seed.Len() > d.floor {
					if d.floor > 0 {
						d.stats.DownDeltas = append(d.stats.DownDeltas, float64(seed.Len()-d.floor)/float64(d.floor))
					}
					d.floor = seed.Len()
					d.knownMSS = d.knownMSS[:0]
					d.solver.RaiseFloor(d.floor)
				}
				if seed.Len() >= d.floor {
					d.knownMSS = append(d.knownMSS, seed)
					d.stats.MSSCount++
					if d.cfg.Peer != nil {
						d.cfg.Peer.Send(peer.Event{Kind: peer.KindMSS, Set: seed})
					}
					results++
					if !yield(Event{Kind: KindMSS, Set: seed}) {
						return
					}
				}
				d.solver.BlockDown(seed)
				continue
			}

			d.stats.SeedsUNSAT++
			shrinkStart := time.Now()
			muses := d.shrink.FindAllMUSes(seed, d.knownMSS, d.knownMUS)
			d.stats.ShrinkTime += time.Since(shrinkStart)

			if len(muses) == 0 {
				d.solver.BlockUp(seed)
				d.stats.RejectedSeeds++
				continue
			}
			for _, mus := range muses {
				if seed.Len() > 0 {
					d.stats.UpDeltas = append(d.stats.UpDeltas, float64(seed.Len()-mus.Len())/float64(seed.Len()))
				}
				d.knownMUS = append(d.knownMUS, mus)
				d.solver.BlockUp(mus)
				d.stats.MUSCount++
				if d.cfg.Peer != nil {
					d.cfg.Peer.Send(peer.Event{Kind: peer.KindMUS, Set: mus})
				}
				results++
				if !yield(Event{Kind: KindMUS, Set: mus}) {
					return
				}
			}
		}
	}
}
