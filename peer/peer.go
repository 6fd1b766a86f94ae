// Package peer implements the optional multi-process side channel
// described by spec's concurrency model: a message carrier that delivers
// MSS/MUS discoveries between cooperating enumerator processes, each
// merging what it receives into its own block_down/block_up state.
package peer

import (
	"github.com/netintent-io/netintent/internal/bitset"
)

// Kind identifies which blocking operation a received [Event] implies.
type Kind int

const (
	KindMSS Kind = iota
	KindMUS
)

// Event is one observation shared between peers.
type Event struct {
	Kind Kind
	Set  bitset.Set
}

// Peer is a side channel a [netintent.Driver] can use to exchange
// discoveries with other enumerator processes. Send reports a local
// discovery; Recv polls for a peer's discovery without blocking, returning
// (zero, false) when nothing is currently available. Close releases any
// underlying transport; a Peer must tolerate Send/Recv after Close by
// treating them as no-ops.
type Peer interface {
	Send(Event)
	Recv() (Event, bool)
	Close() error
}
