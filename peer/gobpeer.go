package peer

import (
	"encoding/gob"
	"io"
	"log/slog"
	"sync"

	"github.com/netintent-io/netintent/internal/bitset"
)

// wireEvent is what actually crosses the wire: bitset.Set keeps its
// member slice unexported, so gob (which only sees exported fields via
// reflection) needs this instead of the public Event type directly.
type wireEvent struct {
	Kind    Kind
	Members []int
}

// GobPeer is a [Peer] that exchanges events as gob-encoded [wireEvent]
// values over an io.ReadWriter, grounded on the teacher's
// internal/command.DecodeJsonStream background-decode idiom — adapted
// from a one-shot JSON stream consumed by an iterator to a long-lived,
// bidirectional gob stream consumed by a buffered channel, since Recv
// must be non-blocking.
type GobPeer struct {
	enc *gob.Encoder
	rw  io.ReadWriter

	recv chan Event
	done chan struct{}
	once sync.Once
	log  *slog.Logger
}

// NewGobPeer starts decoding events from rw in the background and returns
// a Peer that surfaces them via Recv. log receives decode-failure
// diagnostics; a nil log discards them.
func NewGobPeer(rw io.ReadWriter, log *slog.Logger) *GobPeer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := &GobPeer{
		enc:  gob.NewEncoder(rw),
		rw:   rw,
		recv: make(chan Event, 64),
		done: make(chan struct{}),
		log:  log,
	}
	go p.decodeLoop()
	return p
}

func (p *GobPeer) decodeLoop() {
	dec := gob.NewDecoder(p.rw)
	defer close(p.recv)
	for {
		var w wireEvent
		if err := dec.Decode(&w); err != nil {
			if err != io.EOF {
				p.log.Warn("gob peer decode failed", "error", err)
			}
			return
		}
		select {
		case p.recv <- Event{Kind: w.Kind, Set: bitset.Of(w.Members...)}:
		case <-p.done:
			return
		}
	}
}

func (p *GobPeer) Send(ev Event) {
	select {
	case <-p.done:
		return
	default:
	}
	w := wireEvent{Kind: ev.Kind, Members: ev.Set.Members()}
	if err := p.enc.Encode(w); err != nil {
		p.log.Warn("gob peer encode failed", "error", err)
	}
}

func (p *GobPeer) Recv() (Event, bool) {
	select {
	case <-p.done:
		return Event{}, false
	default:
	}
	select {
	case ev, ok := <-p.recv:
		return ev, ok
	default:
		return Event{}, false
	}
}

func (p *GobPeer) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
