package peer

import "sync"

// ChanPeer is an in-memory [Peer] over a pair of Go channels, for
// coordinating enumerator drivers running in the same process (e.g. in
// tests, or a fan-out across goroutines sharing one address space).
type ChanPeer struct {
	out    chan<- Event
	in     <-chan Event
	once   sync.Once
	closed chan struct{}
}

// NewChanPeer wraps out (where this peer's own discoveries are sent) and
// in (where a remote peer's discoveries arrive). Use [NewChanPeerPair] to
// build two ChanPeers that talk to each other directly.
func NewChanPeer(out chan<- Event, in <-chan Event) *ChanPeer {
	return &ChanPeer{out: out, in: in, closed: make(chan struct{})}
}

// NewChanPeerPair builds two ChanPeers wired so that a's Send is b's Recv
// and vice versa.
func NewChanPeerPair(buffer int) (a, b *ChanPeer) {
	ab := make(chan Event, buffer)
	ba := make(chan Event, buffer)
	return NewChanPeer(ab, ba), NewChanPeer(ba, ab)
}

func (p *ChanPeer) Send(ev Event) {
	select {
	case <-p.closed:
		return
	default:
	}
	select {
	case <-p.closed:
		return
	case p.out <- ev:
	}
}

func (p *ChanPeer) Recv() (Event, bool) {
	select {
	case <-p.closed:
		return Event{}, false
	default:
	}
	select {
	case ev, ok := <-p.in:
		return ev, ok
	default:
		return Event{}, false
	}
}

func (p *ChanPeer) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}
