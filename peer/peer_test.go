package peer_test

import (
	"io"
	"testing"
	"time"

	"github.com/netintent-io/netintent/internal/bitset"
	"github.com/netintent-io/netintent/peer"
)

func TestChanPeerRecvEmptyIsNonBlocking(t *testing.T) {
	a, _ := peer.NewChanPeerPair(1)
	_, ok := a.Recv()
	if ok {
		t.Fatalf("Recv() on an empty ChanPeer returned ok=true")
	}
}

func TestChanPeerPairDeliversEvent(t *testing.T) {
	a, b := peer.NewChanPeerPair(1)
	a.Send(peer.Event{Kind: peer.KindMUS, Set: bitset.Of(1, 2)})

	deadline := time.After(time.Second)
	for {
		if ev, ok := b.Recv(); ok {
			if ev.Kind != peer.KindMUS || !ev.Set.Equal(bitset.Of(1, 2)) {
				t.Fatalf("Recv() = %+v, want {KindMUS, {1,2}}", ev)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for ChanPeer delivery")
		default:
		}
	}
}

func TestGobPeerRoundTrips(t *testing.T) {
	pr, pw := io.Pipe()
	loop := &loopback{r: pr, w: pw}
	p := peer.NewGobPeer(loop, nil)

	p.Send(peer.Event{Kind: peer.KindMSS, Set: bitset.Of(3, 4, 5)})

	deadline := time.After(time.Second)
	for {
		if ev, ok := p.Recv(); ok {
			if ev.Kind != peer.KindMSS || !ev.Set.Equal(bitset.Of(3, 4, 5)) {
				t.Fatalf("Recv() = %+v, want {KindMSS, {3,4,5}}", ev)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for GobPeer delivery")
		default:
		}
	}
}

// loopback feeds whatever is written right back out to be read, so
// GobPeer's encoder and its background decoder exercise the same wire
// format. Backed by an io.Pipe so reads block until a write arrives,
// unlike a bytes.Buffer which would report io.EOF on an empty buffer.
type loopback struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (l *loopback) Write(p []byte) (int, error) { return l.w.Write(p) }
func (l *loopback) Read(p []byte) (int, error)  { return l.r.Read(p) }
