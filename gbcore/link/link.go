// Package link implements an in-process link-cable peer pairing two
// machines, standing in for a real serial link partner. The peer
// machine is produced by machine.Machine.Clone (a JSON round-trip of
// its Snapshot), not a live shared reference; once cloned, the two
// machines exchange serial bytes over a pair of cross-wired Go
// channels, one per direction.
package link

import (
	"github.com/dsanders/gbcore/machine"
	"github.com/dsanders/gbcore/serial"
)

// channelPeer is a serial.Peer backed by a pair of single-slot channels:
// Exchange posts the outgoing byte to out (overwriting a stale unread
// byte, matching real hardware's shift-register semantics where a
// byte nobody read gets clobbered by the next one) and returns whatever
// the other side most recently posted, or 0xFF if nothing has arrived.
type channelPeer struct {
	out chan byte
	in  <-chan byte
}

func (c *channelPeer) Exchange(outgoing byte) byte {
	select {
	case c.out <- outgoing:
	default:
		select {
		case <-c.out:
		default:
		}
		c.out <- outgoing
	}
	select {
	case b := <-c.in:
		return b
	default:
		return 0xFF
	}
}

// Pair holds the two channels wiring a machine and its cloned peer
// together; Unlink tears the connection down.
type Pair struct {
	local, remote *machine.Machine
	aToB, bToA    chan byte
}

// NewClonedPeer clones local and cross-wires a channelPeer into each
// side's serial port, so bytes either machine's CPU writes to SB/SC are
// exchanged with the other. It returns the Pair (for Unlink) and the
// cloned Machine, so the caller can step it alongside local — both must
// be driven from the same goroutine, or otherwise externally
// synchronized.
func NewClonedPeer(local *machine.Machine) (*Pair, *machine.Machine, error) {
	remote, err := local.Clone()
	if err != nil {
		return nil, nil, err
	}

	p := &Pair{
		local:  local,
		remote: remote,
		aToB:   make(chan byte, 1),
		bToA:   make(chan byte, 1),
	}
	local.SetSerialPeer(&channelPeer{out: p.aToB, in: p.bToA})
	remote.SetSerialPeer(&channelPeer{out: p.bToA, in: p.aToB})
	return p, remote, nil
}

// Unlink detaches both machines' serial peers, reverting each to the
// "no peer" 0xFF default receive behavior.
func (p *Pair) Unlink() {
	p.local.SetSerialPeer(nil)
	p.remote.SetSerialPeer(nil)
}

var _ serial.Peer = (*channelPeer)(nil)
