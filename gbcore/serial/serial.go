// Package serial implements the serial port stub: control/data register
// handling and a one-M-cycle transfer latency, driven by the core's
// M-cycle clock rather than a real shift register.
package serial

import "github.com/dsanders/gbcore/bit"

const (
	controlTransferStart uint8 = 1 << 7
	controlClockMaster   uint8 = 1 << 0
)

// Peer receives a byte shifted out by the local port and returns the byte
// the remote side shifts back (0xFF if nothing is connected).
type Peer interface {
	Exchange(outgoing byte) (incoming byte)
}

// Port is the SB/SC serial register pair plus the one-M-cycle transfer
// timer.
type Port struct {
	sb, sc    uint8
	countdown int // M-cycles remaining until the byte latches, 0 = idle
	peer      Peer
}

// New returns an idle serial port with no peer attached.
func New() *Port {
	return &Port{}
}

// SetPeer attaches a link-cable peer; nil detaches it, reverting to the
// "no peer" 0xFF default RX behavior.
func (p *Port) SetPeer(peer Peer) { p.peer = peer }

func (p *Port) ReadSB() uint8 { return p.sb }
func (p *Port) WriteSB(v uint8) {
	p.sb = v
}

func (p *Port) ReadSC() uint8 { return p.sc | 0b0111_1110 }

func (p *Port) WriteSC(v uint8) {
	p.sc = v & (controlTransferStart | controlClockMaster)
	if p.sc&controlTransferStart != 0 && p.sc&controlClockMaster != 0 && p.countdown == 0 {
		p.countdown = 1
	}
}

// Tick advances the port by one M-cycle, returning true the M-cycle the
// transfer completes (so the caller can request the SERIAL interrupt).
func (p *Port) Tick() bool {
	if p.countdown == 0 {
		return false
	}
	p.countdown--
	if p.countdown > 0 {
		return false
	}
	outgoing := p.sb
	incoming := uint8(0xFF)
	if p.peer != nil {
		incoming = p.peer.Exchange(outgoing)
	}
	p.sb = incoming
	p.sc = bit.Clear(7, p.sc)
	return true
}
