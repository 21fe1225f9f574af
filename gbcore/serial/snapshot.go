package serial

// Snapshot is the serial port's serializable state. The attached Peer is
// a callback, excluded here; the caller reattaches one with SetPeer
// after Restore.
type Snapshot struct {
	SB, SC    uint8
	Countdown int
}

// Snapshot captures the port's register/timer state.
func (p *Port) Snapshot() Snapshot {
	return Snapshot{SB: p.sb, SC: p.sc, Countdown: p.countdown}
}

// Restore replaces the port's state with a previously captured Snapshot.
// Any attached Peer is left untouched.
func (p *Port) Restore(s Snapshot) {
	p.sb, p.sc, p.countdown = s.SB, s.SC, s.Countdown
}
