package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedPeer struct{ reply byte }

func (p fixedPeer) Exchange(outgoing byte) byte { return p.reply }

func TestMasterTransferLatchesAfterOneMCycle(t *testing.T) {
	p := New()
	p.WriteSB(0x42)
	p.WriteSC(controlTransferStart | controlClockMaster)

	assert.True(t, p.Tick(), "transfer completes after its one pending M-cycle")
	assert.Equal(t, uint8(0xFF), p.ReadSB())
	assert.Zero(t, p.ReadSC()&controlTransferStart, "transfer bit should clear on completion")
}

func TestPeerByteIsLatchedInsteadOfDefault(t *testing.T) {
	p := New()
	p.SetPeer(fixedPeer{reply: 0x7A})
	p.WriteSB(0x10)
	p.WriteSC(controlTransferStart | controlClockMaster)

	completed := p.Tick()
	assert.True(t, completed)
	assert.Equal(t, uint8(0x7A), p.ReadSB())
}

func TestNonMasterWriteDoesNotStartTransfer(t *testing.T) {
	p := New()
	p.WriteSB(0x11)
	p.WriteSC(controlTransferStart) // no clock-master bit

	assert.False(t, p.Tick())
	assert.Equal(t, uint8(0x11), p.ReadSB())
}
