package video

import (
	"testing"

	"github.com/dsanders/gbcore/interrupts"
	"github.com/stretchr/testify/assert"
)

func TestModeTimingPerScanline(t *testing.T) {
	// S5 (PPU mode): enable LCD at LY=0 => after 20 M-cycles enter
	// Drawing; after 20+43 M-cycles enter HBlank; after 114 M-cycles LY
	// becomes 1.
	p := New(false)
	p.LY = 0
	ints := &interrupts.Registers{}

	for i := 0; i < 20; i++ {
		p.Tick(ints)
	}
	assert.Equal(t, ModeDrawing, p.mode)

	for i := 0; i < 43; i++ {
		p.Tick(ints)
	}
	assert.Equal(t, ModeHBlank, p.mode)

	for i := 0; i < 51; i++ {
		p.Tick(ints)
	}
	assert.Equal(t, uint8(1), p.LY)
}

func TestFullFrameIsExactLength(t *testing.T) {
	// Invariant 5: mode durations sum to 114 M-cycles/line, and a full
	// frame is 154*114 = 17556 M-cycles.
	p := New(false)
	ints := &interrupts.Registers{}

	cycles := 0
	frameReady := false
	for !frameReady {
		frameReady = p.Tick(ints)
		cycles++
	}
	assert.Equal(t, 154*114, cycles)
}

func TestVBlankInterruptRequestedAtEntry(t *testing.T) {
	p := New(false)
	ints := &interrupts.Registers{}

	for i := 0; i < 144*114; i++ {
		p.Tick(ints)
	}
	assert.True(t, ints.IF&uint8(1) != 0, "VBLANK bit should be set")
}

func TestLYCEqualsLYRequestsStatInterrupt(t *testing.T) {
	p := New(false)
	p.LYC = 1
	p.STAT |= statLYCIntEnable
	ints := &interrupts.Registers{}

	for i := 0; i < 114; i++ {
		p.Tick(ints)
	}
	assert.Equal(t, uint8(1), p.LY)
	assert.NotZero(t, ints.IF&uint8(1<<1), "STAT bit should be set once LY reaches LYC")
}

func TestOAMReadsDuringForbiddenModesReturn0xFF(t *testing.T) {
	p := New(false)
	p.mode = ModeOAMScan
	assert.Equal(t, uint8(0xFF), p.ReadOAM(0xFE00))

	p.mode = ModeHBlank
	p.oam[0] = 0x42
	assert.Equal(t, uint8(0x42), p.ReadOAM(0xFE00))
}
