package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTimerTAC01IncrementsEveryFourMCycles is S4: at TAC=01 (bit 3 tap,
// 16 processor clocks -> 4 M-cycles), TIMA increments once every 4 ticks.
func TestTimerTAC01IncrementsEveryFourMCycles(t *testing.T) {
	var tm Timer
	tm.WriteTAC(0b101) // enabled, select 01
	tm.WriteTIMA(0)

	for i := 0; i < 3; i++ {
		tm.Tick()
	}
	assert.Equal(t, uint8(0), tm.ReadTIMA())

	tm.Tick()
	assert.Equal(t, uint8(1), tm.ReadTIMA())
}

func TestTimerOverflowReloadsTMAAfterOneMCycleDelay(t *testing.T) {
	var tm Timer
	tm.WriteTAC(0b101)
	tm.WriteTMA(0x42)
	tm.WriteTIMA(0xFF)

	for i := 0; i < 4; i++ {
		tm.Tick()
	}
	assert.Equal(t, uint8(0), tm.ReadTIMA(), "TIMA reads 0 for one M-cycle after overflow")

	requestedIRQ := tm.Tick()
	assert.True(t, requestedIRQ)
	assert.Equal(t, uint8(0x42), tm.ReadTIMA())
}

func TestDIVWriteResetsCounterWithoutSpuriousTick(t *testing.T) {
	var tm Timer
	tm.WriteTAC(0b100) // enabled, select 00 (bit 9 tap)
	for i := 0; i < 100; i++ {
		tm.Tick()
	}
	before := tm.ReadTIMA()

	tm.WriteDIV(0)
	assert.Equal(t, uint8(0), tm.ReadDIV())
	assert.Equal(t, before, tm.ReadTIMA(), "DIV write must not itself tick TIMA")
}
