package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsanders/gbcore/memory"
)

// buildROM constructs a minimal header-valid, NOP-filled ROM: the CPU
// free-runs without ever hitting an undefined opcode, which is all these
// tests need from cartridge content.
func buildROM(size int) []byte {
	rom := make([]byte, size)
	copy(rom[0x134:0x134+16], "TESTGAME")
	rom[0x148] = 0 // 32KB
	rom[0x149] = 0 // no RAM
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum
	return rom
}

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := NewWithROM(buildROM(0x8000), nil, false)
	assert.NoError(t, err)
	return m
}

func TestNewHasNoCartridge(t *testing.T) {
	m := New(false)
	assert.Nil(t, m.SRAM())
	assert.Nil(t, m.Fault())
}

func TestRunFrameAdvancesFrameCount(t *testing.T) {
	m := newTestMachine(t)
	m.RunFrame()
	assert.Equal(t, uint64(1), m.FrameCount())
	assert.Nil(t, m.Fault())
}

func TestRunFramesStopsOnFault(t *testing.T) {
	rom := buildROM(0x8000)
	rom[0x0100] = 0xD3 // undefined opcode, at the CPU's entry point
	m, err := NewWithROM(rom, nil, false)
	assert.NoError(t, err)

	m.RunFrames(5)
	assert.NotNil(t, m.Fault())
	assert.Equal(t, uint64(0), m.FrameCount())
}

func TestStepMCycleCountsExactlyOnePerCall(t *testing.T) {
	m := newTestMachine(t)
	for i := 0; i < CyclesPerFrame; i++ {
		if m.StepMCycle() {
			assert.Equal(t, uint64(1), m.FrameCount())
			return
		}
	}
	t.Fatal("expected a frame to become ready within CyclesPerFrame steps")
}

func TestButtonDownRequestsJoypadInterrupt(t *testing.T) {
	m := newTestMachine(t)
	m.ButtonDown(memory.KeyA)
	assert.NotEqual(t, uint8(0), m.ints.IF&0x10, "pressing a button should raise the joypad interrupt flag")
}

func TestButtonUpDoesNotRequestInterrupt(t *testing.T) {
	m := newTestMachine(t)
	m.ButtonDown(memory.KeyA)
	m.ints.IF = 0 // clear the edge the press raised
	m.ButtonUp(memory.KeyA)
	assert.Equal(t, uint8(0), m.ints.IF&0x10)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := newTestMachine(t)
	m.RunFrames(2)

	snap := m.Snapshot()

	m.RunFrames(3)
	assert.Equal(t, uint64(5), m.FrameCount())

	m.Restore(snap)
	assert.Equal(t, uint64(2), m.FrameCount())
	assert.Equal(t, snap.CPU.PC, m.cpu.PC)
}

func TestCloneProducesIndependentMachine(t *testing.T) {
	m := newTestMachine(t)
	m.RunFrames(1)

	clone, err := m.Clone()
	assert.NoError(t, err)
	assert.Equal(t, m.FrameCount(), clone.FrameCount())

	clone.RunFrames(3)
	assert.NotEqual(t, m.FrameCount(), clone.FrameCount(), "stepping the clone must not affect the original")
}

func TestCloneCopiesCartridgeSRAMIndependently(t *testing.T) {
	rom := buildROM(0x8000)
	rom[0x0147] = 0x03 // MBC1+RAM+BATTERY
	rom[0x0149] = 0x02 // 8KB SRAM
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[0x014D] = sum

	m, err := NewWithROM(rom, nil, false)
	assert.NoError(t, err)

	clone, err := m.Clone()
	assert.NoError(t, err)

	clone.SRAM()[0] = 0x42
	assert.NotEqual(t, m.SRAM()[0], clone.SRAM()[0], "clone's SRAM must be a deep copy")
}
