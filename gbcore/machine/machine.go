// Package machine is the top-level driver: it owns one of each
// subsystem (CPU, bus/cartridge, timer, joypad, serial, APU, PPU), steps
// them in a fixed order each M-cycle, and exposes the external
// interface (ROM/save loading, input events, frame/audio/SRAM output,
// whole-machine snapshot/restore).
package machine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dsanders/gbcore/addr"
	"github.com/dsanders/gbcore/audio"
	"github.com/dsanders/gbcore/cpu"
	"github.com/dsanders/gbcore/interrupts"
	"github.com/dsanders/gbcore/memory"
	"github.com/dsanders/gbcore/serial"
	"github.com/dsanders/gbcore/video"
)

// CyclesPerFrame is the number of M-cycles in one full frame: 154
// scanlines of 114 M-cycles each.
const CyclesPerFrame = 154 * 114

// Machine is the whole emulated console: CPU, bus, and every peripheral
// the bus dispatches to, advanced in lock-step by RunFrame/StepMCycle.
type Machine struct {
	cpu  *cpu.CPU
	bus  *memory.MMU
	ints *interrupts.Registers

	instructionCount uint64
	frameCount       uint64
}

// New returns a Machine with no cartridge loaded (a bare NoMBC with a
// 32KB zero ROM). colorCapable selects PPU/WRAM color-model extensions.
func New(colorCapable bool) *Machine {
	bus := memory.New(colorCapable)
	m := &Machine{
		cpu:  cpu.New(),
		bus:  bus,
		ints: bus.Interrupts(),
	}
	return m
}

// NewWithROM parses rom (and optional save) into a cartridge, installs
// it, and returns a ready-to-run Machine.
func NewWithROM(rom, save []byte, colorCapable bool) (*Machine, error) {
	cart, err := memory.NewCartridgeWithSave(rom, save)
	if err != nil {
		return nil, fmt.Errorf("machine: loading cartridge: %w", err)
	}
	m := New(colorCapable || cart.ColorSupported)
	m.bus.LoadCartridge(cart)
	return m, nil
}

// NewWithFile loads a ROM (and, if present, a "<rom>.sav" save file
// alongside it) from disk.
func NewWithFile(romPath string, colorCapable bool) (*Machine, error) {
	data, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("machine: reading ROM: %w", err)
	}
	var save []byte
	if savData, err := os.ReadFile(romPath + ".sav"); err == nil {
		save = savData
	}
	return NewWithROM(data, save, colorCapable)
}

// SetBootROM installs a boot ROM overlay; see memory.BootROM.
func (m *Machine) SetBootROM(b *memory.BootROM) { m.bus.SetBootROM(b) }

// SetAudioSink attaches the sink that receives finished sample buffers.
func (m *Machine) SetAudioSink(s audio.Sink) { m.bus.APU.SetSink(s) }

// SetSerialPeer attaches a link-cable peer; see serial.Peer.
func (m *Machine) SetSerialPeer(p serial.Peer) { m.bus.Serial.SetPeer(p) }

// Fault returns the CPU fault that halted execution, or nil if the
// machine is still running normally.
func (m *Machine) Fault() *cpu.Fault { return m.cpu.Fault }

// Framebuffer returns the PPU's most recently completed frame.
func (m *Machine) Framebuffer() *video.FrameBuffer { return m.bus.PPU.Framebuffer() }

// SRAM returns the cartridge's battery-backed RAM for persistence, or nil
// if no cartridge is loaded or it has none.
func (m *Machine) SRAM() []byte {
	cart := m.bus.Cartridge()
	if cart == nil {
		return nil
	}
	return cart.SRAM
}

// InstructionCount and FrameCount expose running counters useful for
// debugger/snapshot tooling. InstructionCount advances once per
// StepMCycle call while the CPU is not faulted, so it counts CPU M-cycles
// stepped, not retired instructions.
func (m *Machine) InstructionCount() uint64 { return m.instructionCount }
func (m *Machine) FrameCount() uint64       { return m.frameCount }

// ButtonDown and ButtonUp forward joypad input events.
func (m *Machine) ButtonDown(k memory.Key) {
	if m.bus.Joypad.Press(k) {
		m.ints.Request(addr.JoypadInterrupt)
	}
}

func (m *Machine) ButtonUp(k memory.Key) { m.bus.Joypad.Release(k) }

// StepMCycle advances every subsystem by exactly one M-cycle, in a
// fixed order: CPU, then timer, then serial, then APU, then PPU (plus
// any active DMA); the IRQ hand-off becomes visible to the CPU at its
// next call. It returns true the M-cycle a full frame becomes ready.
func (m *Machine) StepMCycle() bool {
	if m.cpu.Fault != nil {
		return false
	}

	m.cpu.StepMCycle(m.bus, m.ints)
	m.instructionCount++

	if m.bus.Timer.Tick() {
		m.ints.Request(addr.TimerInterrupt)
	}
	if m.bus.Serial.Tick() {
		m.ints.Request(addr.SerialInterrupt)
	}
	m.bus.APU.Tick()

	m.bus.TickDMA()
	frameReady := m.bus.PPU.Tick(m.ints)
	if m.bus.PPU.HBlankEntered() {
		m.bus.TickHDMA()
	}

	if frameReady {
		m.frameCount++
	}
	return frameReady
}

// RunFrame steps the machine until a full frame is ready or the CPU
// faults.
func (m *Machine) RunFrame() {
	for {
		if m.cpu.Fault != nil {
			return
		}
		if m.StepMCycle() {
			return
		}
	}
}

// RunFrames runs n full frames, stopping early if the CPU faults.
func (m *Machine) RunFrames(n int) {
	for i := 0; i < n && m.cpu.Fault == nil; i++ {
		m.RunFrame()
	}
}

// Snapshot is the serializable whole-machine state tree. Callback
// fields (AudioSink, SerialPeer) are intentionally absent; callers
// re-attach them after Restore via SetAudioSink/SetSerialPeer.
type Snapshot struct {
	CPU    cpu.Snapshot         `json:"cpu"`
	Bus    memory.Snapshot      `json:"bus"`
	PPU    video.Snapshot       `json:"ppu"`
	APU    audio.Snapshot       `json:"apu"`
	Serial serial.Snapshot      `json:"serial"`
	Ints   interrupts.Registers `json:"interrupts"`

	InstructionCount uint64 `json:"instructionCount"`
	FrameCount       uint64 `json:"frameCount"`
}

// Snapshot captures the machine's entire deterministic state: CPU, bus
// (WRAM/HRAM/MBC/DMA/timer/joypad), PPU, APU, serial port, and the
// interrupt register file.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		CPU:              m.cpu.Snapshot(),
		Bus:              m.bus.Snapshot(),
		PPU:              m.bus.PPU.Snapshot(),
		APU:              m.bus.APU.Snapshot(),
		Serial:           m.bus.Serial.Snapshot(),
		Ints:             *m.ints,
		InstructionCount: m.instructionCount,
		FrameCount:       m.frameCount,
	}
}

// Restore replaces the machine's state with a previously captured
// Snapshot. Audio sink and serial peer, being non-serializable, are left
// untouched; re-attach them afterward if the caller needs them.
func (m *Machine) Restore(s Snapshot) {
	m.cpu.Restore(s.CPU)
	m.bus.Restore(s.Bus)
	m.bus.PPU.Restore(s.PPU)
	m.bus.APU.Restore(s.APU)
	m.bus.Serial.Restore(s.Serial)
	*m.ints = s.Ints
	m.instructionCount = s.InstructionCount
	m.frameCount = s.FrameCount
}

// Clone produces an independent copy of the machine by round-tripping a
// Snapshot through encoding/json, the mechanism used to produce a peer
// machine for link-cable emulation. The clone has no audio sink or
// serial peer attached.
func (m *Machine) Clone() (*Machine, error) {
	snap := m.Snapshot()
	blob, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("machine: cloning snapshot: %w", err)
	}
	var restored Snapshot
	if err := json.Unmarshal(blob, &restored); err != nil {
		return nil, fmt.Errorf("machine: restoring cloned snapshot: %w", err)
	}

	clone := New(m.bus.PPU.Framebuffer().ColorCapable)
	if cart := m.bus.Cartridge(); cart != nil {
		cartCopy := *cart
		cartCopy.ROM = append([]byte(nil), cart.ROM...)
		cartCopy.SRAM = append([]byte(nil), cart.SRAM...)
		clone.bus.LoadCartridge(&cartCopy)
	}
	clone.Restore(restored)
	return clone, nil
}
