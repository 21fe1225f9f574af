package memory

// TimerSnapshot is the timer's serializable state.
type TimerSnapshot struct {
	Counter             uint16
	LastTimerBit        bool
	OverflowMCycles     int
	DIV, TIMA, TMA, TAC uint8
}

func (t *Timer) Snapshot() TimerSnapshot {
	return TimerSnapshot{
		Counter: t.counter, LastTimerBit: t.lastTimerBit,
		OverflowMCycles: t.overflowMCycles,
		DIV:             t.div, TIMA: t.tima, TMA: t.tma, TAC: t.tac,
	}
}

func (t *Timer) Restore(s TimerSnapshot) {
	t.counter, t.lastTimerBit = s.Counter, s.LastTimerBit
	t.overflowMCycles = s.OverflowMCycles
	t.div, t.tima, t.tma, t.tac = s.DIV, s.TIMA, s.TMA, s.TAC
}

// JoypadSnapshot is the joypad's serializable state.
type JoypadSnapshot struct {
	Buttons, Dpad, SelectP1 uint8
}

func (j *Joypad) Snapshot() JoypadSnapshot {
	return JoypadSnapshot{Buttons: j.buttons, Dpad: j.dpad, SelectP1: j.selectP1}
}

func (j *Joypad) Restore(s JoypadSnapshot) {
	j.buttons, j.dpad, j.selectP1 = s.Buttons, s.Dpad, s.SelectP1
}

// BootROMSnapshot is the boot ROM overlay's serializable state.
type BootROMSnapshot struct {
	Data   []byte
	Active bool
}

// MBCSnapshot is a generic view over every MBC kind's banking state; the
// fields that don't apply to a given kind are simply left zero. This
// avoids growing the MBC interface with a per-implementation Snapshot
// type for three small, closely related state shapes.
type MBCSnapshot struct {
	Kind MBCKind

	RAMEnabled bool
	LowBank    uint16
	HighBank   uint8
	Mode       bool
	RTCMode    bool
	RTC        [5]uint8

	SRAM []byte
}

func snapshotMBC(m MBC) MBCSnapshot {
	switch v := m.(type) {
	case *NoMBC:
		return MBCSnapshot{Kind: MBCNone, SRAM: append([]byte(nil), v.sram...)}
	case *MBC1:
		return MBCSnapshot{
			Kind: MBCType1, RAMEnabled: v.ramEnabled, LowBank: uint16(v.lowBank),
			HighBank: v.highBank, Mode: v.mode, SRAM: append([]byte(nil), v.sram...),
		}
	case *MBC3:
		return MBCSnapshot{
			Kind: MBCType3, RAMEnabled: v.ramEnabled, LowBank: uint16(v.lowBank),
			HighBank: v.highBank, RTCMode: v.rtcMode, RTC: v.rtc,
			SRAM: append([]byte(nil), v.sram...),
		}
	case *MBC5:
		return MBCSnapshot{
			Kind: MBCType5, RAMEnabled: v.ramEnabled, LowBank: v.lowBank,
			HighBank: v.highBank, SRAM: append([]byte(nil), v.sram...),
		}
	default:
		return MBCSnapshot{}
	}
}

// restoreMBC applies a previously captured MBCSnapshot onto the MBC
// already installed on m (same ROM, same kind — LoadCartridge must have
// run first so bank-count derived masks match).
func restoreMBC(m MBC, s MBCSnapshot) {
	switch v := m.(type) {
	case *NoMBC:
		copy(v.sram, s.SRAM)
	case *MBC1:
		v.ramEnabled, v.lowBank, v.highBank, v.mode = s.RAMEnabled, uint8(s.LowBank), s.HighBank, s.Mode
		copy(v.sram, s.SRAM)
	case *MBC3:
		v.ramEnabled, v.lowBank, v.highBank = s.RAMEnabled, uint8(s.LowBank), s.HighBank
		v.rtcMode, v.rtc = s.RTCMode, s.RTC
		copy(v.sram, s.SRAM)
	case *MBC5:
		v.ramEnabled, v.lowBank, v.highBank = s.RAMEnabled, s.LowBank, s.HighBank
		copy(v.sram, s.SRAM)
	}
}

// Snapshot is the peripheral bus's serializable state: WRAM/HRAM, bank
// selects, the boot ROM overlay, MBC banking state + SRAM, and every
// directly-owned peripheral's own Snapshot.
type Snapshot struct {
	WRAM [8][0x1000]byte
	SVBK uint8
	HRAM [0x80]byte

	BootROM *BootROMSnapshot
	MBC     MBCSnapshot

	DMAActive bool
	DMASource uint16
	DMAIndex  int

	HDMASrc, HDMADst uint16
	HDMALenBlocks    int
	HDMAHBlankMode   bool

	Timer  TimerSnapshot
	Joypad JoypadSnapshot
}

// Snapshot captures the bus's own state plus every peripheral it owns
// directly (PPU/APU/Serial snapshots are composed by Machine.Snapshot
// since they live in their own packages).
func (m *MMU) Snapshot() Snapshot {
	s := Snapshot{
		WRAM: m.wram, SVBK: m.svbk, HRAM: m.hram,
		MBC:           snapshotMBC(m.mbc),
		DMAActive:     m.dmaActive,
		DMASource:     m.dmaSource,
		DMAIndex:      m.dmaIndex,
		HDMASrc:       m.hdmaSrc,
		HDMADst:       m.hdmaDst,
		HDMALenBlocks: m.hdmaLenBlocks,
		HDMAHBlankMode: m.hdmaHBlankMode,
		Timer:         m.Timer.Snapshot(),
		Joypad:        m.Joypad.Snapshot(),
	}
	if m.bootROM != nil {
		s.BootROM = &BootROMSnapshot{
			Data:   append([]byte(nil), m.bootROM.data...),
			Active: m.bootROM.active,
		}
	}
	return s
}

// Restore replaces the bus's own state, and that of the timer and joypad,
// with a previously captured Snapshot. PPU/APU/Serial are not restored
// here; Machine.Restore restores them from their own snapshots.
func (m *MMU) Restore(s Snapshot) {
	m.wram, m.svbk, m.hram = s.WRAM, s.SVBK, s.HRAM
	restoreMBC(m.mbc, s.MBC)
	if cart := m.cart; cart != nil {
		copy(cart.SRAM, s.MBC.SRAM)
	}
	m.dmaActive, m.dmaSource, m.dmaIndex = s.DMAActive, s.DMASource, s.DMAIndex
	m.hdmaSrc, m.hdmaDst, m.hdmaLenBlocks, m.hdmaHBlankMode = s.HDMASrc, s.HDMADst, s.HDMALenBlocks, s.HDMAHBlankMode
	m.Timer.Restore(s.Timer)
	m.Joypad.Restore(s.Joypad)
	if s.BootROM != nil {
		m.bootROM = &BootROM{data: append([]byte(nil), s.BootROM.Data...), active: s.BootROM.Active}
	} else {
		m.bootROM = nil
	}
}
