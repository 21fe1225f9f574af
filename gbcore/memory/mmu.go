// Package memory implements the peripheral bus: region decoding, cartridge
// ROM/MBC banking, WRAM/HRAM, OAM DMA, the color-model HDMA engine, and
// the timer/joypad registers.
package memory

import (
	"fmt"

	"github.com/dsanders/gbcore/addr"
	"github.com/dsanders/gbcore/audio"
	"github.com/dsanders/gbcore/internal/debugcheck"
	"github.com/dsanders/gbcore/interrupts"
	"github.com/dsanders/gbcore/serial"
	"github.com/dsanders/gbcore/video"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// MMU is the peripheral bus the CPU addresses through.
type MMU struct {
	cart *Cartridge
	mbc  MBC

	wram    [8][0x1000]byte // bank 0 fixed at 0xC000, SVBK selects 1-7 at 0xD000
	svbk    uint8
	hram    [0x80]byte
	bootROM *BootROM

	regionMap [256]memRegion

	PPU    *video.PPU
	APU    *audio.APU
	Timer  Timer
	Joypad *Joypad
	Serial *serial.Port

	ints *interrupts.Registers

	dmaActive bool
	dmaSource uint16
	dmaIndex  int

	hdmaSrc, hdmaDst uint16
	hdmaLenBlocks    int // remaining 0x10-byte blocks, -1 when idle
	hdmaHBlankMode   bool
}

// New returns an MMU with no cartridge loaded, backed by an empty
// NoMBC. colorCapable selects the PPU's color-model extensions.
func New(colorCapable bool) *MMU {
	m := &MMU{
		mbc:     NewNoMBC(make([]byte, 0x8000), nil),
		PPU:     video.New(colorCapable),
		APU:     audio.New(),
		Joypad:  NewJoypad(),
		Serial:  serial.New(),
		ints:    &interrupts.Registers{},
		hdmaLenBlocks: -1,
	}
	m.initRegionMap()
	return m
}

// LoadCartridge installs a parsed cartridge and its matching MBC.
func (m *MMU) LoadCartridge(cart *Cartridge) {
	m.cart = cart
	switch cart.MBC {
	case MBCNone:
		m.mbc = NewNoMBC(cart.ROM, cart.SRAM)
	case MBCType1:
		m.mbc = NewMBC1(cart.ROM, cart.SRAM)
	case MBCType3:
		m.mbc = NewMBC3(cart.ROM, cart.SRAM, cart.HasRTC)
	case MBCType5:
		m.mbc = NewMBC5(cart.ROM, cart.SRAM)
	default:
		panic(fmt.Sprintf("unsupported MBC kind: %d", cart.MBC))
	}
}

// Cartridge returns the currently loaded cartridge, or nil.
func (m *MMU) Cartridge() *Cartridge { return m.cart }

// SetBootROM installs a boot ROM overlay; pass nil to run without one
// (cartridge ROM is visible at 0x0000 from the start, as if the boot
// sequence already ran).
func (m *MMU) SetBootROM(b *BootROM) { m.bootROM = b }

func (m *MMU) Interrupts() *interrupts.Registers { return m.ints }

func (m *MMU) initRegionMap() {
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	m.regionMap[0xFE] = regionOAM
	m.regionMap[0xFF] = regionIO
}

func (m *MMU) wramBank() int {
	bank := int(m.svbk & 0x07)
	if bank == 0 {
		bank = 1
	}
	return bank
}

// Read implements cpu.Bus.
func (m *MMU) Read(address uint16) uint8 {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if address <= 0x7FFF {
			if v, ok := m.bootROM.Read(address); ok {
				return v
			}
		}
		return m.mbc.Read(address)
	case regionVRAM:
		return m.PPU.ReadVRAM(address)
	case regionWRAM:
		if address <= 0xCFFF {
			return m.wram[0][address-0xC000]
		}
		return m.wram[m.wramBank()][address-0xD000]
	case regionEcho:
		mirrored := address - 0x2000
		if mirrored <= 0xCFFF {
			return m.wram[0][mirrored-0xC000]
		}
		return m.wram[m.wramBank()][mirrored-0xD000]
	case regionOAM:
		if address <= 0xFE9F {
			return m.PPU.ReadOAM(address)
		}
		return 0xFF
	case regionIO:
		return m.readIO(address)
	default:
		return 0xFF
	}
}

// Write implements cpu.Bus.
func (m *MMU) Write(address uint16, value uint8) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		m.mbc.Write(address, value)
	case regionVRAM:
		m.PPU.WriteVRAM(address, value)
	case regionWRAM:
		if address <= 0xCFFF {
			m.wram[0][address-0xC000] = value
		} else {
			m.wram[m.wramBank()][address-0xD000] = value
		}
	case regionEcho:
		mirrored := address - 0x2000
		if mirrored <= 0xCFFF {
			m.wram[0][mirrored-0xC000] = value
		} else {
			m.wram[m.wramBank()][mirrored-0xD000] = value
		}
	case regionOAM:
		if address <= 0xFE9F {
			m.PPU.WriteOAM(address, value)
		}
	case regionIO:
		m.writeIO(address, value)
	}
}

func (m *MMU) readIO(address uint16) uint8 {
	if v, ok := m.PPU.ReadReg(address); ok {
		return v
	}
	switch {
	case address == addr.P1:
		return m.Joypad.ReadP1()
	case address == addr.SB:
		return m.Serial.ReadSB()
	case address == addr.SC:
		return m.Serial.ReadSC()
	case address == addr.DIV:
		return m.Timer.ReadDIV()
	case address == addr.TIMA:
		return m.Timer.ReadTIMA()
	case address == addr.TMA:
		return m.Timer.ReadTMA()
	case address == addr.TAC:
		return m.Timer.ReadTAC()
	case address == addr.IF:
		return m.ints.IF | 0xE0
	case address == addr.IE:
		return m.ints.IE
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return m.APU.ReadRegister(address)
	case address == addr.KEY1:
		return 0x7E
	case address == addr.SVBK:
		return m.svbk | 0xF8
	case address == addr.HDMA5:
		return m.readHDMA5()
	case address >= 0xFF80 && address <= 0xFFFE:
		return m.hram[address-0xFF80]
	default:
		return 0xFF
	}
}

func (m *MMU) writeIO(address uint16, value uint8) {
	if m.PPU.WriteReg(address, value) {
		return
	}
	switch {
	case address == addr.P1:
		m.Joypad.WriteP1(value)
	case address == addr.SB:
		m.Serial.WriteSB(value)
	case address == addr.SC:
		m.Serial.WriteSC(value)
	case address == addr.DIV:
		m.Timer.WriteDIV(value)
	case address == addr.TIMA:
		m.Timer.WriteTIMA(value)
	case address == addr.TMA:
		m.Timer.WriteTMA(value)
	case address == addr.TAC:
		m.Timer.WriteTAC(value)
	case address == addr.IF:
		m.ints.IF = value & 0x1F
	case address == addr.IE:
		m.ints.IE = value
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		m.APU.WriteRegister(address, value)
	case address == addr.DMA:
		m.startOAMDMA(value)
	case address == addr.SVBK:
		m.svbk = value & 0x07
	case address == addr.HDMA1:
		m.hdmaSrc = m.hdmaSrc&0x00FF | uint16(value)<<8
	case address == addr.HDMA2:
		m.hdmaSrc = m.hdmaSrc&0xFF00 | uint16(value&0xF0)
	case address == addr.HDMA3:
		m.hdmaDst = m.hdmaDst&0x00FF | uint16(value&0x1F)<<8
	case address == addr.HDMA4:
		m.hdmaDst = m.hdmaDst&0xFF00 | uint16(value&0xF0)
	case address == addr.HDMA5:
		m.startHDMA(value)
	case address == addr.BOOT:
		if value != 0 {
			m.bootROM.Disable()
		}
	case address >= 0xFF80 && address <= 0xFFFE:
		m.hram[address-0xFF80] = value
	}
}

// startOAMDMA begins a 160-M-cycle transfer from (value<<8) to OAM.
func (m *MMU) startOAMDMA(value uint8) {
	debugcheck.Assert(value <= 0xDF, "OAM DMA source page 0x%02X exceeds the v<=0xDF bound", value)
	m.dmaActive = true
	m.dmaSource = uint16(value) << 8
	m.dmaIndex = 0
	m.PPU.SetOAMDMAActive(true)
}

// TickDMA advances an active OAM DMA transfer by one M-cycle (one byte).
func (m *MMU) TickDMA() {
	if !m.dmaActive {
		return
	}
	b := m.Read(m.dmaSource + uint16(m.dmaIndex))
	m.PPU.WriteOAMDMA(0xFE00+uint16(m.dmaIndex), b)
	m.dmaIndex++
	if m.dmaIndex >= 160 {
		m.dmaActive = false
		m.PPU.SetOAMDMAActive(false)
	}
}

func (m *MMU) startHDMA(value uint8) {
	length := (int(value&0x7F) + 1) * 0x10
	if m.hdmaHBlankMode && value&0x80 == 0 {
		// Writing bit7=0 while an HBlank transfer is active cancels it.
		m.hdmaLenBlocks = -1
		m.hdmaHBlankMode = false
		return
	}
	if value&0x80 != 0 {
		m.hdmaHBlankMode = true
		m.hdmaLenBlocks = length / 0x10
		return
	}
	debugcheck.Assert(int(m.hdmaDst)+length <= 0x2000,
		"general-purpose HDMA destination 0x%04X+%d overruns the VRAM bank", m.hdmaDst, length)
	// General-purpose: copy the whole block immediately.
	for i := 0; i < length; i++ {
		b := m.Read(m.hdmaSrc + uint16(i))
		m.PPU.WriteVRAMRaw(0x8000+(m.hdmaDst+uint16(i))&0x1FFF, b)
	}
	m.hdmaSrc += uint16(length)
	m.hdmaDst += uint16(length)
	m.hdmaLenBlocks = -1
}

func (m *MMU) readHDMA5() uint8 {
	if m.hdmaLenBlocks < 0 {
		return 0xFF
	}
	return uint8(m.hdmaLenBlocks-1) & 0x7F
}

// TickHDMA drains one 0x10-byte block of an active HBlank-paced transfer;
// the caller invokes this once per PPU HBlank entry.
func (m *MMU) TickHDMA() {
	if !m.hdmaHBlankMode || m.hdmaLenBlocks <= 0 {
		return
	}
	for i := 0; i < 0x10; i++ {
		b := m.Read(m.hdmaSrc)
		m.PPU.WriteVRAMRaw(0x8000+m.hdmaDst&0x1FFF, b)
		m.hdmaSrc++
		m.hdmaDst++
	}
	m.hdmaLenBlocks--
	if m.hdmaLenBlocks == 0 {
		m.hdmaHBlankMode = false
		m.hdmaLenBlocks = -1
	}
}
