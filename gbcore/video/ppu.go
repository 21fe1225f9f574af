package video

import (
	"github.com/dsanders/gbcore/addr"
	"github.com/dsanders/gbcore/bit"
	"github.com/dsanders/gbcore/interrupts"
)

// Mode is the PPU's scanline state, packed into STAT bits 1:0 exactly as
// the hardware does (0=HBlank,1=VBlank,2=OamScan,3=Drawing).
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMScan
	ModeDrawing
)

const (
	oamScanCycles = 20
	drawingCycles = 43
	hblankCycles  = 51
	scanlineCycles = oamScanCycles + drawingCycles + hblankCycles // 114
	vblankLines    = 10
)

// LCDC bit positions.
const (
	lcdcBGWindowEnable uint8 = 1 << 0
	lcdcOBJEnable      uint8 = 1 << 1
	lcdcOBJSize        uint8 = 1 << 2
	lcdcBGTileMap      uint8 = 1 << 3
	lcdcTileData       uint8 = 1 << 4
	lcdcWindowEnable   uint8 = 1 << 5
	lcdcWindowTileMap  uint8 = 1 << 6
	lcdcEnable         uint8 = 1 << 7
)

// STAT bit positions.
const (
	statLYCEqualLY      uint8 = 1 << 2
	statHBlankIntEnable uint8 = 1 << 3
	statVBlankIntEnable uint8 = 1 << 4
	statOAMIntEnable    uint8 = 1 << 5
	statLYCIntEnable    uint8 = 1 << 6
)

// PPU is the pixel-processing unit. One struct, one pipeline: colorCapable
// gates the VRAM-bank-1/attribute/palette-memory/HDMA extensions rather
// than forking a second implementation.
type PPU struct {
	colorCapable bool

	mode         Mode
	cycleCounter int

	LCDC, STAT       uint8
	SCY, SCX         uint8
	LY, LYC          uint8
	BGP, OBP0, OBP1  uint8
	WY, WX           uint8
	wly              uint8 // internal window-line counter

	vram [2][0x2000]byte
	vbk  uint8
	oam  [0xA0]byte

	// color-model palette memories: 8 palettes * 4 colors * 2 bytes (RGB555).
	bgPalette     [64]byte
	objPalette    [64]byte
	bgPaletteIdx  uint8
	objPaletteIdx uint8

	// oamDMAActive is set by the bus for the duration of an OAM DMA
	// transfer; OAM reads return 0xFF while it is true.
	oamDMAActive bool

	fb *FrameBuffer

	spriteScan [10]spriteEntry
	spriteN    int

	// bgPriority records, per pixel of the scanline just drawn, the
	// background color index and (color model) BG-master-priority bit,
	// consulted by drawSprites to resolve BG-over-sprite priority.
	bgPriority [Width * Height]bgPixelInfo
}

type spriteEntry struct {
	y, x, tile, attr uint8
	oamIndex         int
}

type bgPixelInfo struct {
	colorIdx       uint8
	masterPriority bool
}

// New returns a PPU in its post-boot-ROM power-on state.
func New(colorCapable bool) *PPU {
	p := &PPU{colorCapable: colorCapable}
	p.mode = ModeOAMScan
	p.LCDC = 0x91
	p.BGP = 0xFC
	p.fb = newFrameBuffer(colorCapable)
	return p
}

func (p *PPU) Framebuffer() *FrameBuffer { return p.fb }

func (p *PPU) SetOAMDMAActive(active bool) { p.oamDMAActive = active }

// Tick advances the PPU by one M-cycle and reports whether a full frame
// just became ready (VBlank -> OamScan wrap).
func (p *PPU) Tick(ints *interrupts.Registers) bool {
	if p.LCDC&lcdcEnable == 0 {
		return false
	}
	p.cycleCounter++
	switch p.mode {
	case ModeOAMScan:
		if p.cycleCounter == oamScanCycles {
			p.cycleCounter = 0
			p.setMode(ModeDrawing, ints)
		}
	case ModeDrawing:
		if p.cycleCounter == drawingCycles {
			p.cycleCounter = 0
			p.scanOAM()
			p.drawScanline()
			p.setMode(ModeHBlank, ints)
		}
	case ModeHBlank:
		if p.cycleCounter == hblankCycles {
			p.cycleCounter = 0
			p.LY++
			p.compareLYToLYC(ints)
			if p.LY == Height {
				p.setMode(ModeVBlank, ints)
				ints.Request(addr.VBlankInterrupt)
			} else {
				p.setMode(ModeOAMScan, ints)
			}
		}
	case ModeVBlank:
		if p.cycleCounter == scanlineCycles {
			p.cycleCounter = 0
			p.LY++
			if p.LY > Height+vblankLines-1 {
				p.LY = 0
				p.wly = 0
				p.compareLYToLYC(ints)
				p.setMode(ModeOAMScan, ints)
				return true
			}
			p.compareLYToLYC(ints)
		}
	}
	return false
}

func (p *PPU) setMode(m Mode, ints *interrupts.Registers) {
	p.mode = m
	p.STAT = p.STAT&^0x03 | uint8(m)
	switch m {
	case ModeHBlank:
		if p.STAT&statHBlankIntEnable != 0 {
			ints.Request(addr.LCDSTATInterrupt)
		}
	case ModeVBlank:
		if p.STAT&statVBlankIntEnable != 0 {
			ints.Request(addr.LCDSTATInterrupt)
		}
	case ModeOAMScan:
		if p.STAT&statOAMIntEnable != 0 {
			ints.Request(addr.LCDSTATInterrupt)
		}
	}
}

func (p *PPU) compareLYToLYC(ints *interrupts.Registers) {
	if p.LY == p.LYC {
		p.STAT |= statLYCEqualLY
		if p.STAT&statLYCIntEnable != 0 {
			ints.Request(addr.LCDSTATInterrupt)
		}
	} else {
		p.STAT &^= statLYCEqualLY
	}
}

// HBlankEntered reports whether the PPU is sitting at the very start of
// an HBlank period, used by the bus to drain one block of an active
// H-blank-paced HDMA transfer.
func (p *PPU) HBlankEntered() bool {
	return p.mode == ModeHBlank && p.cycleCounter == 0
}

// --- memory-mapped access ---

// ReadVRAM returns 0xFF while the PPU owns VRAM (mode Drawing).
func (p *PPU) ReadVRAM(a uint16) uint8 {
	if p.mode == ModeDrawing {
		return 0xFF
	}
	return p.vram[p.vramBank()][a-0x8000]
}

func (p *PPU) WriteVRAM(a uint16, val uint8) {
	if p.mode == ModeDrawing {
		return
	}
	p.vram[p.vramBank()][a-0x8000] = val
}

// WriteVRAMRaw bypasses mode gating; used by the bus's HDMA engine, which
// hardware lets write VRAM even mid-Drawing during an HBlank-paced block.
func (p *PPU) WriteVRAMRaw(a uint16, val uint8) {
	p.vram[p.vramBank()][a-0x8000] = val
}

func (p *PPU) vramBank() int {
	if p.colorCapable {
		return int(p.vbk & 0x1)
	}
	return 0
}

func (p *PPU) ReadOAM(a uint16) uint8 {
	if p.oamDMAActive || p.mode == ModeDrawing || p.mode == ModeOAMScan {
		return 0xFF
	}
	return p.oam[a-0xFE00]
}

func (p *PPU) WriteOAM(a uint16, val uint8) {
	if p.oamDMAActive || p.mode == ModeDrawing || p.mode == ModeOAMScan {
		return
	}
	p.oam[a-0xFE00] = val
}

// WriteOAMDMA writes unconditionally; the DMA engine itself is what holds
// exclusive access during the transfer.
func (p *PPU) WriteOAMDMA(a uint16, val uint8) { p.oam[a-0xFE00] = val }

func (p *PPU) ReadReg(a uint16) (uint8, bool) {
	switch a {
	case addr.LCDC:
		return p.LCDC, true
	case addr.STAT:
		return p.STAT | 0x80, true
	case addr.SCY:
		return p.SCY, true
	case addr.SCX:
		return p.SCX, true
	case addr.LY:
		return p.LY, true
	case addr.LYC:
		return p.LYC, true
	case addr.BGP:
		return p.BGP, true
	case addr.OBP0:
		return p.OBP0, true
	case addr.OBP1:
		return p.OBP1, true
	case addr.WY:
		return p.WY, true
	case addr.WX:
		return p.WX, true
	case addr.VBK:
		if !p.colorCapable {
			return 0xFF, true
		}
		return p.vbk | 0xFE, true
	case addr.BCPS:
		return p.bgPaletteIdx, true
	case addr.BCPD:
		return p.bgPalette[p.bgPaletteIdx&0x3F], true
	case addr.OCPS:
		return p.objPaletteIdx, true
	case addr.OCPD:
		return p.objPalette[p.objPaletteIdx&0x3F], true
	}
	return 0, false
}

func (p *PPU) WriteReg(a uint16, val uint8) bool {
	switch a {
	case addr.LCDC:
		p.LCDC = val
	case addr.STAT:
		p.STAT = p.STAT&0x07 | val&0x78
	case addr.SCY:
		p.SCY = val
	case addr.SCX:
		p.SCX = val
	case addr.LY:
		// read-only
	case addr.LYC:
		p.LYC = val
	case addr.BGP:
		p.BGP = val
	case addr.OBP0:
		p.OBP0 = val
	case addr.OBP1:
		p.OBP1 = val
	case addr.WY:
		p.WY = val
	case addr.WX:
		p.WX = val
	case addr.VBK:
		if p.colorCapable {
			p.vbk = val & 0x1
		}
	case addr.BCPS:
		p.bgPaletteIdx = val
	case addr.BCPD:
		p.bgPalette[p.bgPaletteIdx&0x3F] = val
		if p.bgPaletteIdx&0x80 != 0 {
			p.bgPaletteIdx = p.bgPaletteIdx&0x80 | (p.bgPaletteIdx+1)&0x3F
		}
	case addr.OCPS:
		p.objPaletteIdx = val
	case addr.OCPD:
		p.objPalette[p.objPaletteIdx&0x3F] = val
		if p.objPaletteIdx&0x80 != 0 {
			p.objPaletteIdx = p.objPaletteIdx&0x80 | (p.objPaletteIdx+1)&0x3F
		}
	default:
		return false
	}
	return true
}

func (p *PPU) paletteRGB555(mem *[64]byte, paletteIdx, colorIdx uint8) uint16 {
	offset := int(paletteIdx)*8 + int(colorIdx)*2
	return bit.Combine(mem[offset+1], mem[offset])
}
