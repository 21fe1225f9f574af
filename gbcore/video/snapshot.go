package video

// Snapshot is the PPU's serializable state, part of the whole-machine
// snapshot. The scratch buffers a render pass
// fills and consumes within a single drawScanline call (spriteScan,
// bgPriority) are not part of it: they never survive past the Tick that
// produced them, so nothing observable is lost by omitting them.
type Snapshot struct {
	ColorCapable bool

	Mode         Mode
	CycleCounter int

	LCDC, STAT      uint8
	SCY, SCX        uint8
	LY, LYC         uint8
	BGP, OBP0, OBP1 uint8
	WY, WX, WLY     uint8

	VRAM [2][0x2000]byte
	VBK  uint8
	OAM  [0xA0]byte

	BGPalette, OBJPalette       [64]byte
	BGPaletteIdx, OBJPaletteIdx uint8

	OAMDMAActive bool

	FrameBuffer FrameBuffer
}

// Snapshot captures the PPU's entire state, including VRAM/OAM/palettes
// and the last completed frame buffer.
func (p *PPU) Snapshot() Snapshot {
	return Snapshot{
		ColorCapable:  p.colorCapable,
		Mode:          p.mode,
		CycleCounter:  p.cycleCounter,
		LCDC:          p.LCDC,
		STAT:          p.STAT,
		SCY:           p.SCY,
		SCX:           p.SCX,
		LY:            p.LY,
		LYC:           p.LYC,
		BGP:           p.BGP,
		OBP0:          p.OBP0,
		OBP1:          p.OBP1,
		WY:            p.WY,
		WX:            p.WX,
		WLY:           p.wly,
		VRAM:          p.vram,
		VBK:           p.vbk,
		OAM:           p.oam,
		BGPalette:     p.bgPalette,
		OBJPalette:    p.objPalette,
		BGPaletteIdx:  p.bgPaletteIdx,
		OBJPaletteIdx: p.objPaletteIdx,
		OAMDMAActive:  p.oamDMAActive,
		FrameBuffer:   *p.fb,
	}
}

// Restore replaces the PPU's state with a previously captured Snapshot.
func (p *PPU) Restore(s Snapshot) {
	p.colorCapable = s.ColorCapable
	p.mode = s.Mode
	p.cycleCounter = s.CycleCounter
	p.LCDC = s.LCDC
	p.STAT = s.STAT
	p.SCY = s.SCY
	p.SCX = s.SCX
	p.LY = s.LY
	p.LYC = s.LYC
	p.BGP = s.BGP
	p.OBP0 = s.OBP0
	p.OBP1 = s.OBP1
	p.WY = s.WY
	p.WX = s.WX
	p.wly = s.WLY
	p.vram = s.VRAM
	p.vbk = s.VBK
	p.oam = s.OAM
	p.bgPalette = s.BGPalette
	p.objPalette = s.OBJPalette
	p.bgPaletteIdx = s.BGPaletteIdx
	p.objPaletteIdx = s.OBJPaletteIdx
	p.oamDMAActive = s.OAMDMAActive
	fb := s.FrameBuffer
	p.fb = &fb
}
