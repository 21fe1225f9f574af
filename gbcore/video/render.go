package video

// render.go implements the three-pass scanline renderer (background,
// window, sprites) and the OAM scan/priority tie-break, shared by both
// the monochrome and color-model pipelines.

// scanOAM finds up to 10 sprites whose Y-range covers the about-to-be-
// drawn scanline (LY), in OAM order; drawScanline re-sorts them for
// priority.
func (p *PPU) scanOAM() {
	height := 8
	if p.LCDC&lcdcOBJSize != 0 {
		height = 16
	}
	p.spriteN = 0
	for i := 0; i < 40 && p.spriteN < 10; i++ {
		base := i * 4
		y := int(p.oam[base]) - 16
		if int(p.LY) < y || int(p.LY) >= y+height {
			continue
		}
		p.spriteScan[p.spriteN] = spriteEntry{
			y:        p.oam[base],
			x:        p.oam[base+1],
			tile:     p.oam[base+2],
			attr:     p.oam[base+3],
			oamIndex: i,
		}
		p.spriteN++
	}
}

func (p *PPU) drawScanline() {
	if p.LCDC&lcdcBGWindowEnable != 0 || p.colorCapable {
		p.drawBackground()
		if p.LCDC&lcdcWindowEnable != 0 {
			p.drawWindow()
		}
	} else {
		p.clearScanlineToWhite()
	}
	if p.LCDC&lcdcOBJEnable != 0 {
		p.drawSprites()
	}
}

func (p *PPU) clearScanlineToWhite() {
	y := int(p.LY)
	for x := 0; x < Width; x++ {
		p.fb.setGray(x, y, 0)
		p.bgPriority[y*Width+x] = bgPixelInfo{}
	}
}

func (p *PPU) drawBackground() {
	y := int(p.LY)
	mapBase := uint16(0x9800)
	if p.LCDC&lcdcBGTileMap != 0 {
		mapBase = 0x9C00
	}
	tileY := (y + int(p.SCY)) & 0xFF
	for x := 0; x < Width; x++ {
		tileX := (x + int(p.SCX)) & 0xFF
		p.plotBGPixel(x, y, mapBase, tileX, tileY, false)
	}
}

func (p *PPU) drawWindow() {
	y := int(p.LY)
	wx := int(p.WX) - 7
	if y < int(p.WY) {
		return
	}
	if wx >= Width {
		return
	}
	mapBase := uint16(0x9800)
	if p.LCDC&lcdcWindowTileMap != 0 {
		mapBase = 0x9C00
	}
	drew := false
	for x := 0; x < Width; x++ {
		winX := x - wx
		if winX < 0 {
			continue
		}
		p.plotBGPixel(x, y, mapBase, winX, int(p.wly), true)
		drew = true
	}
	if drew {
		p.wly++
	}
}

// plotBGPixel renders one background-or-window pixel at screen (x,y),
// sourcing the tile index from the given map and the tile-local
// coordinate (tileX,tileY).
func (p *PPU) plotBGPixel(x, y int, mapBase uint16, tileX, tileY int, isWindow bool) {
	col, row := tileX/8, tileY/8
	tileMapAddr := mapBase + uint16(row*32+col)
	tileIndex := p.vram[0][tileMapAddr-0x8000]

	var attr uint8
	if p.colorCapable {
		attr = p.vram[1][tileMapAddr-0x8000]
	}
	bank := 0
	if attr&0x8 != 0 {
		bank = 1
	}

	px, py := tileX%8, tileY%8
	if attr&0x20 != 0 { // X flip
		px = 7 - px
	}
	if attr&0x40 != 0 { // Y flip
		py = 7 - py
	}

	tileDataAddr := p.tileDataAddr(tileIndex)
	lo := p.vram[bank][tileDataAddr+uint16(py)*2-0x8000]
	hi := p.vram[bank][tileDataAddr+uint16(py)*2+1-0x8000]
	colorIdx := pixelBit(lo, hi, px)

	if p.colorCapable {
		palette := attr & 0x7
		rgb := p.paletteRGB555(&p.bgPalette, palette, colorIdx)
		p.fb.setRGB555(x, y, rgb)
		p.bgPriority[y*Width+x] = bgPixelInfo{colorIdx: colorIdx, masterPriority: attr&0x80 != 0}
	} else {
		shade := (p.BGP >> (colorIdx * 2)) & 0x3
		p.fb.setGray(x, y, shade)
		p.bgPriority[y*Width+x] = bgPixelInfo{colorIdx: colorIdx}
	}
}

// tileDataAddr resolves a tile index to its VRAM address per LCDC's
// addressing mode: unsigned from 0x8000, or signed relative to 0x9000.
func (p *PPU) tileDataAddr(tileIndex uint8) uint16 {
	if p.LCDC&lcdcTileData != 0 {
		return 0x8000 + uint16(tileIndex)*16
	}
	return uint16(0x9000 + int(int8(tileIndex))*16)
}

func pixelBit(lo, hi uint8, px int) uint8 {
	bitIdx := 7 - px
	l := (lo >> bitIdx) & 1
	h := (hi >> bitIdx) & 1
	return h<<1 | l
}

func (p *PPU) drawSprites() {
	y := int(p.LY)
	height := 8
	if p.LCDC&lcdcOBJSize != 0 {
		height = 16
	}

	// Sort a copy by X descending, then OAM index descending, so lower
	// index/X sprites are drawn last and overdraw on ties.
	order := make([]int, p.spriteN)
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := p.spriteScan[order[j-1]], p.spriteScan[order[j]]
			if less(a, b) {
				order[j-1], order[j] = order[j], order[j-1]
			} else {
				break
			}
		}
	}

	for _, idx := range order {
		s := p.spriteScan[idx]
		spriteX := int(s.x) - 8
		spriteY := int(s.y) - 16
		tile := s.tile
		if height == 16 {
			tile &^= 1
		}
		row := y - spriteY
		if s.attr&0x40 != 0 { // Y flip
			row = height - 1 - row
		}
		tileIdx := tile
		if height == 16 && row >= 8 {
			tileIdx = tile | 1
			row -= 8
		}

		bank := 0
		if p.colorCapable && s.attr&0x8 != 0 {
			bank = 1
		}
		tileAddr := 0x8000 + uint16(tileIdx)*16
		lo := p.vram[bank][tileAddr+uint16(row)*2-0x8000]
		hi := p.vram[bank][tileAddr+uint16(row)*2+1-0x8000]

		for px := 0; px < 8; px++ {
			x := spriteX + px
			if x < 0 || x >= Width {
				continue
			}
			col := px
			if s.attr&0x20 == 0 { // sprites store flip inverted vs bg helper
				col = 7 - px
			}
			colorIdx := pixelBit(lo, hi, 7-col)
			if colorIdx == 0 {
				continue
			}
			bgInfo := p.bgPriority[y*Width+x]
			if p.spriteHiddenBehindBG(s.attr, bgInfo) {
				continue
			}
			if p.colorCapable {
				palette := s.attr & 0x7
				rgb := p.paletteRGB555(&p.objPalette, palette, colorIdx)
				p.fb.setRGB555(x, y, rgb)
			} else {
				palette := p.OBP0
				if s.attr&0x10 != 0 {
					palette = p.OBP1
				}
				shade := (palette >> (colorIdx * 2)) & 0x3
				p.fb.setGray(x, y, shade)
			}
		}
	}
}

func (p *PPU) spriteHiddenBehindBG(attr uint8, bg bgPixelInfo) bool {
	if bg.colorIdx == 0 {
		return false
	}
	if p.colorCapable {
		if p.LCDC&lcdcBGWindowEnable == 0 {
			return false
		}
		if bg.masterPriority {
			return true
		}
	}
	return attr&0x80 != 0
}

func less(a, b spriteEntry) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	return a.oamIndex < b.oamIndex
}
