// Package video implements the pixel-processing unit: the scanline state
// machine, background/window/sprite rendering, OAM scan with priority
// tie-breaking, and the color-model (CGB) palette/VRAM-bank/HDMA
// extensions, as one colorCapable-gated pipeline rather than a
// duplicated color/monochrome pair of packages.
package video

const (
	Width  = 160
	Height = 144
)

// monochrome shade constants, in the order BGP/OBPx 2-bit indices map to.
const (
	ShadeWhite     uint8 = 0x00
	ShadeLightGray uint8 = 0x55
	ShadeDarkGray  uint8 = 0xAA
	ShadeBlack     uint8 = 0xFF
)

var monochromeShades = [4]uint8{ShadeWhite, ShadeLightGray, ShadeDarkGray, ShadeBlack}

// FrameBuffer holds one rendered frame. Monochrome uses Gray (one byte
// per pixel); color mode uses RGBA (four bytes per pixel, populated via
// upscale5to8). Exactly one of the two slices is populated, selected by
// the PPU's colorCapable flag at construction.
type FrameBuffer struct {
	ColorCapable bool
	Gray         []uint8 // len Width*Height when !ColorCapable
	RGBA         []uint8 // len Width*Height*4 when ColorCapable
}

func newFrameBuffer(colorCapable bool) *FrameBuffer {
	fb := &FrameBuffer{ColorCapable: colorCapable}
	if colorCapable {
		fb.RGBA = make([]uint8, Width*Height*4)
	} else {
		fb.Gray = make([]uint8, Width*Height)
	}
	return fb
}

func (fb *FrameBuffer) setGray(x, y int, shadeIndex uint8) {
	fb.Gray[y*Width+x] = monochromeShades[shadeIndex&0x3]
}

// setRGB555 writes an RGB555 color (as packed by the BG/OBJ color palette
// memories) to pixel (x,y), upscaling each 5-bit component to 8 bits via
// (c<<3)|(c>>2).
func (fb *FrameBuffer) setRGB555(x, y int, rgb555 uint16) {
	r := upscale5to8(uint8(rgb555 & 0x1F))
	g := upscale5to8(uint8((rgb555 >> 5) & 0x1F))
	b := upscale5to8(uint8((rgb555 >> 10) & 0x1F))
	i := (y*Width + x) * 4
	fb.RGBA[i+0] = r
	fb.RGBA[i+1] = g
	fb.RGBA[i+2] = b
	fb.RGBA[i+3] = 0xFF
}

func upscale5to8(c uint8) uint8 {
	return c<<3 | c>>2
}
