package memory

import "github.com/dsanders/gbcore/bit"

// Key names one of the eight Game Boy buttons.
type Key uint8

const (
	KeyRight Key = iota
	KeyLeft
	KeyUp
	KeyDown
	KeyA
	KeyB
	KeySelect
	KeyStart
)

// Joypad is the P1 register and the button/d-pad state it multiplexes.
type Joypad struct {
	buttons uint8 // bits 0-3: A,B,Select,Start; 1 = released
	dpad    uint8 // bits 0-3: Right,Left,Up,Down; 1 = released
	selectP1 uint8
}

func NewJoypad() *Joypad {
	return &Joypad{buttons: 0x0F, dpad: 0x0F}
}

func (j *Joypad) ReadP1() uint8 {
	result := uint8(0b1100_0000) | j.selectP1&0b0011_0000
	selectDpad := !bit.IsSet(4, j.selectP1)
	selectButtons := !bit.IsSet(5, j.selectP1)

	switch {
	case selectButtons && !selectDpad:
		result |= j.buttons & 0x0F
	case selectDpad && !selectButtons:
		result |= j.dpad & 0x0F
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad & 0x0F
	default:
		result |= 0x0F
	}
	return result
}

func (j *Joypad) WriteP1(value uint8) {
	j.selectP1 = value & 0b0011_0000
}

// Press reports whether this transition should request the JOYPAD
// interrupt (a 1-to-0 edge on one of the selected lines).
func (j *Joypad) Press(key Key) (requestIRQ bool) {
	before := j.ReadP1() & 0x0F
	switch key {
	case KeyRight:
		j.dpad = bit.Reset(0, j.dpad)
	case KeyLeft:
		j.dpad = bit.Reset(1, j.dpad)
	case KeyUp:
		j.dpad = bit.Reset(2, j.dpad)
	case KeyDown:
		j.dpad = bit.Reset(3, j.dpad)
	case KeyA:
		j.buttons = bit.Reset(0, j.buttons)
	case KeyB:
		j.buttons = bit.Reset(1, j.buttons)
	case KeySelect:
		j.buttons = bit.Reset(2, j.buttons)
	case KeyStart:
		j.buttons = bit.Reset(3, j.buttons)
	}
	after := j.ReadP1() & 0x0F
	return before&^after != 0
}

func (j *Joypad) Release(key Key) {
	switch key {
	case KeyRight:
		j.dpad = bit.Set(0, j.dpad)
	case KeyLeft:
		j.dpad = bit.Set(1, j.dpad)
	case KeyUp:
		j.dpad = bit.Set(2, j.dpad)
	case KeyDown:
		j.dpad = bit.Set(3, j.dpad)
	case KeyA:
		j.buttons = bit.Set(0, j.buttons)
	case KeyB:
		j.buttons = bit.Set(1, j.buttons)
	case KeySelect:
		j.buttons = bit.Set(2, j.buttons)
	case KeyStart:
		j.buttons = bit.Set(3, j.buttons)
	}
}
