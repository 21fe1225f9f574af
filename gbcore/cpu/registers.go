package cpu

import "github.com/dsanders/gbcore/bit"

// Flag bit positions within F. Only the high nibble is meaningful; the
// low nibble always reads back zero.
const (
	FlagZ uint8 = 1 << 7
	FlagN uint8 = 1 << 6
	FlagH uint8 = 1 << 5
	FlagC uint8 = 1 << 4
)

// Registers holds the eight 8-bit registers plus SP/PC. A..L are plain
// fields rather than the wrapper types some emulator codebases use; the
// register-pair views (BC, DE, HL, AF) are computed on demand.
type Registers struct {
	A, F   uint8
	B, C   uint8
	D, E   uint8
	H, L   uint8
	SP, PC uint16
}

func (r *Registers) BC() uint16 { return bit.Combine(r.B, r.C) }
func (r *Registers) DE() uint16 { return bit.Combine(r.D, r.E) }
func (r *Registers) HL() uint16 { return bit.Combine(r.H, r.L) }
func (r *Registers) AF() uint16 { return bit.Combine(r.A, r.F&0xF0) }

func (r *Registers) SetBC(v uint16) { r.B, r.C = bit.High(v), bit.Low(v) }
func (r *Registers) SetDE(v uint16) { r.D, r.E = bit.High(v), bit.Low(v) }
func (r *Registers) SetHL(v uint16) { r.H, r.L = bit.High(v), bit.Low(v) }
func (r *Registers) SetAF(v uint16) { r.A, r.F = bit.High(v), bit.Low(v)&0xF0 }

// Flag reports whether the given flag bit is currently set.
func (r *Registers) Flag(mask uint8) bool { return r.F&mask != 0 }

// SetFlag sets or clears the given flag bit according to on.
func (r *Registers) SetFlag(mask uint8, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}
