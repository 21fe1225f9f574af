package memory

import "github.com/dsanders/gbcore/bit"

// Timer implements DIV/TIMA/TMA/TAC over an internal 16-bit counter with
// falling-edge TIMA-increment detection, driven per processor clock (4
// per M-cycle) to match the core's M-cycle-stepped driver loop.
type Timer struct {
	counter         uint16
	lastTimerBit    bool
	overflowMCycles int // M-cycles remaining until the delayed TMA reload+IRQ

	div  uint8
	tima uint8
	tma  uint8
	tac  uint8
}

var timerTapBit = [4]uint8{9, 3, 5, 7}

// Tick advances the timer by one M-cycle (4 processor clocks) and reports
// whether the TIMER interrupt should be requested this call.
func (t *Timer) Tick() (requestIRQ bool) {
	if t.overflowMCycles > 0 {
		t.overflowMCycles--
		if t.overflowMCycles == 0 {
			t.tima = t.tma
			requestIRQ = true
		}
	}

	for i := 0; i < 4; i++ {
		t.counter++
		t.div = uint8(t.counter >> 8)

		if t.overflowMCycles > 0 {
			continue
		}

		if t.tac&0x04 == 0 {
			t.lastTimerBit = false
			continue
		}

		bitPos := timerTapBit[t.tac&0x03]
		current := bit.IsSet16(uint16(bitPos), t.counter)
		if t.lastTimerBit && !current {
			if t.tima == 0xFF {
				t.tima = 0
				t.overflowMCycles = 1
			} else {
				t.tima++
			}
		}
		t.lastTimerBit = current
	}

	return requestIRQ
}

func (t *Timer) ReadDIV() uint8  { return t.div }
func (t *Timer) ReadTIMA() uint8 { return t.tima }
func (t *Timer) ReadTMA() uint8  { return t.tma }
func (t *Timer) ReadTAC() uint8  { return t.tac | 0b1111_1000 }

func (t *Timer) WriteDIV(uint8) {
	t.counter = 0
	t.div = 0
}
// WriteTIMA is suppressed while a TMA reload is pending: hardware is busy
// committing the overflow reload that M-cycle and ignores the write.
func (t *Timer) WriteTIMA(v uint8) {
	if t.overflowMCycles > 0 {
		return
	}
	t.tima = v
}
func (t *Timer) WriteTMA(v uint8)  { t.tma = v }
func (t *Timer) WriteTAC(v uint8)  { t.tac = v & 0x07 }
