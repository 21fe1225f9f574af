package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fillBanked returns a ROM of the given size with each 16KB bank filled
// with its own bank number, making bank-switching mistakes visible.
func fillBanked(size int) []byte {
	rom := make([]byte, size)
	for i := range rom {
		rom[i] = uint8(i / 0x4000)
	}
	return rom
}

func TestMBC1BankZeroFixedAndSwitchable(t *testing.T) {
	rom := fillBanked(8 * 0x4000)
	mbc := NewMBC1(rom, nil)

	assert.Equal(t, uint8(0), mbc.Read(0x0000), "bank 0 window is fixed")
	assert.Equal(t, uint8(1), mbc.Read(0x4000), "default low bank is 1, never 0")

	mbc.Write(0x2000, 5)
	assert.Equal(t, uint8(5), mbc.Read(0x4000))

	// Testable Property 2: the effective index is masked modulo
	// rom.len()-1, so selecting a bank beyond the ROM's size wraps.
	mbc.Write(0x2000, 5)
	mbc.Write(0x4000, 1) // would select bank 37 with a full 2-bit upper register
	assert.Equal(t, uint8(5), mbc.Read(0x4000), "bank index wraps modulo rom size")
}

func TestMBC1LowBankZeroTranslatesToOne(t *testing.T) {
	mbc := NewMBC1(fillBanked(0x8000), nil)
	mbc.Write(0x2000, 0)
	assert.Equal(t, uint8(1), mbc.lowBank, "writing 0 to the bank-select register selects bank 1")
}

func TestMBC1RAMEnableGate(t *testing.T) {
	mbc := NewMBC1(make([]byte, 0x8000), make([]byte, 0x2000))

	assert.Equal(t, uint8(0xFF), mbc.Read(0xA000), "RAM reads 0xFF while disabled")

	mbc.Write(0x0000, 0x0A)
	mbc.Write(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), mbc.Read(0xA000))

	mbc.Write(0x0000, 0x00)
	assert.Equal(t, uint8(0xFF), mbc.Read(0xA000), "RAM reads 0xFF again once disabled")
}

func TestMBC1ModeBitRoutesRAMBank(t *testing.T) {
	mbc := NewMBC1(fillBanked(8*0x4000), make([]byte, 4*0x2000))
	mbc.Write(0x0000, 0x0A) // enable RAM
	mbc.Write(0x6000, 1)    // RAM-banking mode

	for bank, value := range []uint8{0x11, 0x22, 0x33, 0x44} {
		mbc.Write(0x4000, uint8(bank))
		mbc.Write(0xA000, value)
	}
	for bank, want := range []uint8{0x11, 0x22, 0x33, 0x44} {
		mbc.Write(0x4000, uint8(bank))
		assert.Equal(t, want, mbc.Read(0xA000))
	}
}

func TestMBC3RTCRegisterSelect(t *testing.T) {
	mbc := NewMBC3(fillBanked(4*0x4000), make([]byte, 0x2000), true)
	mbc.Write(0x0000, 0x0A) // enable

	mbc.Write(0x4000, 0x08) // select RTC seconds register
	mbc.Write(0xA000, 42)
	assert.Equal(t, uint8(42), mbc.Read(0xA000))

	mbc.Write(0x4000, 0x00) // back to RAM bank 0
	mbc.Write(0xA000, 7)
	assert.Equal(t, uint8(7), mbc.Read(0xA000))

	mbc.Write(0x4000, 0x08) // RTC register still holds its own value
	assert.Equal(t, uint8(42), mbc.Read(0xA000))
}

func TestMBC5BankZeroIsSelectable(t *testing.T) {
	// Unlike MBC1/MBC3, MBC5's low bank register allows 0 as a real,
	// distinct bank rather than remapping it to 1.
	mbc := NewMBC5(fillBanked(4*0x4000), nil)
	mbc.Write(0x2000, 0)
	assert.Equal(t, uint8(0), mbc.Read(0x4000))
}

func TestMBC5NineBitLowBank(t *testing.T) {
	rom := make([]byte, 512*0x4000)
	rom[256*0x4000] = 0xAB // a marker only bank 256 (needs bit 8) carries
	mbc := NewMBC5(rom, nil)

	mbc.Write(0x2000, 0x00)
	mbc.Write(0x3000, 0x01) // bit 8 of the low bank
	assert.Equal(t, uint8(0xAB), mbc.Read(0x4000), "selecting bank 256 requires the 9th bank bit")
}

func TestNoMBCUnbankedAccess(t *testing.T) {
	rom := fillBanked(0x8000)
	mbc := NewNoMBC(rom, make([]byte, 0x2000))

	assert.Equal(t, uint8(0), mbc.Read(0x0000))
	assert.Equal(t, uint8(1), mbc.Read(0x4000))

	mbc.Write(0xA000, 9)
	assert.Equal(t, uint8(9), mbc.Read(0xA000))
}
