package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildROM constructs a minimal header-valid ROM of size 0x8000<<romSizeByte
// with the given title, cartridge type, and RAM size byte, computing the
// header checksum the same way the real hardware's boot sequence does.
func buildROM(title string, cartType, romSizeByte, ramSizeByte byte, cgbFlag byte) []byte {
	size := 0x8000 << romSizeByte
	rom := make([]byte, size)
	copy(rom[titleAddress:titleAddress+titleLength], title)
	rom[cgbFlagAddress] = cgbFlag
	rom[cartridgeTypeAddress] = cartType
	rom[romSizeAddress] = romSizeByte
	rom[ramSizeAddress] = ramSizeByte

	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	rom[headerChecksumAddress] = sum
	return rom
}

func TestNewCartridgeParsesHeader(t *testing.T) {
	rom := buildROM("TESTGAME", 0x00, 0x00, 0x02, 0x00)
	c, err := NewCartridge(rom)

	assert.NoError(t, err)
	assert.Equal(t, "TESTGAME", c.Title)
	assert.Equal(t, MBCNone, c.MBC)
	assert.False(t, c.HasBattery)
	assert.False(t, c.ColorSupported)
	assert.Equal(t, 2, c.ROMBanks)
	assert.Equal(t, 0x2000, c.RAMSize)
	assert.Len(t, c.SRAM, 0x2000)
}

func TestNewCartridgeRejectsShortROM(t *testing.T) {
	_, err := NewCartridge(make([]byte, 0x100))
	assert.Error(t, err)
}

func TestNewCartridgeRejectsSizeMismatch(t *testing.T) {
	rom := buildROM("X", 0x00, 0x01, 0x00, 0x00) // header claims 64KB
	rom = rom[:0x8000]                            // but is only 32KB
	_, err := NewCartridge(rom)
	assert.Error(t, err)
}

func TestNewCartridgeRejectsBadChecksum(t *testing.T) {
	rom := buildROM("TESTGAME", 0x00, 0x00, 0x00, 0x00)
	rom[headerChecksumAddress]++
	_, err := NewCartridge(rom)
	assert.Error(t, err)
	var cartErr *CartridgeError
	assert.ErrorAs(t, err, &cartErr)
}

func TestNewCartridgeDecodesMBCKinds(t *testing.T) {
	cases := []struct {
		name       string
		cartType   byte
		wantKind   MBCKind
		wantBattery bool
		wantRTC    bool
	}{
		{"rom only", 0x00, MBCNone, false, false},
		{"mbc1", 0x01, MBCType1, false, false},
		{"mbc1+ram+battery", 0x03, MBCType1, true, false},
		{"mbc3+timer+battery", 0x0F, MBCType3, true, true},
		{"mbc3+ram", 0x11, MBCType3, false, false},
		{"mbc5+ram+battery", 0x1B, MBCType5, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rom := buildROM("T", tc.cartType, 0x00, 0x00, 0x00)
			c, err := NewCartridge(rom)
			assert.NoError(t, err)
			assert.Equal(t, tc.wantKind, c.MBC)
			assert.Equal(t, tc.wantBattery, c.HasBattery)
			assert.Equal(t, tc.wantRTC, c.HasRTC)
		})
	}
}

func TestNewCartridgeRejectsUnknownType(t *testing.T) {
	rom := buildROM("T", 0xFF, 0x00, 0x00, 0x00)
	_, err := NewCartridge(rom)
	assert.Error(t, err)
}

func TestNewCartridgeColorFlag(t *testing.T) {
	rom := buildROM("T", 0x00, 0x00, 0x00, 0x80)
	c, err := NewCartridge(rom)
	assert.NoError(t, err)
	assert.True(t, c.ColorSupported)
}

func TestNewCartridgeWithSaveInstallsExistingSRAM(t *testing.T) {
	rom := buildROM("T", 0x03, 0x00, 0x02, 0x00) // mbc1+ram+battery, 8KB SRAM
	save := make([]byte, 0x2000)
	save[100] = 0x7E

	c, err := NewCartridgeWithSave(rom, save)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x7E), c.SRAM[100])
	// the cartridge owns a copy, not the caller's backing array
	save[100] = 0
	assert.Equal(t, uint8(0x7E), c.SRAM[100])
}

func TestNewCartridgeWithSaveNilIsFreshSRAM(t *testing.T) {
	rom := buildROM("T", 0x00, 0x00, 0x02, 0x00)
	c, err := NewCartridgeWithSave(rom, nil)
	assert.NoError(t, err)
	assert.Len(t, c.SRAM, 0x2000)
}

func TestNewCartridgeWithSaveSizeMismatch(t *testing.T) {
	rom := buildROM("T", 0x00, 0x00, 0x02, 0x00) // declares 8KB SRAM
	_, err := NewCartridgeWithSave(rom, make([]byte, 0x800))
	assert.Error(t, err)
}
