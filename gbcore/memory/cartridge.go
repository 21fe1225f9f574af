package memory

import (
	"fmt"
	"unicode"
)

const (
	entryPointAddress    = 0x0100
	titleAddress         = 0x0134
	titleLength          = 16
	cgbFlagAddress       = 0x0143
	cartridgeTypeAddress = 0x0147
	romSizeAddress       = 0x0148
	ramSizeAddress       = 0x0149
	headerChecksumAddress = 0x014D
)

// MBCKind identifies which memory bank controller a cartridge header
// selects, per the cartridge-type byte at 0x147.
type MBCKind int

const (
	MBCNone MBCKind = iota
	MBCType1
	MBCType3
	MBCType5
)

// CartridgeError reports a problem with a ROM image that prevents it
// from being loaded: a short header, a failed checksum, a size that
// doesn't match the declared ROM/SRAM size, or an unsupported cartridge
// type.
type CartridgeError struct {
	Reason string
}

func (e *CartridgeError) Error() string { return "cartridge: " + e.Reason }

// Cartridge holds the parsed header plus raw ROM/SRAM backing storage.
type Cartridge struct {
	Title          string
	MBC            MBCKind
	HasBattery     bool
	HasRTC         bool
	ColorSupported bool
	ROMBanks       int
	RAMSize        int

	ROM  []byte
	SRAM []byte
}

var ramSizeTable = [6]int{0, 0x800, 0x2000, 0x8000, 0x20000, 0x10000}

// NewCartridge parses a ROM image's header and validates its size and
// checksum.
func NewCartridge(rom []byte) (*Cartridge, error) {
	if len(rom) < 0x150 {
		return nil, &CartridgeError{Reason: "ROM shorter than header"}
	}

	romSizeByte := rom[romSizeAddress]
	if romSizeByte > 8 {
		return nil, &CartridgeError{Reason: fmt.Sprintf("unsupported ROM size byte 0x%02X", romSizeByte)}
	}
	expectedSize := 0x8000 << romSizeByte
	if len(rom) != expectedSize {
		return nil, &CartridgeError{Reason: fmt.Sprintf("ROM size %d does not match header-declared %d", len(rom), expectedSize)}
	}

	if !validHeaderChecksum(rom) {
		return nil, &CartridgeError{Reason: "header checksum mismatch"}
	}

	ramSizeByte := rom[ramSizeAddress]
	if int(ramSizeByte) >= len(ramSizeTable) {
		return nil, &CartridgeError{Reason: fmt.Sprintf("unsupported RAM size byte 0x%02X", ramSizeByte)}
	}

	kind, hasBattery, hasRTC, err := decodeCartridgeType(rom[cartridgeTypeAddress])
	if err != nil {
		return nil, err
	}

	c := &Cartridge{
		Title:          cleanTitle(rom[titleAddress : titleAddress+titleLength]),
		MBC:            kind,
		HasBattery:     hasBattery,
		HasRTC:         hasRTC,
		ColorSupported: rom[cgbFlagAddress]&0x80 != 0,
		ROMBanks:       expectedSize / 0x4000,
		RAMSize:        ramSizeTable[ramSizeByte],
		ROM:            rom,
		SRAM:           make([]byte, ramSizeTable[ramSizeByte]),
	}
	return c, nil
}

// NewCartridgeWithSave parses rom exactly as NewCartridge does, then
// installs save as the cartridge's SRAM instead of a fresh zero buffer.
// save must be nil (no prior save) or exactly the declared SRAM size; a
// size mismatch is a bad-input error.
func NewCartridgeWithSave(rom, save []byte) (*Cartridge, error) {
	c, err := NewCartridge(rom)
	if err != nil {
		return nil, err
	}
	if save == nil {
		return c, nil
	}
	if len(save) != c.RAMSize {
		return nil, &CartridgeError{Reason: fmt.Sprintf(
			"save size %d does not match declared SRAM size %d", len(save), c.RAMSize)}
	}
	c.SRAM = make([]byte, len(save))
	copy(c.SRAM, save)
	return c, nil
}

func validHeaderChecksum(rom []byte) bool {
	var sum uint8
	for i := 0x0134; i <= 0x014C; i++ {
		sum = sum - rom[i] - 1
	}
	return sum == rom[headerChecksumAddress]
}

func decodeCartridgeType(b byte) (kind MBCKind, hasBattery, hasRTC bool, err error) {
	switch {
	case b == 0x00:
		return MBCNone, false, false, nil
	case b == 0x01 || b == 0x02:
		return MBCType1, false, false, nil
	case b == 0x03:
		return MBCType1, true, false, nil
	case b == 0x0F || b == 0x10:
		return MBCType3, true, true, nil
	case b == 0x11 || b == 0x12:
		return MBCType3, false, false, nil
	case b == 0x13:
		return MBCType3, true, false, nil
	case b >= 0x19 && b <= 0x1B:
		return MBCType5, b == 0x1B, false, nil
	case b >= 0x1C && b <= 0x1E:
		return MBCType5, b == 0x1E, false, nil
	default:
		return MBCNone, false, false, &CartridgeError{Reason: fmt.Sprintf("unsupported cartridge type 0x%02X", b)}
	}
}

func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		if b == 0 {
			break
		}
		r := rune(b)
		if !unicode.IsPrint(r) {
			continue
		}
		runes = append(runes, r)
	}
	return string(runes)
}
