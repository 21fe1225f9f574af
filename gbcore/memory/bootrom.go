package memory

// BootROM is a one-shot overlay: a 256-byte (DMG) or 2048-byte (CGB)
// image that shadows the low cartridge ROM window until software
// disables it by writing 0xFF50.
type BootROM struct {
	data   []byte
	active bool
}

// NewBootROM returns a latched-active BootROM over data, which must be
// exactly 256 or 2048 bytes long.
func NewBootROM(data []byte) (*BootROM, error) {
	if len(data) != 0x100 && len(data) != 0x800 {
		return nil, &CartridgeError{Reason: "boot ROM must be 256 or 2048 bytes"}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return &BootROM{data: cp, active: true}, nil
}

// Read returns the overlay byte and ok=true when the latch is set and addr
// falls within the overlay window; ok=false means the caller should fall
// through to cartridge ROM.
func (b *BootROM) Read(address uint16) (uint8, bool) {
	if b == nil || !b.active || int(address) >= len(b.data) {
		return 0, false
	}
	return b.data[address], true
}

// Disable permanently clears the latch; writing zero to 0xFF50 must not
// call this — writing zero does not re-enable the overlay.
func (b *BootROM) Disable() {
	if b != nil {
		b.active = false
	}
}

// Active reports whether the overlay is still shadowing cartridge ROM.
func (b *BootROM) Active() bool { return b != nil && b.active }
