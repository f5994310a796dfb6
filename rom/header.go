package rom

// headerStart and headerEnd bound the cartridge header's fixed placement
// within bank 0: 0x0104 through 0x014F inclusive.
const (
	headerStart = 0x0104
	headerEnd   = 0x014F // inclusive
	headerLen   = headerEnd - headerStart + 1
)

// NintendoLogo is the fixed 48-byte bitmap the boot ROM compares against
// before allowing a cartridge to run.
var NintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header is the content of a cartridge header, excluding the two checksum
// fields the builder stamps in once the full ROM image is assembled.
type Header struct {
	Title       string // up to 11 ASCII bytes, zero-padded
	CartType    byte   // 0x0147
	ROMSizeCode byte   // 0x0148
	RAMSizeCode byte   // 0x0149
	Destination byte   // 0x014A: 0 = Japan, 1 = overseas
	LicenseCode byte   // 0x014B: old-style license code
}

// Bytes renders the header's fixed-size byte layout for 0x0104-0x014F,
// with both checksum bytes left zero; ApplyChecksums fills them in once
// the rest of the ROM exists.
func (h Header) Bytes() []byte {
	buf := make([]byte, headerLen)

	copy(buf[0x0104-headerStart:], NintendoLogo[:])

	title := make([]byte, 11)
	copy(title, []byte(h.Title))
	copy(buf[0x0134-headerStart:], title)

	buf[0x0147-headerStart] = h.CartType
	buf[0x0148-headerStart] = h.ROMSizeCode
	buf[0x0149-headerStart] = h.RAMSizeCode
	buf[0x014A-headerStart] = h.Destination
	buf[0x014B-headerStart] = h.LicenseCode

	return buf
}

// ApplyChecksums computes and stamps the header complement checksum
// (0x014D) and the big-endian global checksum (0x014E-0x014F) into a
// fully assembled ROM image. rom must be at least headerEnd+1 bytes long.
func ApplyChecksums(rom []byte) {
	if len(rom) <= headerEnd {
		return
	}

	var sum byte
	for i := 0x0134; i <= 0x014C; i++ {
		sum += rom[i]
	}
	rom[0x014D] = byte((0xE7 - int(sum)) & 0xFF)

	var global uint16
	for i, b := range rom {
		if i == 0x014E || i == 0x014F {
			continue
		}
		global += uint16(b)
	}
	rom[0x014E] = byte(global >> 8)
	rom[0x014F] = byte(global)
}
