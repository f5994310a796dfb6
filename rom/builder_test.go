package rom_test

import (
	"bytes"
	"testing"

	"github.com/lookbusy1344/gbasm/rom"
)

func testHeader() rom.Header {
	return rom.Header{Title: "TESTGAME", CartType: 0x00, ROMSizeCode: 0x00, RAMSizeCode: 0x00}
}

// TestEmptyBankZeroROM covers scenario 1.
func TestEmptyBankZeroROM(t *testing.T) {
	b := rom.New()
	if err := b.AddBasicInterruptsAndJumps(); err != nil {
		t.Fatalf("add_basic_interrupts_and_jumps: %v", err)
	}
	if err := b.AddHeader(testHeader()); err != nil {
		t.Fatalf("add_header: %v", err)
	}
	if err := b.AdvanceAddress(0, 0x150); err != nil {
		t.Fatalf("advance_address: %v", err)
	}
	if err := b.AddBytes(make([]byte, 0x2EB0)); err != nil {
		t.Fatalf("add_bytes: %v", err)
	}

	image, err := b.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if len(image) != 16384 {
		t.Fatalf("image length = %d, want 16384", len(image))
	}
	if image[0x100] != 0x00 {
		t.Errorf("byte at 0x100 = %#02x, want 0x00 (nop)", image[0x100])
	}
	if image[0x101] != 0xC3 {
		t.Errorf("byte at 0x101 = %#02x, want 0xC3 (jp)", image[0x101])
	}
	if image[0x102] != 0x50 || image[0x103] != 0x01 {
		t.Errorf("bytes at 0x102-0x103 = %02x %02x, want 50 01 (little-endian 0x0150)", image[0x102], image[0x103])
	}
	if !bytes.Equal(image[0x104:0x134], rom.NintendoLogo[:]) {
		t.Errorf("Nintendo logo mismatch at 0x104-0x133")
	}
}

// TestBankCrossingRejection covers scenario 3.
func TestBankCrossingRejection(t *testing.T) {
	b := rom.New()
	if err := b.AdvanceAddress(0, 0x3FFE); err != nil {
		t.Fatalf("advance_address: %v", err)
	}
	err := b.AddBytes([]byte{1, 2, 3, 4})
	if err == nil {
		t.Fatal("expected a BankOverflow error, got nil")
	}
}

// TestForwardReference covers scenario 2: a jp to a label defined later in
// the same file resolves correctly.
func TestForwardReference(t *testing.T) {
	b := rom.New()
	if err := b.AdvanceAddress(0, 0x150); err != nil {
		t.Fatal(err)
	}
	source := "jp later\nlater:\n nop\n"
	if err := b.AddAsmSource(source, "main.asm"); err != nil {
		t.Fatalf("add_asm_source: %v", err)
	}

	image, err := b.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	got := image[0x150:0x154]
	want := []byte{0xC3, 0x53, 0x01, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

// TestEquIndirectROM covers scenario 5 end-to-end through the builder.
func TestEquIndirectROM(t *testing.T) {
	b := rom.New()
	if err := b.AddAsmSource("FOO EQU 0xFF40\nld a, [FOO]\n", "main.asm"); err != nil {
		t.Fatalf("add_asm_source: %v", err)
	}
	image, err := b.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	want := []byte{0xFA, 0x40, 0xFF}
	if !bytes.Equal(image[0:3], want) {
		t.Errorf("got % X, want % X", image[0:3], want)
	}
}

// TestTwoBankImage covers scenario 6.
func TestTwoBankImage(t *testing.T) {
	b := rom.New()
	if err := b.AddAsmSource("nop\nnop\nnop\nnop\n", "code.asm"); err != nil {
		t.Fatalf("add_asm_source: %v", err)
	}
	if got := b.Cursor(); got != (rom.Address{Bank: 0, Offset: 4}) {
		t.Fatalf("cursor after code.asm = %s, want bank 0 offset 4", got)
	}
	if err := b.AdvanceAddress(0, 0x400); err != nil {
		t.Fatalf("advance_address to 0x400: %v", err)
	}
	if err := b.AdvanceAddress(1, 0x4000); err != nil {
		t.Fatalf("advance_address to bank 1: %v", err)
	}
	if err := b.AddBytes(bytes.Repeat([]byte{0xAA}, 16384)); err != nil {
		t.Fatalf("add_bytes: %v", err)
	}

	image, err := b.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if len(image) != 32768 {
		t.Fatalf("image length = %d, want 32768", len(image))
	}
	if image[0x4000] != 0xAA {
		t.Errorf("byte at 0x4000 = %#02x, want 0xAA", image[0x4000])
	}
	for i := 0x0400; i <= 0x3FFF; i++ {
		if image[i] != 0x00 {
			t.Fatalf("byte at %#04x = %#02x, want 0x00 (bank-0 tail)", i, image[i])
			break
		}
	}
}

func TestAddHeaderRequiresCursorAtEntryPoint(t *testing.T) {
	b := rom.New()
	err := b.AddHeader(testHeader())
	if err == nil {
		t.Fatal("expected an error when the cursor is not at 0x0104")
	}
}

func TestAdvanceAddressCannotMoveBackwards(t *testing.T) {
	b := rom.New()
	if err := b.AdvanceAddress(0, 0x100); err != nil {
		t.Fatal(err)
	}
	if err := b.AdvanceAddress(0, 0x50); err == nil {
		t.Fatal("expected an AdvanceError moving the cursor backwards")
	}
}
