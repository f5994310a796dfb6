package tools

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/gbasm/asm"
)

func TestFormat_BasicInstruction(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format("ld a, 5\n", "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "ld") {
		t.Errorf("expected mnemonic in output, got %q", result)
	}
	if !strings.Contains(result, "0x5") {
		t.Errorf("expected rendered operand in output, got %q", result)
	}
}

func TestFormat_LabelOnOwnLine(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format("loop:\n nop\n", "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), result)
	}
	if lines[0] != "loop:" {
		t.Errorf("expected first line 'loop:', got %q", lines[0])
	}
	if !strings.Contains(lines[1], "nop") {
		t.Errorf("expected nop on second line, got %q", lines[1])
	}
}

func TestFormat_LabelSharingLineWithInstruction(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format("loop: nop\n", "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
	if len(lines) != 2 || lines[0] != "loop:" {
		t.Fatalf("expected label on its own first line, got %q", result)
	}
}

func TestFormat_PreservesTrailingComment(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format("nop ; step one\n", "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "; step one") {
		t.Errorf("expected comment preserved, got %q", result)
	}
}

func TestFormat_EquBinding(t *testing.T) {
	result, err := NewFormatter(DefaultFormatOptions()).Format("FOO EQU 0xFF40\n", "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.Contains(result, "FOO EQU 0xff40") {
		t.Errorf("expected canonical EQU rendering, got %q", result)
	}
}

func TestFormat_CompactStyleIsSingleLine(t *testing.T) {
	result, err := NewFormatter(CompactFormatOptions()).Format("loop: ld a, 5\n", "test.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(result), "loop: ld") {
		t.Errorf("expected compact single-line rendering, got %q", result)
	}
}

func TestFormat_RoundTripsThroughReparse(t *testing.T) {
	sources := []string{
		"ld a, [hl+]\n",
		"jp nz, 0x150\n",
		"bit 3, [hl]\n",
		"db 1, 2, 3\n",
		"dw 0x1234, 0xABCD\n",
		"ld hl, sp+5\n",
	}
	for _, src := range sources {
		result, err := NewFormatter(DefaultFormatOptions()).Format(src, "t.asm")
		if err != nil {
			t.Fatalf("%q: Format error: %v", src, err)
		}
		if _, err := asm.NewParser(src, "t.asm").Parse(); err != nil {
			t.Fatalf("%q: original failed to parse: %v", src, err)
		}
		if _, err := asm.NewParser(result, "t.asm").Parse(); err != nil {
			t.Fatalf("%q formatted to %q, which fails to re-parse: %v", src, result, err)
		}
	}
}

func TestExprString_NestedArithmeticRoundTrips(t *testing.T) {
	src := "FOO EQU (1 + 2) * 3\nBAR EQU FOO - 1\n"
	result, err := NewFormatter(DefaultFormatOptions()).Format(src, "t.asm")
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	if _, err := asm.NewParser(result, "t.asm").Parse(); err != nil {
		t.Fatalf("formatted output %q fails to re-parse: %v", result, err)
	}
}
