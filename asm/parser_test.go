package asm

import "testing"

func TestParseLabelWithoutColon(t *testing.T) {
	prog, err := NewParser("loop\n nop\n", "t.asm").Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	if prog.Statements[0].Kind != StmtLabel || prog.Statements[0].Label != "loop" {
		t.Fatalf("expected label %q, got %+v", "loop", prog.Statements[0])
	}
}

// A bare zero-operand mnemonic alone on its own line must never be
// mistaken for a colon-less label definition.
func TestBareMnemonicIsNotALabel(t *testing.T) {
	for _, mnemonic := range []string{"nop", "ret", "halt", "reti", "di", "ei"} {
		prog, err := NewParser(mnemonic+"\n", "t.asm").Parse()
		if err != nil {
			t.Fatalf("%s: parse: %v", mnemonic, err)
		}
		if len(prog.Statements) != 1 {
			t.Fatalf("%s: expected 1 statement, got %d", mnemonic, len(prog.Statements))
		}
		if prog.Statements[0].Kind != StmtInstruction {
			t.Fatalf("%s: expected an instruction statement, got %+v", mnemonic, prog.Statements[0])
		}
	}
}

func TestParseEquBinding(t *testing.T) {
	prog, err := NewParser("FOO EQU 0xFF40\n", "t.asm").Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Statements) != 1 || prog.Statements[0].Kind != StmtEqu {
		t.Fatalf("expected a single EQU statement, got %+v", prog.Statements)
	}
	if prog.Statements[0].Name != "FOO" {
		t.Fatalf("expected name FOO, got %q", prog.Statements[0].Name)
	}
}

func TestParseLDHighPageDialect(t *testing.T) {
	prog, err := NewParser("ld a, [0xFF00+c]\n", "t.asm").Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	inst := prog.Statements[0].Instr
	if inst.Mnemonic != "ld" {
		t.Fatalf("expected mnemonic ld, got %s", inst.Mnemonic)
	}
	if inst.Operands[1].Kind != OperandHighC {
		t.Fatalf("expected HighC operand, got %v", inst.Operands[1].Kind)
	}
}

func TestParseLDIAndLDD(t *testing.T) {
	prog, err := NewParser("ldi a, [hl]\nldd [hl], a\n", "t.asm").Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	first := prog.Statements[0].Instr
	if first.Mnemonic != "ld" || first.Operands[1].Kind != OperandIndHLInc {
		t.Fatalf("expected ldi to canonicalize to ld a,[hl+], got %+v", first)
	}
	second := prog.Statements[1].Instr
	if second.Mnemonic != "ld" || second.Operands[0].Kind != OperandIndHLDec {
		t.Fatalf("expected ldd to canonicalize to ld [hl-],a, got %+v", second)
	}
}

func TestParseDBStringExpandsToBytes(t *testing.T) {
	prog, err := NewParser(`db "AB", 0x00`+"\n", "t.asm").Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog.Statements[0].Exprs) != 3 {
		t.Fatalf("expected 3 expanded byte expressions, got %d", len(prog.Statements[0].Exprs))
	}
}

func TestInstructionSizes(t *testing.T) {
	cases := []struct {
		source string
		size   int
	}{
		{"nop\n", 1},
		{"stop\n", 2},
		{"ld a, 5\n", 2},
		{"ld a, [0x1234]\n", 3},
		{"ld hl, 0x1234\n", 3},
		{"ld sp, hl\n", 1},
		{"jp 0x100\n", 3},
		{"jp hl\n", 1},
		{"bit 0, a\n", 2},
		{"rlc b\n", 2},
	}
	for _, c := range cases {
		prog, err := NewParser(c.source, "t.asm").Parse()
		if err != nil {
			t.Fatalf("%q: parse: %v", c.source, err)
		}
		if len(prog.Statements) != 1 || prog.Statements[0].Kind != StmtInstruction {
			t.Fatalf("%q: expected a single instruction statement, got %+v", c.source, prog.Statements)
		}
		if got := prog.Statements[0].Instr.EncodedLen; got != c.size {
			t.Errorf("%q: size = %d, want %d", c.source, got, c.size)
		}
	}
}
