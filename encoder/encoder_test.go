package encoder_test

import (
	"bytes"
	"testing"

	"github.com/lookbusy1344/gbasm/asm"
	"github.com/lookbusy1344/gbasm/encoder"
)

func mustParse(t *testing.T, source string) *asm.Program {
	t.Helper()
	prog, err := asm.NewParser(source, "t.asm").Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	return prog
}

// TestJRDisplacement covers scenario 4: a backward self-jump emits a
// displacement of -2.
func TestJRDisplacement(t *testing.T) {
	prog := mustParse(t, "start: jr start\n")
	symbols := asm.NewSymbolTable()
	if err := symbols.Define("start", asm.SymbolLabel, 0x150, asm.Position{}); err != nil {
		t.Fatal(err)
	}

	var inst *asm.Instruction
	for _, stmt := range prog.Statements {
		if stmt.Kind == asm.StmtInstruction {
			inst = stmt.Instr
		}
	}
	if inst == nil {
		t.Fatal("no instruction parsed")
	}

	out, err := encoder.Encode(inst, 0x150, symbols)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0x18, 0xFE}
	if !bytes.Equal(out, want) {
		t.Errorf("got % X, want % X", out, want)
	}
}

// TestJRRangeError covers scenario 4's out-of-range case.
func TestJRRangeError(t *testing.T) {
	prog := mustParse(t, "jr target\n")
	symbols := asm.NewSymbolTable()
	// pc_after = addr+2; target - pc_after = 128 is one past the signed byte range.
	if err := symbols.Define("target", asm.SymbolLabel, 0x100+2+128, asm.Position{}); err != nil {
		t.Fatal(err)
	}

	inst := prog.Statements[0].Instr
	_, err := encoder.Encode(inst, 0x100, symbols)
	if err == nil {
		t.Fatal("expected a range error, got nil")
	}
	aerr, ok := err.(*asm.Error)
	if !ok || aerr.Kind != asm.ErrorRange {
		t.Fatalf("expected a RangeError, got %v", err)
	}
}

// TestEquIndirectLoad covers scenario 5: an EQU constant used inside
// brackets takes the general [nn] path, not the HighN high-page dialect.
func TestEquIndirectLoad(t *testing.T) {
	prog := mustParse(t, "FOO EQU 0xFF40\nld a, [FOO]\n")
	symbols := asm.NewSymbolTable()
	if err := symbols.Define("FOO", asm.SymbolConstant, 0xFF40, asm.Position{}); err != nil {
		t.Fatal(err)
	}

	var inst *asm.Instruction
	for _, stmt := range prog.Statements {
		if stmt.Kind == asm.StmtInstruction {
			inst = stmt.Instr
		}
	}
	if inst.Operands[1].Kind != asm.OperandIndNN {
		t.Fatalf("expected IndNN, got %v", inst.Operands[1].Kind)
	}

	out, err := encoder.Encode(inst, 0x150, symbols)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0xFA, 0x40, 0xFF}
	if !bytes.Equal(out, want) {
		t.Errorf("got % X, want % X", out, want)
	}
}

func TestHighCOperandEncoding(t *testing.T) {
	prog := mustParse(t, "ld a, [0xFF00+c]\n")
	inst := prog.Statements[0].Instr
	if inst.Operands[1].Kind != asm.OperandHighC {
		t.Fatalf("expected HighC, got %v", inst.Operands[1].Kind)
	}
	out, err := encoder.Encode(inst, 0, asm.NewSymbolTable())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, []byte{0xF2}) {
		t.Errorf("got % X, want F2", out)
	}
}

func TestALUImmediateAndRegisterForms(t *testing.T) {
	prog := mustParse(t, "add a, 5\nadd b\n")
	symbols := asm.NewSymbolTable()

	immInst := prog.Statements[0].Instr
	out, err := encoder.Encode(immInst, 0, symbols)
	if err != nil {
		t.Fatalf("encode add a,5: %v", err)
	}
	if !bytes.Equal(out, []byte{0xC6, 0x05}) {
		t.Errorf("add a,5 got % X", out)
	}

	regInst := prog.Statements[1].Instr
	out, err = encoder.Encode(regInst, 0, symbols)
	if err != nil {
		t.Fatalf("encode add b: %v", err)
	}
	if !bytes.Equal(out, []byte{0x80}) {
		t.Errorf("add b got % X", out)
	}
}
