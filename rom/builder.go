// Package rom implements the cursor-based ROM placement engine: the
// sequential builder that turns a sequence of assembled files, raw byte
// blocks, and cursor moves into a flat, padded, checksummed Game Boy ROM
// image.
package rom

import (
	"os"
	"path/filepath"

	"github.com/lookbusy1344/gbasm/asm"
	"github.com/lookbusy1344/gbasm/encoder"
)

// builderPos is used for errors that originate from the builder itself
// rather than from a specific source line.
var builderPos = asm.Position{Filename: "<builder>"}

// vectorAddresses are the 13 fixed-address RST and interrupt vectors that
// add_basic_interrupts_and_jumps populates, each with "jp 0x0100".
var vectorAddresses = []uint16{
	0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38, // RST vectors
	0x40, 0x48, 0x50, 0x58, 0x60, // VBlank, LCD STAT, Timer, Serial, Joypad
}

// entryPoint is where execution lands immediately after the boot ROM hands
// off, and where add_basic_interrupts_and_jumps's "jp 0x0100" vectors all
// point.
const entryPoint = 0x0100

// startSymbol is the label add_header implicitly defines at the address
// immediately following the header, so "jp Start" at the entry point
// resolves without the caller ever writing a Start: label by hand.
const startSymbol = "Start"

// Builder places assembled code and data at explicit ROM addresses in the
// order its methods are called, advancing an internal cursor as it goes.
// Nothing is encoded until Compile: instructions are held as parsed ASTs
// so that forward references anywhere in the program resolve correctly.
type Builder struct {
	cursor  Address
	blocks  []*Block
	symbols *asm.SymbolTable
}

// New creates an empty Builder with its cursor at bank 0, offset 0.
func New() *Builder {
	return &Builder{symbols: asm.NewSymbolTable()}
}

// Cursor returns the builder's current placement address.
func (b *Builder) Cursor() Address { return b.cursor }

// advance checks that a size-byte item placed at cur fits within cur's
// bank, and returns the address immediately past it.
func advance(cur Address, size int, pos asm.Position) (Address, error) {
	bankEnd := BankEnd(cur.Bank)
	if int(cur.Offset)+size > int(bankEnd) {
		return Address{}, asm.NewBankOverflowError(pos,
			"%d-byte item at %s crosses the bank boundary at offset %#04x", size, cur, bankEnd)
	}
	return Address{Bank: cur.Bank, Offset: cur.Offset + uint16(size)}, nil
}

// emitGapTo appends an EmptyGap block covering [b.cursor, target) and
// moves the cursor to target. target must not precede the cursor.
func (b *Builder) emitGapTo(target Address, pos asm.Position) error {
	if target.Linear() < b.cursor.Linear() {
		return asm.NewAdvanceError(pos, "cannot move the cursor backwards, from %s to %s", b.cursor, target)
	}
	if target.Linear() == b.cursor.Linear() {
		return nil
	}
	b.blocks = append(b.blocks, &Block{Kind: BlockEmptyGap, Start: b.cursor, End: target})
	b.cursor = target
	return nil
}

// placeInstructions appends a contiguous run of already-sized
// instructions starting at the cursor, and advances it past them.
func (b *Builder) placeInstructions(pos asm.Position, insts []*asm.Instruction, source string) error {
	total := 0
	for _, in := range insts {
		total += in.EncodedLen
	}
	end, err := advance(b.cursor, total, pos)
	if err != nil {
		return err
	}
	b.blocks = append(b.blocks, &Block{Kind: BlockInstructions, Start: b.cursor, End: end, Instructions: insts, SourceFile: source})
	b.cursor = end
	return nil
}

// AddBasicInterruptsAndJumps populates the 13 RST and interrupt vectors at
// 0x0000-0x0067 with "jp 0x0100", fills the unused space up to the entry
// point with zero, and places "nop; jp Start" at 0x0100. The cursor must
// be exactly (bank 0, offset 0) on entry; it ends at (bank 0, offset
// 0x0104), ready for AddHeader.
func (b *Builder) AddBasicInterruptsAndJumps() error {
	if b.cursor != (Address{}) {
		return asm.NewAdvanceError(builderPos, "add_basic_interrupts_and_jumps requires the cursor at bank 0, offset 0, got %s", b.cursor)
	}

	jpTarget := func(v int64) []asm.Operand {
		return []asm.Operand{{Kind: asm.OperandImm16, Expr: &asm.Expression{Kind: asm.ExprLiteral, Value: v}, Pos: builderPos}}
	}

	for _, v := range vectorAddresses {
		if err := b.emitGapTo(Address{Bank: 0, Offset: v}, builderPos); err != nil {
			return err
		}
		inst := &asm.Instruction{Mnemonic: "jp", Operands: jpTarget(entryPoint), Pos: builderPos, EncodedLen: 3}
		if err := b.placeInstructions(builderPos, []*asm.Instruction{inst}, ""); err != nil {
			return err
		}
	}

	if err := b.emitGapTo(Address{Bank: 0, Offset: entryPoint}, builderPos); err != nil {
		return err
	}

	nop := &asm.Instruction{Mnemonic: "nop", Pos: builderPos, EncodedLen: 1}
	jpStart := &asm.Instruction{
		Mnemonic: "jp",
		Operands: []asm.Operand{{Kind: asm.OperandImm16, Expr: &asm.Expression{Kind: asm.ExprIdent, Name: startSymbol, Pos: builderPos}, Pos: builderPos}},
		Pos:      builderPos, EncodedLen: 3,
	}
	return b.placeInstructions(builderPos, []*asm.Instruction{nop, jpStart}, "")
}

// AddHeader places the 76-byte cartridge header at 0x0104-0x014F. The
// cursor must be exactly (bank 0, offset 0x0104) on entry. It also binds
// the "Start" symbol to the address immediately following the header
// (always bank 0, offset 0x0150), which is what makes the implicit
// "jp Start" placed by AddBasicInterruptsAndJumps resolve.
func (b *Builder) AddHeader(h Header) error {
	want := Address{Bank: 0, Offset: headerStart}
	if b.cursor != want {
		return asm.NewAdvanceError(builderPos, "add_header requires the cursor at %s, got %s", want, b.cursor)
	}

	data := h.Bytes()
	end, err := advance(b.cursor, len(data), builderPos)
	if err != nil {
		return err
	}
	b.blocks = append(b.blocks, &Block{Kind: BlockBytes, Start: b.cursor, End: end, Data: data})
	b.cursor = end

	return b.symbols.Define(startSymbol, asm.SymbolLabel, int64(end.Linear()), builderPos)
}

// AdvanceAddress moves the cursor forward to (bank, offset), recording the
// skipped range as a zero-filled gap. It never moves the cursor
// backwards and never crosses into a different bank implicitly: the
// target itself must be a valid address in its own right. Unlike placing
// bytes or instructions, advancing is not required to stay within the
// cursor's current bank — it simply re-seats the cursor anywhere valid.
func (b *Builder) AdvanceAddress(bank, offset uint16) error {
	target := Address{Bank: bank, Offset: offset}
	if !target.Valid() {
		return asm.NewAdvanceError(builderPos, "%s is not a valid ROM address", target)
	}
	return b.emitGapTo(target, builderPos)
}

// AddBytes places a raw byte block at the cursor and advances past it.
func (b *Builder) AddBytes(data []byte) error {
	end, err := advance(b.cursor, len(data), builderPos)
	if err != nil {
		return err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	b.blocks = append(b.blocks, &Block{Kind: BlockBytes, Start: b.cursor, End: end, Data: cp})
	b.cursor = end
	return nil
}

// AddAsmFile resolves path's include directives and assembles it at the
// cursor. See AddAsmSource for the placement semantics.
func (b *Builder) AddAsmFile(path string) error {
	source, err := asm.NewIncludeResolver().ResolveFile(path)
	if err != nil {
		return err
	}
	return b.addProgram(source, filepath.Base(path))
}

// AddAsmSource assembles already-resolved source text at the cursor, as
// if it were the top-level file named filename. It exists alongside
// AddAsmFile so callers (and tests) can place in-memory source without
// touching the filesystem.
func (b *Builder) AddAsmSource(source, filename string) error {
	return b.addProgram(source, filename)
}

// addProgram runs pass 1 over source: it parses the file, then walks the
// statements with a local cursor, defining every label and EQU constant
// at its final address as it goes (since an instruction's size depends
// only on its mnemonic and operand shapes, never on label values, every
// address is known the instant it's reached — no second walk is needed to
// discover placement). advance_address directives encountered mid-file
// split the run into separate blocks, since a block must be contiguous.
func (b *Builder) addProgram(source, filename string) error {
	program, err := asm.NewParser(source, filename).Parse()
	if err != nil {
		return err
	}

	blockStart := b.cursor
	cursor := b.cursor
	var pending []*asm.Instruction

	flush := func() {
		if len(pending) > 0 {
			b.blocks = append(b.blocks, &Block{Kind: BlockInstructions, Start: blockStart, End: cursor, Instructions: pending, SourceFile: filename})
			pending = nil
		}
		blockStart = cursor
	}

	for _, stmt := range program.Statements {
		switch stmt.Kind {
		case asm.StmtLabel:
			if err := b.symbols.Define(stmt.Label, asm.SymbolLabel, int64(cursor.Linear()), stmt.Pos); err != nil {
				return err
			}

		case asm.StmtEqu:
			v, err := stmt.Value.Eval(b.symbols)
			if err != nil {
				return err
			}
			if err := b.symbols.Define(stmt.Name, asm.SymbolConstant, v, stmt.Pos); err != nil {
				return err
			}

		case asm.StmtDB:
			size := len(stmt.Exprs)
			next, err := advance(cursor, size, stmt.Pos)
			if err != nil {
				return err
			}
			cursor = next
			pending = append(pending, &asm.Instruction{Mnemonic: "db", Pos: stmt.Pos, EncodedLen: size, Operands: imm8Operands(stmt.Exprs)})

		case asm.StmtDW:
			size := len(stmt.Exprs) * 2
			next, err := advance(cursor, size, stmt.Pos)
			if err != nil {
				return err
			}
			cursor = next
			pending = append(pending, &asm.Instruction{Mnemonic: "dw", Pos: stmt.Pos, EncodedLen: size, Operands: imm16Operands(stmt.Exprs)})

		case asm.StmtAdvanceAddress:
			flush()
			bank, err := stmt.Bank.Eval(b.symbols)
			if err != nil {
				return err
			}
			offset, err := stmt.Offset.Eval(b.symbols)
			if err != nil {
				return err
			}
			target := Address{Bank: uint16(bank), Offset: uint16(offset)}
			if !target.Valid() {
				return asm.NewAdvanceError(stmt.Pos, "%s is not a valid ROM address", target)
			}
			if target.Linear() < cursor.Linear() {
				return asm.NewAdvanceError(stmt.Pos, "cannot move the cursor backwards, from %s to %s", cursor, target)
			}
			if target.Linear() > cursor.Linear() {
				b.blocks = append(b.blocks, &Block{Kind: BlockEmptyGap, Start: cursor, End: target})
			}
			cursor = target
			blockStart = target

		case asm.StmtInstruction:
			next, err := advance(cursor, stmt.Instr.EncodedLen, stmt.Pos)
			if err != nil {
				return err
			}
			cursor = next
			pending = append(pending, stmt.Instr)
		}
	}

	flush()
	b.cursor = cursor
	return nil
}

func imm8Operands(exprs []*asm.Expression) []asm.Operand {
	ops := make([]asm.Operand, len(exprs))
	for i, e := range exprs {
		ops[i] = asm.Operand{Kind: asm.OperandImm8, Expr: e, Pos: e.Pos}
	}
	return ops
}

func imm16Operands(exprs []*asm.Expression) []asm.Operand {
	ops := make([]asm.Operand, len(exprs))
	for i, e := range exprs {
		ops[i] = asm.Operand{Kind: asm.OperandImm16, Expr: e, Pos: e.Pos}
	}
	return ops
}

// Compile renders every placed block into a single flat ROM image, pads
// it to the next full bank, and stamps the header checksums once the
// image is otherwise final. Instructions are encoded here, not at
// placement time, so a label or EQU defined anywhere in the program — even
// in a file added after the instruction referencing it — resolves
// correctly.
func (b *Builder) Compile() ([]byte, error) {
	maxLinear := 0
	for _, blk := range b.blocks {
		if blk.EndLinear() > maxLinear {
			maxLinear = blk.EndLinear()
		}
	}

	romLen := ((maxLinear + BankSize - 1) / BankSize) * BankSize
	if romLen == 0 {
		romLen = BankSize
	}
	image := make([]byte, romLen)

	for _, blk := range b.blocks {
		switch blk.Kind {
		case BlockBytes:
			copy(image[blk.StartLinear():], blk.Data)

		case BlockEmptyGap:
			// image is already zero-filled by make().

		case BlockInstructions:
			addr := blk.StartLinear()
			for _, inst := range blk.Instructions {
				out, err := encoder.Encode(inst, addr, b.symbols)
				if err != nil {
					return nil, err
				}
				copy(image[addr:], out)
				addr += len(out)
			}
		}
	}

	ApplyChecksums(image)
	return image, nil
}

// WriteToDisk compiles the ROM and writes it to path.
func (b *Builder) WriteToDisk(path string) error {
	data, err := b.Compile()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return asm.NewIOError(asm.Position{Filename: path}, "writing rom: %v", err)
	}
	return nil
}
