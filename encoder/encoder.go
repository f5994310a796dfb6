// Package encoder turns a resolved asm.Instruction into the bytes the
// LR35902 CPU actually executes. Placement has already run by the time
// Encode is called: addresses are known, so the only thing left to do is
// evaluate operand expressions and pick the right opcode.
package encoder

import (
	"github.com/lookbusy1344/gbasm/asm"
)

// reg8Index returns the 3-bit register index the CPU's 8-bit instruction
// encodings use: B,C,D,E,H,L,(HL),A.
func reg8Index(op asm.Operand) (int, bool) {
	if op.Kind == asm.OperandIndHL {
		return 6, true
	}
	if op.Kind != asm.OperandReg8 {
		return 0, false
	}
	switch op.Reg {
	case "B":
		return 0, true
	case "C":
		return 1, true
	case "D":
		return 2, true
	case "E":
		return 3, true
	case "H":
		return 4, true
	case "L":
		return 5, true
	case "A":
		return 7, true
	}
	return 0, false
}

func reg16PairIndex(reg string) (int, bool) {
	switch reg {
	case "BC":
		return 0, true
	case "DE":
		return 1, true
	case "HL":
		return 2, true
	case "SP":
		return 3, true
	}
	return 0, false
}

func pushPopPairIndex(reg string) (int, bool) {
	switch reg {
	case "BC":
		return 0, true
	case "DE":
		return 1, true
	case "HL":
		return 2, true
	case "AF":
		return 3, true
	}
	return 0, false
}

func condIndex(cc string) (int, bool) {
	switch cc {
	case "NZ":
		return 0, true
	case "Z":
		return 1, true
	case "NC":
		return 2, true
	case "C":
		return 3, true
	}
	return 0, false
}

var aluOpBase = map[string]byte{
	"add": 0x80, "adc": 0x88, "sub": 0x90, "sbc": 0x98,
	"and": 0xA0, "xor": 0xA8, "or": 0xB0, "cp": 0xB8,
}

func evalU8(expr *asm.Expression, symbols *asm.SymbolTable) (byte, error) {
	v, err := expr.Eval(symbols)
	if err != nil {
		return 0, err
	}
	if v < -128 || v > 255 {
		return 0, asm.NewRangeError(expr.Pos, "value %d does not fit in 8 bits", v)
	}
	return byte(uint8(v)), nil
}

func evalU16(expr *asm.Expression, symbols *asm.SymbolTable) (uint16, error) {
	v, err := expr.Eval(symbols)
	if err != nil {
		return 0, err
	}
	if v < -32768 || v > 0xFFFF {
		return 0, asm.NewRangeError(expr.Pos, "value %d does not fit in 16 bits", v)
	}
	return uint16(int32(v)), nil
}

func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }

// Encode produces the bytes for inst, which starts at linear ROM address
// addr. addr is only needed to compute JR's relative displacement; every
// other instruction's bytes are independent of placement.
func Encode(inst *asm.Instruction, addr int, symbols *asm.SymbolTable) ([]byte, error) {
	out, err := encodeDispatch(inst, addr, symbols)
	if err != nil {
		return nil, err
	}
	if len(out) != inst.EncodedLen {
		return nil, asm.NewRangeError(inst.Pos, "%s encoded to %d bytes, expected %d", inst.Mnemonic, len(out), inst.EncodedLen)
	}
	return out, nil
}

func encodeDispatch(inst *asm.Instruction, addr int, symbols *asm.SymbolTable) ([]byte, error) {
	switch inst.Mnemonic {
	case "nop":
		return []byte{0x00}, nil
	case "halt":
		return []byte{0x76}, nil
	case "stop":
		return []byte{0x10, 0x00}, nil
	case "di":
		return []byte{0xF3}, nil
	case "ei":
		return []byte{0xFB}, nil
	case "daa":
		return []byte{0x27}, nil
	case "cpl":
		return []byte{0x2F}, nil
	case "scf":
		return []byte{0x37}, nil
	case "ccf":
		return []byte{0x3F}, nil
	case "rlca":
		return []byte{0x07}, nil
	case "rrca":
		return []byte{0x0F}, nil
	case "rla":
		return []byte{0x17}, nil
	case "rra":
		return []byte{0x1F}, nil
	case "reti":
		return []byte{0xD9}, nil
	case "ret":
		return encodeRet(inst)
	case "ld":
		return encodeLD(inst, symbols)
	case "push":
		return encodePush(inst)
	case "pop":
		return encodePop(inst)
	case "add", "adc", "sub", "sbc", "and", "xor", "or", "cp":
		return encodeALU(inst, symbols)
	case "inc":
		return encodeIncDec(inst, 0x04, 0x03)
	case "dec":
		return encodeIncDec(inst, 0x05, 0x0B)
	case "jp":
		return encodeJP(inst, symbols)
	case "jr":
		return encodeJR(inst, addr, symbols)
	case "call":
		return encodeCall(inst, symbols)
	case "rst":
		return encodeRST(inst, symbols)
	case "rlc", "rrc", "rl", "rr", "sla", "sra", "swap", "srl":
		return encodeShift(inst)
	case "bit", "res", "set":
		return encodeBitOp(inst, symbols)
	case "db":
		return encodeDB(inst, symbols)
	case "dw":
		return encodeDW(inst, symbols)
	}
	return nil, asm.NewRangeError(inst.Pos, "unencodable mnemonic: %s", inst.Mnemonic)
}

// encodeDB evaluates each DB operand as a value fitting in a byte (the
// same -128..255 range evalU8 already enforces) and concatenates them.
func encodeDB(inst *asm.Instruction, symbols *asm.SymbolTable) ([]byte, error) {
	out := make([]byte, 0, len(inst.Operands))
	for _, op := range inst.Operands {
		n, err := evalU8(op.Expr, symbols)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// encodeDW evaluates each DW operand as a 16-bit value and emits it
// little-endian.
func encodeDW(inst *asm.Instruction, symbols *asm.SymbolTable) ([]byte, error) {
	out := make([]byte, 0, len(inst.Operands)*2)
	for _, op := range inst.Operands {
		n, err := evalU16(op.Expr, symbols)
		if err != nil {
			return nil, err
		}
		out = append(out, le16(n)...)
	}
	return out, nil
}

func encodeRet(inst *asm.Instruction) ([]byte, error) {
	if len(inst.Operands) == 0 {
		return []byte{0xC9}, nil
	}
	cc, ok := condIndex(inst.Operands[0].Reg)
	if !ok {
		return nil, asm.NewRangeError(inst.Pos, "invalid condition for ret")
	}
	return []byte{0xC0 + byte(cc)*8}, nil
}

func encodePush(inst *asm.Instruction) ([]byte, error) {
	pp, ok := pushPopPairIndex(inst.Operands[0].Reg)
	if !ok {
		return nil, asm.NewRangeError(inst.Pos, "invalid register pair for push")
	}
	return []byte{0xC5 + byte(pp)*0x10}, nil
}

func encodePop(inst *asm.Instruction) ([]byte, error) {
	pp, ok := pushPopPairIndex(inst.Operands[0].Reg)
	if !ok {
		return nil, asm.NewRangeError(inst.Pos, "invalid register pair for pop")
	}
	return []byte{0xC1 + byte(pp)*0x10}, nil
}

func encodeIncDec(inst *asm.Instruction, base8, base16 byte) ([]byte, error) {
	op := inst.Operands[0]
	if op.Kind == asm.OperandReg16 {
		rp, ok := reg16PairIndex(op.Reg)
		if !ok {
			return nil, asm.NewRangeError(inst.Pos, "invalid register pair for %s", inst.Mnemonic)
		}
		return []byte{base16 + byte(rp)*0x10}, nil
	}
	idx, ok := reg8Index(op)
	if !ok {
		return nil, asm.NewRangeError(inst.Pos, "invalid operand for %s", inst.Mnemonic)
	}
	return []byte{base8 + byte(idx)*8}, nil
}

func encodeALU(inst *asm.Instruction, symbols *asm.SymbolTable) ([]byte, error) {
	base := aluOpBase[inst.Mnemonic]

	if len(inst.Operands) == 2 {
		dst := inst.Operands[0]
		src := inst.Operands[1]
		if dst.Reg == "HL" {
			rp, ok := reg16PairIndex(src.Reg)
			if !ok {
				return nil, asm.NewRangeError(inst.Pos, "invalid operand for add hl")
			}
			return []byte{0x09 + byte(rp)*0x10}, nil
		}
		if dst.Reg == "SP" {
			n, err := evalU8(src.Expr, symbols)
			if err != nil {
				return nil, err
			}
			return []byte{0xE8, n}, nil
		}
		return nil, asm.NewRangeError(inst.Pos, "malformed %s operands", inst.Mnemonic)
	}

	op := inst.Operands[0]
	if op.Kind == asm.OperandImm8 {
		n, err := evalU8(op.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return []byte{base + 0x46, n}, nil // immediate form sits at the (HL) slot + 0x40
	}
	idx, ok := reg8Index(op)
	if !ok {
		return nil, asm.NewRangeError(inst.Pos, "invalid operand for %s", inst.Mnemonic)
	}
	return []byte{base + byte(idx)}, nil
}

func encodeShift(inst *asm.Instruction) ([]byte, error) {
	var cbBase byte
	switch inst.Mnemonic {
	case "rlc":
		cbBase = 0x00
	case "rrc":
		cbBase = 0x08
	case "rl":
		cbBase = 0x10
	case "rr":
		cbBase = 0x18
	case "sla":
		cbBase = 0x20
	case "sra":
		cbBase = 0x28
	case "swap":
		cbBase = 0x30
	case "srl":
		cbBase = 0x38
	}
	idx, ok := reg8Index(inst.Operands[0])
	if !ok {
		return nil, asm.NewRangeError(inst.Pos, "invalid operand for %s", inst.Mnemonic)
	}
	return []byte{0xCB, cbBase + byte(idx)}, nil
}

func encodeBitOp(inst *asm.Instruction, symbols *asm.SymbolTable) ([]byte, error) {
	var base byte
	switch inst.Mnemonic {
	case "bit":
		base = 0x40
	case "res":
		base = 0x80
	case "set":
		base = 0xC0
	}
	bit, err := inst.Operands[0].Expr.Eval(symbols)
	if err != nil {
		return nil, err
	}
	if bit < 0 || bit > 7 {
		return nil, asm.NewRangeError(inst.Operands[0].Pos, "bit index %d out of range 0-7", bit)
	}
	idx, ok := reg8Index(inst.Operands[1])
	if !ok {
		return nil, asm.NewRangeError(inst.Pos, "invalid operand for %s", inst.Mnemonic)
	}
	return []byte{0xCB, base + byte(bit)*8 + byte(idx)}, nil
}

func encodeRST(inst *asm.Instruction, symbols *asm.SymbolTable) ([]byte, error) {
	n, err := inst.Operands[0].Expr.Eval(symbols)
	if err != nil {
		return nil, err
	}
	switch n {
	case 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38:
		return []byte{0xC7 + byte(n)}, nil
	}
	return nil, asm.NewRangeError(inst.Operands[0].Pos, "rst target %#x is not a valid restart vector", n)
}

func encodeJP(inst *asm.Instruction, symbols *asm.SymbolTable) ([]byte, error) {
	if len(inst.Operands) == 1 && inst.Operands[0].Kind == asm.OperandReg16 && inst.Operands[0].Reg == "HL" {
		return []byte{0xE9}, nil
	}
	if len(inst.Operands) == 1 {
		nn, err := evalU16(inst.Operands[0].Expr, symbols)
		if err != nil {
			return nil, err
		}
		return append([]byte{0xC3}, le16(nn)...), nil
	}
	cc, ok := condIndex(inst.Operands[0].Reg)
	if !ok {
		return nil, asm.NewRangeError(inst.Pos, "invalid condition for jp")
	}
	nn, err := evalU16(inst.Operands[1].Expr, symbols)
	if err != nil {
		return nil, err
	}
	return append([]byte{0xC2 + byte(cc)*8}, le16(nn)...), nil
}

func encodeCall(inst *asm.Instruction, symbols *asm.SymbolTable) ([]byte, error) {
	if len(inst.Operands) == 1 {
		nn, err := evalU16(inst.Operands[0].Expr, symbols)
		if err != nil {
			return nil, err
		}
		return append([]byte{0xCD}, le16(nn)...), nil
	}
	cc, ok := condIndex(inst.Operands[0].Reg)
	if !ok {
		return nil, asm.NewRangeError(inst.Pos, "invalid condition for call")
	}
	nn, err := evalU16(inst.Operands[1].Expr, symbols)
	if err != nil {
		return nil, err
	}
	return append([]byte{0xC4 + byte(cc)*8}, le16(nn)...), nil
}

// encodeJR computes the signed displacement relative to the address of the
// instruction immediately following this one (addr+2), since that's where
// the CPU's program counter sits when it applies the offset.
func encodeJR(inst *asm.Instruction, addr int, symbols *asm.SymbolTable) ([]byte, error) {
	var targetExpr *asm.Expression
	var opcodeBase byte
	if len(inst.Operands) == 1 {
		targetExpr = inst.Operands[0].Expr
		opcodeBase = 0x18
	} else {
		cc, ok := condIndex(inst.Operands[0].Reg)
		if !ok {
			return nil, asm.NewRangeError(inst.Pos, "invalid condition for jr")
		}
		targetExpr = inst.Operands[1].Expr
		opcodeBase = 0x20 + byte(cc)*8
	}

	target, err := targetExpr.Eval(symbols)
	if err != nil {
		return nil, err
	}
	disp := target - int64(addr+2)
	if disp < -128 || disp > 127 {
		return nil, asm.NewRangeError(targetExpr.Pos, "jr target out of range: displacement %d does not fit in a signed byte", disp)
	}
	return []byte{opcodeBase, byte(int8(disp))}, nil
}

func encodeLD(inst *asm.Instruction, symbols *asm.SymbolTable) ([]byte, error) {
	dst, src := inst.Operands[0], inst.Operands[1]

	switch {
	case dst.Kind == asm.OperandReg16 && dst.Reg == "SP" && src.Kind == asm.OperandReg16 && src.Reg == "HL":
		return []byte{0xF9}, nil

	case dst.Kind == asm.OperandReg16 && src.Kind == asm.OperandSPOffset:
		e, err := evalU8(src.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return []byte{0xF8, e}, nil

	case dst.Kind == asm.OperandIndNN && src.Kind == asm.OperandReg16 && src.Reg == "SP":
		nn, err := evalU16(dst.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return append([]byte{0x08}, le16(nn)...), nil

	case dst.Kind == asm.OperandReg16 && src.Kind == asm.OperandImm16:
		rp, ok := reg16PairIndex(dst.Reg)
		if !ok {
			return nil, asm.NewRangeError(inst.Pos, "invalid register pair")
		}
		nn, err := evalU16(src.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return append([]byte{0x01 + byte(rp)*0x10}, le16(nn)...), nil

	case dst.Kind == asm.OperandReg8 && dst.Reg == "A" && src.Kind == asm.OperandIndBC:
		return []byte{0x0A}, nil
	case dst.Kind == asm.OperandIndBC && src.Kind == asm.OperandReg8 && src.Reg == "A":
		return []byte{0x02}, nil
	case dst.Kind == asm.OperandReg8 && dst.Reg == "A" && src.Kind == asm.OperandIndDE:
		return []byte{0x1A}, nil
	case dst.Kind == asm.OperandIndDE && src.Kind == asm.OperandReg8 && src.Reg == "A":
		return []byte{0x12}, nil
	case dst.Kind == asm.OperandReg8 && dst.Reg == "A" && src.Kind == asm.OperandIndHLInc:
		return []byte{0x2A}, nil
	case dst.Kind == asm.OperandIndHLInc && src.Kind == asm.OperandReg8 && src.Reg == "A":
		return []byte{0x22}, nil
	case dst.Kind == asm.OperandReg8 && dst.Reg == "A" && src.Kind == asm.OperandIndHLDec:
		return []byte{0x3A}, nil
	case dst.Kind == asm.OperandIndHLDec && src.Kind == asm.OperandReg8 && src.Reg == "A":
		return []byte{0x32}, nil

	case dst.Kind == asm.OperandReg8 && dst.Reg == "A" && src.Kind == asm.OperandIndNN:
		nn, err := evalU16(src.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return append([]byte{0xFA}, le16(nn)...), nil
	case dst.Kind == asm.OperandIndNN && src.Kind == asm.OperandReg8 && src.Reg == "A":
		nn, err := evalU16(dst.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return append([]byte{0xEA}, le16(nn)...), nil

	case dst.Kind == asm.OperandReg8 && dst.Reg == "A" && src.Kind == asm.OperandHighC:
		return []byte{0xF2}, nil
	case dst.Kind == asm.OperandHighC && src.Kind == asm.OperandReg8 && src.Reg == "A":
		return []byte{0xE2}, nil
	case dst.Kind == asm.OperandReg8 && dst.Reg == "A" && src.Kind == asm.OperandHighN:
		n, err := evalU8(src.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return []byte{0xF0, n}, nil
	case dst.Kind == asm.OperandHighN && src.Kind == asm.OperandReg8 && src.Reg == "A":
		n, err := evalU8(dst.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return []byte{0xE0, n}, nil

	case dst.Kind == asm.OperandReg8 && src.Kind == asm.OperandImm8:
		idx, ok := reg8Index(dst)
		if !ok {
			return nil, asm.NewRangeError(inst.Pos, "invalid destination register")
		}
		n, err := evalU8(src.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return []byte{0x06 + byte(idx)*8, n}, nil

	case dst.Kind == asm.OperandIndHL && src.Kind == asm.OperandImm8:
		n, err := evalU8(src.Expr, symbols)
		if err != nil {
			return nil, err
		}
		return []byte{0x36, n}, nil

	case (dst.Kind == asm.OperandReg8 && src.Kind == asm.OperandReg8) ||
		(dst.Kind == asm.OperandReg8 && src.Kind == asm.OperandIndHL) ||
		(dst.Kind == asm.OperandIndHL && src.Kind == asm.OperandReg8):
		dIdx, ok1 := reg8Index(dst)
		sIdx, ok2 := reg8Index(src)
		if !ok1 || !ok2 {
			return nil, asm.NewRangeError(inst.Pos, "invalid ld operands")
		}
		if dIdx == 6 && sIdx == 6 {
			return nil, asm.NewRangeError(inst.Pos, "ld [hl],[hl] is not encodable (that opcode is halt)")
		}
		return []byte{0x40 + byte(dIdx)*8 + byte(sIdx)}, nil
	}

	return nil, asm.NewRangeError(inst.Pos, "ld has no valid encoding for these operands")
}
