package asm

// Size returns the instruction's encoded length in bytes. It depends only
// on the mnemonic and the kinds of its operands, never on the values their
// expressions evaluate to — so placement (pass 1) can compute every
// address before a single symbol is resolved.
func (i *Instruction) Size() int {
	switch i.Mnemonic {
	case "nop", "halt", "di", "ei", "daa", "cpl", "scf", "ccf", "rlca", "rrca", "rla", "rra", "reti":
		return 1
	case "stop":
		return 2
	case "ret":
		return 1
	case "rst", "push", "pop":
		return 1
	case "ld":
		return ldSize(i.Operands)
	case "add", "adc", "sub", "sbc", "and", "xor", "or", "cp":
		return aluSize(i.Mnemonic, i.Operands)
	case "inc", "dec":
		return incDecSize(i.Operands)
	case "jp":
		return jpSize(i.Operands)
	case "jr":
		return 2
	case "call":
		return 3
	case "rlc", "rrc", "rl", "rr", "sla", "sra", "swap", "srl":
		return 2
	case "bit", "res", "set":
		return 2
	case "db":
		return len(i.Operands)
	case "dw":
		return len(i.Operands) * 2
	}
	return 0
}

func ldSize(ops []Operand) int {
	if len(ops) != 2 {
		return 0
	}
	dst, src := ops[0], ops[1]

	switch {
	case dst.Kind == OperandReg16 && dst.Reg == "SP" && src.Kind == OperandReg16 && src.Reg == "HL":
		return 1
	case dst.Kind == OperandReg16 && src.Kind == OperandSPOffset:
		return 2
	case dst.Kind == OperandIndNN && src.Kind == OperandReg16 && src.Reg == "SP":
		return 3
	case dst.Kind == OperandReg16 && src.Kind == OperandImm16:
		return 3
	case dst.Kind == OperandReg8 && src.Kind == OperandReg8:
		return 1
	case dst.Kind == OperandReg8 && src.Kind == OperandIndHL:
		return 1
	case dst.Kind == OperandIndHL && src.Kind == OperandReg8:
		return 1
	case dst.Kind == OperandIndHL && src.Kind == OperandImm8:
		return 2
	case dst.Kind == OperandReg8 && src.Kind == OperandImm8:
		return 2
	case dst.Kind == OperandReg8 && dst.Reg == "A" &&
		(src.Kind == OperandIndBC || src.Kind == OperandIndDE || src.Kind == OperandIndHLInc || src.Kind == OperandIndHLDec):
		return 1
	case (dst.Kind == OperandIndBC || dst.Kind == OperandIndDE || dst.Kind == OperandIndHLInc || dst.Kind == OperandIndHLDec) &&
		src.Kind == OperandReg8 && src.Reg == "A":
		return 1
	case dst.Kind == OperandReg8 && dst.Reg == "A" && src.Kind == OperandIndNN:
		return 3
	case dst.Kind == OperandIndNN && src.Kind == OperandReg8 && src.Reg == "A":
		return 3
	case dst.Kind == OperandReg8 && dst.Reg == "A" && src.Kind == OperandHighC:
		return 1
	case dst.Kind == OperandHighC && src.Kind == OperandReg8 && src.Reg == "A":
		return 1
	case dst.Kind == OperandReg8 && dst.Reg == "A" && src.Kind == OperandHighN:
		return 2
	case dst.Kind == OperandHighN && src.Kind == OperandReg8 && src.Reg == "A":
		return 2
	}
	return 0
}

func aluSize(mnemonic string, ops []Operand) int {
	if len(ops) == 1 {
		switch ops[0].Kind {
		case OperandReg8, OperandIndHL:
			return 1
		case OperandImm8:
			return 2
		}
		return 0
	}
	if mnemonic == "add" && len(ops) == 2 {
		if ops[0].Kind == OperandReg16 && ops[0].Reg == "HL" && ops[1].Kind == OperandReg16 {
			return 1
		}
		if ops[0].Kind == OperandReg16 && ops[0].Reg == "SP" && ops[1].Kind == OperandImm8 {
			return 2
		}
	}
	return 0
}

func incDecSize(ops []Operand) int {
	if len(ops) != 1 {
		return 0
	}
	switch ops[0].Kind {
	case OperandReg8, OperandIndHL, OperandReg16:
		return 1
	}
	return 0
}

func jpSize(ops []Operand) int {
	if len(ops) == 1 && ops[0].Kind == OperandReg16 && ops[0].Reg == "HL" {
		return 1
	}
	if len(ops) == 1 && ops[0].Kind == OperandImm16 {
		return 3
	}
	if len(ops) == 2 && ops[0].Kind == OperandCond && ops[1].Kind == OperandImm16 {
		return 3
	}
	return 0
}
