package asm

var reg8Set = map[string]bool{"A": true, "B": true, "C": true, "D": true, "E": true, "H": true, "L": true}
var reg16Set = map[string]bool{"BC": true, "DE": true, "HL": true, "SP": true}
var pushPopSet = map[string]bool{"BC": true, "DE": true, "HL": true, "AF": true}

func is8BitReg(name string) bool   { return reg8Set[name] }
func is16BitReg(name string) bool  { return reg16Set[name] }
func isPushPopReg(name string) bool { return pushPopSet[name] }

// directiveKeywords are identifiers that introduce a directive rather
// than an instruction or a bare label, matched case-insensitively.
var directiveKeywords = map[string]bool{"db": true, "dw": true, "advance_address": true}

// mnemonicSet is every recognized instruction mnemonic, matched
// case-insensitively. A line consisting of a single bare identifier is only
// a colon-less label definition when that identifier is neither one of
// these nor a directive keyword — otherwise a zero-operand instruction like
// a lone "nop" or "ret" would be mistaken for a label.
var mnemonicSet = map[string]bool{
	"nop": true, "halt": true, "stop": true, "di": true, "ei": true,
	"daa": true, "cpl": true, "scf": true, "ccf": true,
	"rlca": true, "rrca": true, "rla": true, "rra": true, "reti": true,
	"ret": true, "ld": true, "ldh": true, "ldi": true, "ldd": true,
	"push": true, "pop": true,
	"add": true, "adc": true, "sub": true, "sbc": true, "and": true, "xor": true, "or": true, "cp": true,
	"inc": true, "dec": true,
	"jp": true, "jr": true, "call": true, "rst": true,
	"rlc": true, "rrc": true, "rl": true, "rr": true, "sla": true, "sra": true, "swap": true, "srl": true,
	"bit": true, "res": true, "set": true,
}
