package asm

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Parser turns a token stream into a Program: an ordered list of label
// definitions, EQU bindings, DB/DW data, advance_address directives, and
// instructions. It is purely syntactic — no address or symbol is resolved
// here, and a malformed line stops the pass immediately rather than trying
// to recover and keep going.
type Parser struct {
	lexer        *Lexer
	tokens       []Token
	pos          int
	currentToken Token
	peekToken    Token
	filename     string
	inputLines   []string
}

// NewParser tokenizes source up front and positions the parser at the
// first token.
func NewParser(source, filename string) *Parser {
	lexer := NewLexer(source, filename)
	p := &Parser{
		lexer:      lexer,
		filename:   filename,
		inputLines: strings.Split(source, "\n"),
	}
	p.tokens = lexer.TokenizeAll()
	p.nextToken()
	p.nextToken()
	return p
}

// ParseFile resolves includes relative to path's directory and parses the
// result into a Program.
func ParseFile(path string) (*Program, error) {
	source, err := NewIncludeResolver().ResolveFile(path)
	if err != nil {
		return nil, err
	}
	return NewParser(source, filepath.Base(path)).Parse()
}

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = Token{Type: TokenEOF, Pos: p.currentToken.Pos}
	}
}

func (p *Parser) skipNewlines() {
	for p.currentToken.Type == TokenNewline || p.currentToken.Type == TokenComment {
		p.nextToken()
	}
}

func (p *Parser) getRawLine(line int) string {
	if line-1 >= 0 && line-1 < len(p.inputLines) {
		return strings.TrimRight(p.inputLines[line-1], "\r")
	}
	return ""
}

func (p *Parser) expect(tt TokenType) error {
	if p.currentToken.Type != tt {
		return NewParseError(p.currentToken.Pos, "expected %s, got %s", tt, p.currentToken.Type)
	}
	p.nextToken()
	return nil
}

func (p *Parser) expectComma() error { return p.expect(TokenComma) }

func (p *Parser) atLineEnd() bool {
	return p.currentToken.Type == TokenNewline || p.currentToken.Type == TokenEOF || p.currentToken.Type == TokenComment
}

// Parse consumes the whole token stream and returns the resulting Program.
// Lexer errors (unterminated strings, malformed literals) are reported
// before any parsing is attempted, since every later position would be
// unreliable otherwise.
func (p *Parser) Parse() (*Program, error) {
	if p.lexer.Errors().HasErrors() {
		return nil, p.lexer.Errors()
	}

	program := &Program{}
	p.skipNewlines()
	for p.currentToken.Type != TokenEOF {
		stmts, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmts...)

		if !p.atLineEnd() {
			return nil, NewParseError(p.currentToken.Pos, "unexpected trailing token: %s", p.currentToken.Type)
		}
		p.skipNewlines()
	}
	return program, nil
}

// parseLine parses everything on one logical source line: an optional
// label, followed by at most one of an EQU binding, a DB/DW/advance_address
// directive, or an instruction.
func (p *Parser) parseLine() ([]*Statement, error) {
	var stmts []*Statement

	if p.currentToken.Type == TokenIdentifier && p.peekToken.Type == TokenColon {
		stmts = append(stmts, &Statement{Kind: StmtLabel, Label: p.currentToken.Literal, Pos: p.currentToken.Pos})
		p.nextToken() // identifier
		p.nextToken() // colon
	} else if p.currentToken.Type == TokenIdentifier &&
		!directiveKeywords[strings.ToLower(p.currentToken.Literal)] &&
		!mnemonicSet[strings.ToLower(p.currentToken.Literal)] {
		// A bare identifier alone on its own line, with no colon, is also a
		// label definition — but only once we've ruled out the directive
		// keywords and every instruction mnemonic, which are themselves
		// bare identifiers and may legally appear with zero operands.
		if p.atLineEndTok(p.peekToken) {
			label := p.currentToken.Literal
			pos := p.currentToken.Pos
			p.nextToken()
			return []*Statement{{Kind: StmtLabel, Label: label, Pos: pos}}, nil
		}
	}

	if p.atLineEnd() {
		return stmts, nil
	}

	if p.currentToken.Type == TokenIdentifier && p.peekToken.Type == TokenIdentifier && strings.EqualFold(p.peekToken.Literal, "EQU") {
		name := p.currentToken.Literal
		pos := p.currentToken.Pos
		p.nextToken() // name
		p.nextToken() // EQU
		value, err := newExprParser(p).ParseExpression()
		if err != nil {
			return nil, err
		}
		return append(stmts, &Statement{Kind: StmtEqu, Name: name, Value: value, Pos: pos}), nil
	}

	if p.currentToken.Type != TokenIdentifier {
		return nil, NewParseError(p.currentToken.Pos, "expected a label, directive, or mnemonic, got %s", p.currentToken.Type)
	}

	pos := p.currentToken.Pos
	keyword := strings.ToLower(p.currentToken.Literal)
	switch keyword {
	case "db":
		p.nextToken()
		exprs, err := p.parseDBArgs()
		if err != nil {
			return nil, err
		}
		return append(stmts, &Statement{Kind: StmtDB, Exprs: exprs, Pos: pos}), nil

	case "dw":
		p.nextToken()
		exprs, err := p.parseDWArgs()
		if err != nil {
			return nil, err
		}
		return append(stmts, &Statement{Kind: StmtDW, Exprs: exprs, Pos: pos}), nil

	case "advance_address":
		p.nextToken()
		bank, err := newExprParser(p).ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectComma(); err != nil {
			return nil, err
		}
		offset, err := newExprParser(p).ParseExpression()
		if err != nil {
			return nil, err
		}
		return append(stmts, &Statement{Kind: StmtAdvanceAddress, Bank: bank, Offset: offset, Pos: pos}), nil

	default:
		inst, err := p.parseInstruction(keyword)
		if err != nil {
			return nil, err
		}
		return append(stmts, &Statement{Kind: StmtInstruction, Instr: inst, Pos: pos}), nil
	}
}

// atLineEndTok reports whether tok would terminate a line; used to detect
// a colon-less label, which is only valid when nothing follows it.
func (p *Parser) atLineEndTok(tok Token) bool {
	return tok.Type == TokenNewline || tok.Type == TokenEOF || tok.Type == TokenComment
}

func (p *Parser) parseDBArgs() ([]*Expression, error) {
	var exprs []*Expression
	for {
		if p.currentToken.Type == TokenString {
			str := resolveStringEscapes(p.currentToken.Literal)
			pos := p.currentToken.Pos
			for i := 0; i < len(str); i++ {
				exprs = append(exprs, &Expression{Kind: ExprLiteral, Value: int64(str[i]), Pos: pos})
			}
			p.nextToken()
		} else {
			expr, err := newExprParser(p).ParseExpression()
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}
		if p.currentToken.Type != TokenComma {
			break
		}
		p.nextToken()
	}
	if len(exprs) == 0 {
		return nil, NewParseError(p.currentToken.Pos, "db requires at least one value")
	}
	return exprs, nil
}

func (p *Parser) parseDWArgs() ([]*Expression, error) {
	var exprs []*Expression
	for {
		expr, err := newExprParser(p).ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if p.currentToken.Type != TokenComma {
			break
		}
		p.nextToken()
	}
	if len(exprs) == 0 {
		return nil, NewParseError(p.currentToken.Pos, "dw requires at least one value")
	}
	return exprs, nil
}

// parseInstruction parses one mnemonic's operands, canonicalizing dialect
// variants (ldh, ldi, ldd) down to the "ld" forms the encoder understands,
// then fixes the instruction's EncodedLen from its operand shape alone.
func (p *Parser) parseInstruction(mnemonic string) (*Instruction, error) {
	pos := p.currentToken.Pos
	raw := p.getRawLine(pos.Line)
	p.nextToken()

	inst := &Instruction{Mnemonic: mnemonic, Pos: pos, RawLine: raw}

	var err error
	switch mnemonic {
	case "nop", "halt", "stop", "di", "ei", "daa", "cpl", "scf", "ccf", "rlca", "rrca", "rla", "rra", "reti":
		// no operands
	case "ret":
		err = p.parseRet(inst)
	case "ld":
		err = p.parseLD(inst)
	case "ldh":
		err = p.parseLDH(inst)
	case "ldi":
		err = p.parseLDIorLDD(inst, true)
	case "ldd":
		err = p.parseLDIorLDD(inst, false)
	case "push", "pop":
		err = p.parseStackOp(inst)
	case "add", "adc", "sub", "sbc", "and", "xor", "or", "cp":
		err = p.parseALU(inst)
	case "inc", "dec":
		err = p.parseIncDec(inst)
	case "jp":
		err = p.parseJP(inst)
	case "jr":
		err = p.parseJR(inst)
	case "call":
		err = p.parseCall(inst)
	case "rst":
		err = p.parseRST(inst)
	case "rlc", "rrc", "rl", "rr", "sla", "sra", "swap", "srl":
		err = p.parseShift(inst)
	case "bit", "res", "set":
		err = p.parseBitOp(inst)
	default:
		return nil, NewParseError(pos, "unknown mnemonic: %s", mnemonic)
	}
	if err != nil {
		return nil, err
	}

	inst.EncodedLen = inst.Size()
	if inst.EncodedLen == 0 {
		return nil, NewParseError(pos, "%s has no valid encoding for these operands", mnemonic)
	}
	return inst, nil
}

// -- operand helpers --------------------------------------------------

// highPageOffset recognizes the "0xFF00+n" / "0xFF00+C" dialect so a plain
// LD can reach the high page without the dedicated LDH mnemonic. The "+C"
// form names the register, not a symbol that happens to be called "C", so
// it maps to HighC rather than carrying an identifier expression.
func highPageOffset(expr *Expression) (Operand, bool) {
	if expr.Kind != ExprBinary || expr.Op != "+" || expr.X.Kind != ExprLiteral || expr.X.Value != 0xFF00 {
		return Operand{}, false
	}
	if expr.Y.Kind == ExprIdent && expr.Y.Name == "C" {
		return Operand{Kind: OperandHighC, Pos: expr.Pos}, true
	}
	return Operand{Kind: OperandHighN, Expr: expr.Y, Pos: expr.Pos}, true
}

// parseBracketOperand parses a general "[...]" operand for LD: [HL],
// [HL+], [HL-], [BC], [DE], [C], [nn], or [0xFF00+n].
func (p *Parser) parseBracketOperand() (Operand, error) {
	pos := p.currentToken.Pos
	p.nextToken() // consume '['

	if p.currentToken.Type == TokenRegister {
		reg := p.currentToken.Literal
		switch reg {
		case "HL":
			p.nextToken()
			switch p.currentToken.Type {
			case TokenPlus:
				p.nextToken()
				if err := p.expect(TokenRBracket); err != nil {
					return Operand{}, err
				}
				return Operand{Kind: OperandIndHLInc, Pos: pos}, nil
			case TokenMinus:
				p.nextToken()
				if err := p.expect(TokenRBracket); err != nil {
					return Operand{}, err
				}
				return Operand{Kind: OperandIndHLDec, Pos: pos}, nil
			default:
				if err := p.expect(TokenRBracket); err != nil {
					return Operand{}, err
				}
				return Operand{Kind: OperandIndHL, Pos: pos}, nil
			}
		case "BC":
			p.nextToken()
			if err := p.expect(TokenRBracket); err != nil {
				return Operand{}, err
			}
			return Operand{Kind: OperandIndBC, Pos: pos}, nil
		case "DE":
			p.nextToken()
			if err := p.expect(TokenRBracket); err != nil {
				return Operand{}, err
			}
			return Operand{Kind: OperandIndDE, Pos: pos}, nil
		case "C":
			p.nextToken()
			if err := p.expect(TokenRBracket); err != nil {
				return Operand{}, err
			}
			return Operand{Kind: OperandHighC, Pos: pos}, nil
		default:
			return Operand{}, NewParseError(pos, "invalid register in indirect operand: %s", reg)
		}
	}

	expr, err := newExprParser(p).ParseExpression()
	if err != nil {
		return Operand{}, err
	}
	if err := p.expect(TokenRBracket); err != nil {
		return Operand{}, err
	}
	if op, ok := highPageOffset(expr); ok {
		op.Pos = pos
		return op, nil
	}
	return Operand{Kind: OperandIndNN, Expr: expr, Pos: pos}, nil
}

// parseLDHBracket parses LDH's "[n]"/"[C]" forms, where the high-page base
// is implicit rather than written out as "0xFF00+...".
func (p *Parser) parseLDHBracket() (Operand, error) {
	pos := p.currentToken.Pos
	p.nextToken() // consume '['

	if p.currentToken.Type == TokenRegister && p.currentToken.Literal == "C" {
		p.nextToken()
		if err := p.expect(TokenRBracket); err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandHighC, Pos: pos}, nil
	}

	expr, err := newExprParser(p).ParseExpression()
	if err != nil {
		return Operand{}, err
	}
	if err := p.expect(TokenRBracket); err != nil {
		return Operand{}, err
	}
	if op, ok := highPageOffset(expr); ok {
		op.Pos = pos
		return op, nil
	}
	return Operand{Kind: OperandHighN, Expr: expr, Pos: pos}, nil
}

func (p *Parser) parseReg8Operand() (Operand, error) {
	pos := p.currentToken.Pos
	if p.currentToken.Type != TokenRegister || !is8BitReg(p.currentToken.Literal) {
		return Operand{}, NewParseError(pos, "expected an 8-bit register")
	}
	reg := p.currentToken.Literal
	p.nextToken()
	return Operand{Kind: OperandReg8, Reg: reg, Pos: pos}, nil
}

func (p *Parser) parseRegOrIndHL() (Operand, error) {
	if p.currentToken.Type == TokenLBracket {
		return p.parseBracketOperand()
	}
	return p.parseReg8Operand()
}

// tryParseCondition consumes a leading "cc," prefix (z, nz, c, nc) if
// present, for JP/JR/CALL. It never consumes anything on a false return.
func (p *Parser) tryParseCondition() (string, bool) {
	if (p.currentToken.Type == TokenIdentifier || p.currentToken.Type == TokenRegister) && p.peekToken.Type == TokenComma {
		upper := strings.ToUpper(p.currentToken.Literal)
		if conditionNames[upper] {
			p.nextToken() // condition
			p.nextToken() // comma
			return upper, true
		}
	}
	return "", false
}

// -- per-mnemonic-family parsers ---------------------------------------

func (p *Parser) parseLDOperand() (Operand, error) {
	pos := p.currentToken.Pos
	switch p.currentToken.Type {
	case TokenLBracket:
		return p.parseBracketOperand()
	case TokenRegister:
		reg := p.currentToken.Literal
		if reg == "SP" && p.peekToken.Type == TokenPlus {
			p.nextToken() // SP
			p.nextToken() // +
			expr, err := newExprParser(p).ParseExpression()
			if err != nil {
				return Operand{}, err
			}
			return Operand{Kind: OperandSPOffset, Expr: expr, Pos: pos}, nil
		}
		p.nextToken()
		if is8BitReg(reg) {
			return Operand{Kind: OperandReg8, Reg: reg, Pos: pos}, nil
		}
		return Operand{Kind: OperandReg16, Reg: reg, Pos: pos}, nil
	default:
		expr, err := newExprParser(p).ParseExpression()
		if err != nil {
			return Operand{}, err
		}
		// Width is unknown until we see the other operand; parseLD narrows
		// this to OperandImm8 when the destination implies 8-bit storage.
		return Operand{Kind: OperandImm16, Expr: expr, Pos: pos}, nil
	}
}

func (p *Parser) parseLD(inst *Instruction) error {
	dst, err := p.parseLDOperand()
	if err != nil {
		return err
	}
	if err := p.expectComma(); err != nil {
		return err
	}
	src, err := p.parseLDOperand()
	if err != nil {
		return err
	}

	if src.Kind == OperandImm16 && dst.Kind != OperandReg16 {
		src.Kind = OperandImm8
	}

	inst.Operands = []Operand{dst, src}
	return nil
}

func (p *Parser) parseLDHOperand() (Operand, error) {
	pos := p.currentToken.Pos
	if p.currentToken.Type == TokenLBracket {
		return p.parseLDHBracket()
	}
	if p.currentToken.Type == TokenRegister && p.currentToken.Literal == "A" {
		p.nextToken()
		return Operand{Kind: OperandReg8, Reg: "A", Pos: pos}, nil
	}
	return Operand{}, NewParseError(pos, "ldh operands must be a register or a bracketed high-page address")
}

func (p *Parser) parseLDH(inst *Instruction) error {
	dst, err := p.parseLDHOperand()
	if err != nil {
		return err
	}
	if err := p.expectComma(); err != nil {
		return err
	}
	src, err := p.parseLDHOperand()
	if err != nil {
		return err
	}
	inst.Mnemonic = "ld" // ldh is a surface dialect of ld with a HighC/HighN operand
	inst.Operands = []Operand{dst, src}
	return nil
}

func (p *Parser) parseLDIOperand() (Operand, error) {
	if p.currentToken.Type == TokenLBracket {
		pos := p.currentToken.Pos
		p.nextToken()
		if p.currentToken.Type != TokenRegister || p.currentToken.Literal != "HL" {
			return Operand{}, NewParseError(pos, "expected [hl]")
		}
		p.nextToken()
		if err := p.expect(TokenRBracket); err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandIndHL, Pos: pos}, nil
	}
	return p.parseReg8Operand()
}

func (p *Parser) parseLDIorLDD(inst *Instruction, isInc bool) error {
	kind := OperandIndHLDec
	if isInc {
		kind = OperandIndHLInc
	}

	first, err := p.parseLDIOperand()
	if err != nil {
		return err
	}
	if err := p.expectComma(); err != nil {
		return err
	}
	second, err := p.parseLDIOperand()
	if err != nil {
		return err
	}

	inst.Mnemonic = "ld"
	switch {
	case first.Kind == OperandReg8 && first.Reg == "A" && second.Kind == OperandIndHL:
		inst.Operands = []Operand{{Kind: OperandReg8, Reg: "A", Pos: first.Pos}, {Kind: kind, Pos: second.Pos}}
	case first.Kind == OperandIndHL && second.Kind == OperandReg8 && second.Reg == "A":
		inst.Operands = []Operand{{Kind: kind, Pos: first.Pos}, {Kind: OperandReg8, Reg: "A", Pos: second.Pos}}
	default:
		return NewParseError(inst.Pos, "operands must be a,[hl] or [hl],a")
	}
	return nil
}

func (p *Parser) parseStackOp(inst *Instruction) error {
	pos := p.currentToken.Pos
	if p.currentToken.Type != TokenRegister || !isPushPopReg(p.currentToken.Literal) {
		return NewParseError(pos, "%s requires a register pair operand (bc, de, hl, or af)", inst.Mnemonic)
	}
	reg := p.currentToken.Literal
	p.nextToken()
	inst.Operands = []Operand{{Kind: OperandReg16, Reg: reg, Pos: pos}}
	return nil
}

func (p *Parser) parseALUOperand() (Operand, error) {
	pos := p.currentToken.Pos
	switch {
	case p.currentToken.Type == TokenLBracket:
		return p.parseBracketOperand()
	case p.currentToken.Type == TokenRegister && is8BitReg(p.currentToken.Literal):
		reg := p.currentToken.Literal
		p.nextToken()
		return Operand{Kind: OperandReg8, Reg: reg, Pos: pos}, nil
	default:
		expr, err := newExprParser(p).ParseExpression()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Kind: OperandImm8, Expr: expr, Pos: pos}, nil
	}
}

func (p *Parser) parseALU(inst *Instruction) error {
	if inst.Mnemonic == "add" && p.currentToken.Type == TokenRegister && p.currentToken.Literal == "HL" && p.peekToken.Type == TokenComma {
		p.nextToken() // HL
		p.nextToken() // comma
		if p.currentToken.Type != TokenRegister || !is16BitReg(p.currentToken.Literal) {
			return NewParseError(p.currentToken.Pos, "add hl requires a 16-bit register operand")
		}
		reg := p.currentToken.Literal
		p.nextToken()
		inst.Operands = []Operand{{Kind: OperandReg16, Reg: "HL"}, {Kind: OperandReg16, Reg: reg}}
		return nil
	}
	if inst.Mnemonic == "add" && p.currentToken.Type == TokenRegister && p.currentToken.Literal == "SP" && p.peekToken.Type == TokenComma {
		p.nextToken() // SP
		p.nextToken() // comma
		expr, err := newExprParser(p).ParseExpression()
		if err != nil {
			return err
		}
		inst.Operands = []Operand{{Kind: OperandReg16, Reg: "SP"}, {Kind: OperandImm8, Expr: expr}}
		return nil
	}

	// Optional explicit "A," prefix; GB asm conventionally allows the
	// one-operand implicit-accumulator form too (e.g. "xor b" == "xor a,b").
	if p.currentToken.Type == TokenRegister && p.currentToken.Literal == "A" && p.peekToken.Type == TokenComma {
		p.nextToken() // A
		p.nextToken() // comma
	}

	operand, err := p.parseALUOperand()
	if err != nil {
		return err
	}
	inst.Operands = []Operand{operand}
	return nil
}

func (p *Parser) parseIncDec(inst *Instruction) error {
	pos := p.currentToken.Pos
	switch {
	case p.currentToken.Type == TokenLBracket:
		op, err := p.parseBracketOperand()
		if err != nil {
			return err
		}
		inst.Operands = []Operand{op}
	case p.currentToken.Type == TokenRegister:
		reg := p.currentToken.Literal
		p.nextToken()
		kind := OperandReg16
		if is8BitReg(reg) {
			kind = OperandReg8
		}
		inst.Operands = []Operand{{Kind: kind, Reg: reg, Pos: pos}}
	default:
		return NewParseError(pos, "%s requires a register or [hl] operand", inst.Mnemonic)
	}
	return nil
}

func (p *Parser) parseJP(inst *Instruction) error {
	if p.currentToken.Type == TokenRegister && p.currentToken.Literal == "HL" {
		p.nextToken()
		inst.Operands = []Operand{{Kind: OperandReg16, Reg: "HL"}}
		return nil
	}
	if p.currentToken.Type == TokenLBracket && p.peekToken.Type == TokenRegister && p.peekToken.Literal == "HL" {
		p.nextToken() // [
		p.nextToken() // HL
		if err := p.expect(TokenRBracket); err != nil {
			return err
		}
		inst.Operands = []Operand{{Kind: OperandReg16, Reg: "HL"}}
		return nil
	}

	cond, hasCond := p.tryParseCondition()
	target, err := newExprParser(p).ParseExpression()
	if err != nil {
		return err
	}
	var ops []Operand
	if hasCond {
		ops = append(ops, Operand{Kind: OperandCond, Reg: cond})
	}
	ops = append(ops, Operand{Kind: OperandImm16, Expr: target})
	inst.Operands = ops
	return nil
}

func (p *Parser) parseJR(inst *Instruction) error {
	cond, hasCond := p.tryParseCondition()
	target, err := newExprParser(p).ParseExpression()
	if err != nil {
		return err
	}
	var ops []Operand
	if hasCond {
		ops = append(ops, Operand{Kind: OperandCond, Reg: cond})
	}
	ops = append(ops, Operand{Kind: OperandImm16, Expr: target}) // target address; displacement computed at encode time
	inst.Operands = ops
	return nil
}

func (p *Parser) parseCall(inst *Instruction) error {
	cond, hasCond := p.tryParseCondition()
	target, err := newExprParser(p).ParseExpression()
	if err != nil {
		return err
	}
	var ops []Operand
	if hasCond {
		ops = append(ops, Operand{Kind: OperandCond, Reg: cond})
	}
	ops = append(ops, Operand{Kind: OperandImm16, Expr: target})
	inst.Operands = ops
	return nil
}

func (p *Parser) parseRet(inst *Instruction) error {
	if p.atLineEnd() {
		return nil
	}
	upper := strings.ToUpper(p.currentToken.Literal)
	if !conditionNames[upper] {
		return NewParseError(p.currentToken.Pos, "ret takes no operand or a condition code")
	}
	p.nextToken()
	inst.Operands = []Operand{{Kind: OperandCond, Reg: upper}}
	return nil
}

func (p *Parser) parseRST(inst *Instruction) error {
	expr, err := newExprParser(p).ParseExpression()
	if err != nil {
		return err
	}
	inst.Operands = []Operand{{Kind: OperandImm8, Expr: expr}}
	return nil
}

func (p *Parser) parseShift(inst *Instruction) error {
	op, err := p.parseRegOrIndHL()
	if err != nil {
		return err
	}
	inst.Operands = []Operand{op}
	return nil
}

func (p *Parser) parseBitOp(inst *Instruction) error {
	bitExpr, err := newExprParser(p).ParseExpression()
	if err != nil {
		return err
	}
	if err := p.expectComma(); err != nil {
		return err
	}
	reg, err := p.parseRegOrIndHL()
	if err != nil {
		return err
	}
	inst.Operands = []Operand{{Kind: OperandBit, Expr: bitExpr}, reg}
	return nil
}

// resolveStringEscapes expands a db string literal's backslash escapes
// into the bytes it packs: \n \t \r \\ \0 \" \a \b \f \v, and \xNN for an
// arbitrary byte. An escape the table doesn't recognize is left as-is
// (backslash and all), since RGBDS source in the wild leans on that rather
// than rejecting the line.
func resolveStringEscapes(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case '\\':
			out.WriteByte('\\')
		case '0':
			out.WriteByte(0)
		case '"':
			out.WriteByte('"')
		case 'a':
			out.WriteByte('\a')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case 'v':
			out.WriteByte('\v')
		case 'x':
			if i+3 < len(s) {
				if val, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
					out.WriteByte(byte(val))
					i += 2
					break
				}
			}
			out.WriteByte(s[i])
			out.WriteByte(s[i+1])
		default:
			out.WriteByte(s[i])
			out.WriteByte(s[i+1])
		}
		i++
	}
	return out.String()
}
