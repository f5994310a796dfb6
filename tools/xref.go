package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/gbasm/asm"
)

// ReferenceType indicates how a symbol is used at one point in the
// program.
type ReferenceType int

const (
	RefDefinition ReferenceType = iota // the label or EQU's own definition
	RefJump                            // jp/jr target
	RefCall                            // call target
	RefAddress                         // any other instruction operand, or advance_address
	RefData                            // used inside a db/dw expression
	RefConstant                        // used inside another EQU's expression
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefJump:
		return "jump"
	case RefCall:
		return "call"
	case RefAddress:
		return "address"
	case RefData:
		return "data"
	case RefConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Reference is one use (or the definition) of a Symbol.
type Reference struct {
	Type   ReferenceType
	Line   int
	Column int
	Source string // best-effort rendering of the enclosing statement
}

// Symbol is one label or EQU constant and every place it's used.
type Symbol struct {
	Name       string
	IsConstant bool // true for EQU, false for a label
	Definition *Reference
	References []*Reference
}

// XRefGenerator builds a cross-reference table from a single assembly
// source file: every label and EQU constant, where it's defined, and
// every expression that names it.
type XRefGenerator struct {
	symbols map[string]*Symbol
}

// NewXRefGenerator creates an empty cross-reference generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate parses source and returns its full symbol table, each entry
// carrying its definition site and every referencing expression.
func (x *XRefGenerator) Generate(source, filename string) (map[string]*Symbol, error) {
	prog, err := asm.NewParser(source, filename).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	x.collectDefinitions(prog)
	x.collectReferences(prog)

	return x.symbols, nil
}

func (x *XRefGenerator) entry(name string, isConstant bool) *Symbol {
	sym, ok := x.symbols[name]
	if !ok {
		sym = &Symbol{Name: name, IsConstant: isConstant}
		x.symbols[name] = sym
	}
	return sym
}

func (x *XRefGenerator) collectDefinitions(prog *asm.Program) {
	for _, st := range prog.Statements {
		switch st.Kind {
		case asm.StmtLabel:
			sym := x.entry(st.Label, false)
			sym.Definition = &Reference{Type: RefDefinition, Line: st.Pos.Line, Column: st.Pos.Column, Source: st.Label + ":"}
		case asm.StmtEqu:
			sym := x.entry(st.Name, true)
			sym.Definition = &Reference{
				Type: RefDefinition, Line: st.Pos.Line, Column: st.Pos.Column,
				Source: fmt.Sprintf("%s EQU %s", st.Name, exprString(st.Value)),
			}
		}
	}
}

func (x *XRefGenerator) collectReferences(prog *asm.Program) {
	for _, st := range prog.Statements {
		switch st.Kind {
		case asm.StmtEqu:
			x.walkExpr(st.Value, RefConstant, st.Pos, fmt.Sprintf("%s EQU %s", st.Name, exprString(st.Value)))
		case asm.StmtDB, asm.StmtDW:
			mnem := "db"
			if st.Kind == asm.StmtDW {
				mnem = "dw"
			}
			parts := make([]string, len(st.Exprs))
			for i, e := range st.Exprs {
				parts[i] = exprString(e)
			}
			src := mnem + " " + strings.Join(parts, ", ")
			for _, e := range st.Exprs {
				x.walkExpr(e, RefData, st.Pos, src)
			}
		case asm.StmtAdvanceAddress:
			src := fmt.Sprintf("advance_address %s, %s", exprString(st.Bank), exprString(st.Offset))
			x.walkExpr(st.Bank, RefAddress, st.Pos, src)
			x.walkExpr(st.Offset, RefAddress, st.Pos, src)
		case asm.StmtInstruction:
			x.collectInstructionReferences(st.Instr)
		}
	}
}

func (x *XRefGenerator) collectInstructionReferences(inst *asm.Instruction) {
	refType := RefAddress
	switch inst.Mnemonic {
	case "jp", "jr":
		refType = RefJump
	case "call":
		refType = RefCall
	}

	parts := make([]string, len(inst.Operands))
	for i, op := range inst.Operands {
		parts[i] = operandString(op)
	}
	src := inst.Mnemonic + " " + strings.Join(parts, ", ")

	for _, op := range inst.Operands {
		if op.Expr != nil {
			x.walkExpr(op.Expr, refType, inst.Pos, src)
		}
	}
}

// walkExpr records a reference for every identifier inside e.
func (x *XRefGenerator) walkExpr(e *asm.Expression, refType ReferenceType, pos asm.Position, source string) {
	if e == nil {
		return
	}
	switch e.Kind {
	case asm.ExprIdent:
		sym := x.entry(e.Name, false)
		sym.References = append(sym.References, &Reference{Type: refType, Line: pos.Line, Column: pos.Column, Source: source})
	case asm.ExprUnary:
		x.walkExpr(e.X, refType, pos, source)
	case asm.ExprBinary:
		x.walkExpr(e.X, refType, pos, source)
		x.walkExpr(e.Y, refType, pos, source)
	}
}

// Report renders symbols as a sorted, human-readable listing: one block
// per symbol, its definition, then every reference in source order.
func Report(symbols map[string]*Symbol) string {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var out strings.Builder
	for _, name := range names {
		sym := symbols[name]
		kind := "label"
		if sym.IsConstant {
			kind = "constant"
		}
		if sym.Definition != nil {
			fmt.Fprintf(&out, "%s (%s) defined at line %d: %s\n", name, kind, sym.Definition.Line, sym.Definition.Source)
		} else {
			fmt.Fprintf(&out, "%s (%s) — undefined\n", name, kind)
		}
		sort.Slice(sym.References, func(i, j int) bool { return sym.References[i].Line < sym.References[j].Line })
		for _, ref := range sym.References {
			fmt.Fprintf(&out, "    %s at line %d: %s\n", ref.Type, ref.Line, ref.Source)
		}
	}
	return out.String()
}
