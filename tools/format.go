package tools

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lookbusy1344/gbasm/asm"
)

// FormatStyle selects a column layout preset.
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // label, mnemonic, operands, comment in aligned columns
	FormatCompact                     // single space between fields, no column alignment
	FormatExpanded                    // wider columns, easier to scan
)

// FormatOptions controls the formatter's column layout.
type FormatOptions struct {
	Style          FormatStyle
	MnemonicColumn int // column the mnemonic starts at (EQU lines start at column 0)
	OperandColumn  int // column operands start at
	CommentColumn  int // column a trailing comment starts at
	Align          bool
}

// DefaultFormatOptions is RGBDS-style: label on its own line, mnemonic
// indented one tab stop, operands aligned, trailing comments aligned far
// to the right.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:          FormatDefault,
		MnemonicColumn: 8,
		OperandColumn:  16,
		CommentColumn:  40,
		Align:          true,
	}
}

// CompactFormatOptions packs everything onto minimal whitespace.
func CompactFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatCompact, MnemonicColumn: 0, OperandColumn: 0, CommentColumn: 0, Align: false}
}

// ExpandedFormatOptions widens every column for readability.
func ExpandedFormatOptions() *FormatOptions {
	return &FormatOptions{Style: FormatExpanded, MnemonicColumn: 12, OperandColumn: 28, CommentColumn: 56, Align: true}
}

// Formatter re-renders parsed assembly source into a canonical layout. It
// is built on the same Program the assembler itself parses, so formatted
// output is guaranteed to re-parse to an identical instruction sequence —
// only whitespace and comment placement change.
type Formatter struct {
	options *FormatOptions
}

// NewFormatter creates a Formatter. A nil options uses DefaultFormatOptions.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format parses source and re-renders it in the formatter's layout.
// End-of-line comments are preserved, reattached to whichever output line
// covers their original source line; blank lines are preserved once each.
func (f *Formatter) Format(source, filename string) (string, error) {
	prog, err := asm.NewParser(source, filename).Parse()
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	comments := extractComments(source)
	byLine := make(map[int][]*asm.Statement)
	var lineNumbers []int
	for _, st := range prog.Statements {
		if _, ok := byLine[st.Pos.Line]; !ok {
			lineNumbers = append(lineNumbers, st.Pos.Line)
		}
		byLine[st.Pos.Line] = append(byLine[st.Pos.Line], st)
	}
	for ln, text := range comments {
		if _, ok := byLine[ln]; !ok && text != "" {
			byLine[ln] = nil
			lineNumbers = append(lineNumbers, ln)
		}
	}
	sort.Ints(lineNumbers)

	var out strings.Builder
	lastEmitted := 0
	for _, ln := range lineNumbers {
		if f.options.Style != FormatCompact && ln > lastEmitted+1 {
			out.WriteString("\n")
		}
		f.renderLine(&out, byLine[ln], comments[ln])
		lastEmitted = ln
	}
	return out.String(), nil
}

// renderLine writes one output line (or two, if a label shares its source
// line with an instruction/directive) for every statement parsed from a
// single input line.
func (f *Formatter) renderLine(out *strings.Builder, stmts []*asm.Statement, comment string) {
	var label string
	var body *asm.Statement
	for _, st := range stmts {
		if st.Kind == asm.StmtLabel {
			label = st.Label
		} else {
			body = st
		}
	}

	switch {
	case label != "" && body == nil:
		out.WriteString(label + ":")
		if comment != "" {
			out.WriteString("  ; " + comment)
		}
		out.WriteString("\n")
		return
	case label != "" && body != nil:
		out.WriteString(label + ":")
		if f.options.Style == FormatCompact {
			out.WriteString(" ")
		} else {
			out.WriteString("\n")
		}
	}

	if body == nil {
		if comment != "" {
			out.WriteString("; " + comment + "\n")
		}
		return
	}

	var mnemonicCol string
	switch body.Kind {
	case asm.StmtEqu:
		mnemonicCol = fmt.Sprintf("%s EQU %s", body.Name, exprString(body.Value))
	case asm.StmtDB:
		mnemonicCol = "db"
	case asm.StmtDW:
		mnemonicCol = "dw"
	case asm.StmtAdvanceAddress:
		mnemonicCol = "advance_address"
	case asm.StmtInstruction:
		mnemonicCol = body.Instr.Mnemonic
	}

	var line strings.Builder
	if body.Kind != asm.StmtEqu && f.options.Style != FormatCompact {
		line.WriteString(strings.Repeat(" ", f.options.MnemonicColumn))
	}
	line.WriteString(mnemonicCol)
	if body.Kind != asm.StmtEqu {
		if args := f.operandsText(body); args != "" {
			if f.options.Align && f.options.Style != FormatCompact {
				pad := f.options.OperandColumn - f.options.MnemonicColumn - len(mnemonicCol)
				if pad < 1 {
					pad = 1
				}
				line.WriteString(strings.Repeat(" ", pad))
			} else {
				line.WriteString(" ")
			}
			line.WriteString(args)
		}
	}

	text := line.String()
	if comment != "" {
		pad := f.options.CommentColumn - len(text)
		if pad < 2 || f.options.Style == FormatCompact {
			pad = 2
		}
		text += strings.Repeat(" ", pad) + "; " + comment
	}
	out.WriteString(text + "\n")
}

// operandsText renders a statement's argument list: DB/DW expressions,
// advance_address's bank/offset pair, or an instruction's operands.
func (f *Formatter) operandsText(st *asm.Statement) string {
	switch st.Kind {
	case asm.StmtDB, asm.StmtDW:
		parts := make([]string, len(st.Exprs))
		for i, e := range st.Exprs {
			parts[i] = exprString(e)
		}
		return strings.Join(parts, ", ")
	case asm.StmtAdvanceAddress:
		return fmt.Sprintf("%s, %s", exprString(st.Bank), exprString(st.Offset))
	case asm.StmtInstruction:
		parts := make([]string, len(st.Instr.Operands))
		for i, op := range st.Instr.Operands {
			parts[i] = operandString(op)
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// operandString renders one operand back to source syntax.
func operandString(op asm.Operand) string {
	switch op.Kind {
	case asm.OperandReg8, asm.OperandReg16, asm.OperandCond:
		return strings.ToLower(op.Reg)
	case asm.OperandImm8, asm.OperandImm16, asm.OperandBit:
		return exprString(op.Expr)
	case asm.OperandIndHL:
		return "[hl]"
	case asm.OperandIndBC:
		return "[bc]"
	case asm.OperandIndDE:
		return "[de]"
	case asm.OperandIndNN:
		return "[" + exprString(op.Expr) + "]"
	case asm.OperandHighC:
		return "[0xff00+c]"
	case asm.OperandHighN:
		return "[0xff00+" + parenthesizeIfCompound(op.Expr) + "]"
	case asm.OperandIndHLInc:
		return "[hl+]"
	case asm.OperandIndHLDec:
		return "[hl-]"
	case asm.OperandSPOffset:
		return "sp+" + exprString(op.Expr)
	}
	return "?"
}

// exprString renders an expression back to source syntax, parenthesizing
// every nested binary or unary subexpression unconditionally so the
// result always re-parses to the same tree regardless of operator
// precedence.
func exprString(e *asm.Expression) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case asm.ExprLiteral:
		if e.Value < 0 {
			return "-0x" + strconv.FormatInt(-e.Value, 16)
		}
		return "0x" + strconv.FormatInt(e.Value, 16)
	case asm.ExprIdent:
		return e.Name
	case asm.ExprUnary:
		return "-" + parenthesizeIfCompound(e.X)
	case asm.ExprBinary:
		return parenthesizeIfCompound(e.X) + " " + e.Op + " " + parenthesizeIfCompound(e.Y)
	}
	return ""
}

func parenthesizeIfCompound(e *asm.Expression) string {
	if e.Kind == asm.ExprBinary || e.Kind == asm.ExprUnary {
		return "(" + exprString(e) + ")"
	}
	return exprString(e)
}

// extractComments scans source line by line and returns each line's
// trailing ";"-introduced comment text, ignoring semicolons inside string
// literals.
func extractComments(source string) map[int]string {
	out := make(map[int]string)
	for i, line := range strings.Split(source, "\n") {
		inString := false
		for j := 0; j < len(line); j++ {
			switch line[j] {
			case '"':
				inString = !inString
			case ';':
				if !inString {
					out[i+1] = strings.TrimSpace(line[j+1:])
					j = len(line)
				}
			}
		}
	}
	return out
}
