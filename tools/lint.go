package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/gbasm/asm"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintError   LintLevel = iota // parse failures, undefined references
	LintWarning                  // likely mistakes: unused labels, unreachable code
	LintInfo                     // style suggestions
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding from a lint pass.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Column  int
	Message string
	Code    string // e.g. "UNDEF_LABEL", "UNREACHABLE_CODE"
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d:%d: %s: %s [%s]", i.Line, i.Column, i.Level, i.Message, i.Code)
}

// LintOptions controls which passes a Linter runs.
type LintOptions struct {
	Strict       bool // treat warnings as errors
	CheckUnused  bool // flag labels that are defined but never referenced
	CheckReach   bool // flag statements after an unconditional jp/jr/ret
	CheckQuirks  bool // flag LR35902-specific footguns (self-loads, etc.)
	SuggestFixes bool // attach a "did you mean" suggestion to UNDEF_LABEL
}

// DefaultLintOptions returns the linter configuration a plain `gbasm lint`
// invocation uses.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		Strict:       false,
		CheckUnused:  true,
		CheckReach:   true,
		CheckQuirks:  true,
		SuggestFixes: true,
	}
}

// Linter analyzes a single assembly source file for issues a successful
// parse doesn't catch: forward-reference misuse, unreachable code, unused
// labels, and common LR35902 mistakes. It does not run placement, so it
// can't catch bank overflows or out-of-range operand values — those
// surface from rom.Builder.Compile instead.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue

	program *asm.Program

	defined map[string]asm.Position // labels and EQU constants, whichever line defines them
	equAt   map[string]asm.Position // EQU constants only, for forward-reference checking
	used    map[string]bool
}

// NewLinter creates a Linter. A nil options uses DefaultLintOptions.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{
		options: options,
		defined: make(map[string]asm.Position),
		equAt:   make(map[string]asm.Position),
		used:    make(map[string]bool),
	}
}

// Lint analyzes source and returns every issue found, sorted by position.
// A parse failure is reported as a single LintError and short-circuits
// the remaining passes, since there is no program to analyze further.
func (l *Linter) Lint(source, filename string) []*LintIssue {
	prog, err := asm.NewParser(source, filename).Parse()
	if err != nil {
		pos := asm.Position{Filename: filename, Line: 1, Column: 1}
		switch e := err.(type) {
		case *asm.Error:
			pos = e.Pos
		case *asm.ErrorList:
			if first := e.First(); first != nil {
				pos = first.Pos
			}
		}
		l.issues = append(l.issues, &LintIssue{
			Level: LintError, Line: pos.Line, Column: pos.Column,
			Message: fmt.Sprintf("parse error: %v", err), Code: "PARSE_ERROR",
		})
		return l.issues
	}
	l.program = prog

	l.collectDefinitions()
	l.checkUndefinedReferences()

	if l.options.CheckUnused {
		l.checkUnusedLabels()
	}
	if l.options.CheckReach {
		l.checkUnreachableCode()
	}
	if l.options.CheckQuirks {
		l.checkQuirks()
	}

	sort.Slice(l.issues, func(i, j int) bool {
		if l.issues[i].Line == l.issues[j].Line {
			return l.issues[i].Column < l.issues[j].Column
		}
		return l.issues[i].Line < l.issues[j].Line
	})

	if l.options.Strict {
		for _, issue := range l.issues {
			if issue.Level == LintWarning {
				issue.Level = LintError
			}
		}
	}

	return l.issues
}

// collectDefinitions records every label and EQU name, flagging
// redefinitions as they're found (labels and EQU constants share one
// namespace, same as asm.SymbolTable).
func (l *Linter) collectDefinitions() {
	for _, st := range l.program.Statements {
		var name string
		switch st.Kind {
		case asm.StmtLabel:
			name = st.Label
		case asm.StmtEqu:
			name = st.Name
		default:
			continue
		}
		if first, exists := l.defined[name]; exists {
			l.issues = append(l.issues, &LintIssue{
				Level: LintError, Line: st.Pos.Line, Column: st.Pos.Column,
				Message: fmt.Sprintf("%q already defined at %s", name, first),
				Code:    "DUPLICATE_LABEL",
			})
			continue
		}
		l.defined[name] = st.Pos
		if st.Kind == asm.StmtEqu {
			l.equAt[name] = st.Pos
		}
	}
}

// checkUndefinedReferences walks every expression in the program. General
// expressions (DB/DW, instruction operands, advance_address) may forward-
// reference a label defined later, since placement resolves those in two
// passes; EQU right-hand sides may not, since EQU is evaluated eagerly in
// source order (see rom.Builder's pass 1).
func (l *Linter) checkUndefinedReferences() {
	equSoFar := make(map[string]bool)
	for _, st := range l.program.Statements {
		switch st.Kind {
		case asm.StmtEqu:
			l.walkExprStrict(st.Value, equSoFar)
			equSoFar[st.Name] = true
		case asm.StmtLabel:
			// pass 1 binds a label when it reaches it, so a later EQU may use it
			equSoFar[st.Label] = true
		case asm.StmtDB, asm.StmtDW:
			for _, e := range st.Exprs {
				l.walkExpr(e)
			}
		case asm.StmtAdvanceAddress:
			l.walkExpr(st.Bank)
			l.walkExpr(st.Offset)
		case asm.StmtInstruction:
			for _, op := range st.Instr.Operands {
				if op.Expr != nil {
					l.walkExpr(op.Expr)
				}
			}
		}
	}
}

// walkExpr records every identifier reference in e and flags ones absent
// from the whole-program definition set.
func (l *Linter) walkExpr(e *asm.Expression) {
	if e == nil {
		return
	}
	switch e.Kind {
	case asm.ExprIdent:
		l.used[e.Name] = true
		if _, ok := l.defined[e.Name]; !ok {
			msg := fmt.Sprintf("undefined symbol %q", e.Name)
			if s := l.findSimilarDefined(e.Name); s != "" && l.options.SuggestFixes {
				msg += fmt.Sprintf(" (did you mean %q?)", s)
			}
			l.issues = append(l.issues, &LintIssue{
				Level: LintError, Line: e.Pos.Line, Column: e.Pos.Column,
				Message: msg, Code: "UNDEF_LABEL",
			})
		}
	case asm.ExprUnary:
		l.walkExpr(e.X)
	case asm.ExprBinary:
		l.walkExpr(e.X)
		l.walkExpr(e.Y)
	}
}

// walkExprStrict is walkExpr for an EQU right-hand side: it checks
// against equSoFar (labels and constants defined earlier in source order)
// rather than the whole-program label set, since EQU may not
// forward-reference.
func (l *Linter) walkExprStrict(e *asm.Expression, equSoFar map[string]bool) {
	if e == nil {
		return
	}
	switch e.Kind {
	case asm.ExprIdent:
		l.used[e.Name] = true
		if equSoFar[e.Name] {
			return
		}
		if _, isLabel := l.defined[e.Name]; isLabel {
			if _, isEqu := l.equAt[e.Name]; !isEqu {
				// References a label defined later in the file: pass 1
				// has not bound it yet when this EQU is evaluated.
				l.issues = append(l.issues, &LintIssue{
					Level: LintError, Line: e.Pos.Line, Column: e.Pos.Column,
					Message: fmt.Sprintf("EQU right-hand side references %q before it is defined", e.Name),
					Code:    "EQU_FORWARD_REFERENCE",
				})
				return
			}
		}
		if !equSoFar[e.Name] {
			l.issues = append(l.issues, &LintIssue{
				Level: LintError, Line: e.Pos.Line, Column: e.Pos.Column,
				Message: fmt.Sprintf("EQU right-hand side references %q before it is defined", e.Name),
				Code:    "EQU_FORWARD_REFERENCE",
			})
		}
	case asm.ExprUnary:
		l.walkExprStrict(e.X, equSoFar)
	case asm.ExprBinary:
		l.walkExprStrict(e.X, equSoFar)
		l.walkExprStrict(e.Y, equSoFar)
	}
}

// checkUnusedLabels warns about labels that are defined but never
// referenced by any expression in the program. EQU constants are not
// checked: they commonly document hardware register addresses that are
// useful as reference even when unused by this particular file.
func (l *Linter) checkUnusedLabels() {
	for _, st := range l.program.Statements {
		if st.Kind != asm.StmtLabel {
			continue
		}
		if isEntryLabel(st.Label) {
			continue
		}
		if !l.used[st.Label] {
			l.issues = append(l.issues, &LintIssue{
				Level: LintWarning, Line: st.Pos.Line, Column: st.Pos.Column,
				Message: fmt.Sprintf("label %q is defined but never referenced", st.Label),
				Code:    "UNUSED_LABEL",
			})
		}
	}
}

// checkUnreachableCode warns about an instruction or data directive
// immediately following an unconditional jp/jr/ret, with no intervening
// label to make it a reachable branch target.
func (l *Linter) checkUnreachableCode() {
	afterDeadEnd := false
	for _, st := range l.program.Statements {
		switch st.Kind {
		case asm.StmtLabel:
			afterDeadEnd = false
		case asm.StmtInstruction, asm.StmtDB, asm.StmtDW:
			if afterDeadEnd {
				l.issues = append(l.issues, &LintIssue{
					Level: LintWarning, Line: st.Pos.Line, Column: st.Pos.Column,
					Message: "unreachable code: no label targets this statement and the previous instruction never falls through",
					Code:    "UNREACHABLE_CODE",
				})
				afterDeadEnd = false // report once per dead-end run
			}
			if st.Kind == asm.StmtInstruction {
				afterDeadEnd = isDeadEnd(st.Instr)
			}
		case asm.StmtAdvanceAddress:
			// Moving the cursor elsewhere resets reachability analysis:
			// whatever comes next is placed at an address chosen
			// deliberately by the author, not fallen into.
			afterDeadEnd = false
		}
	}
}

// isDeadEnd reports whether inst unconditionally transfers control away,
// leaving nothing falling through to the next statement.
func isDeadEnd(inst *asm.Instruction) bool {
	switch inst.Mnemonic {
	case "ret", "reti":
		return len(inst.Operands) == 0
	case "jp", "jr":
		for _, op := range inst.Operands {
			if op.Kind == asm.OperandCond {
				return false
			}
		}
		return true
	}
	return false
}

// checkQuirks flags common LR35902 mistakes that parse cleanly but are
// almost certainly not what the author meant.
func (l *Linter) checkQuirks() {
	for _, st := range l.program.Statements {
		if st.Kind != asm.StmtInstruction {
			continue
		}
		inst := st.Instr
		if inst.Mnemonic == "ld" && len(inst.Operands) == 2 {
			dst, src := inst.Operands[0], inst.Operands[1]
			if dst.Kind == asm.OperandReg8 && src.Kind == asm.OperandReg8 && dst.Reg == src.Reg {
				l.issues = append(l.issues, &LintIssue{
					Level: LintInfo, Line: inst.Pos.Line, Column: inst.Pos.Column,
					Message: fmt.Sprintf("ld %s, %s is a no-op", dst.Reg, src.Reg),
					Code:    "REDUNDANT_SELF_LD",
				})
			}
		}
	}
}

// findSimilarDefined finds a defined name close to target by edit
// distance, for "did you mean" suggestions.
func (l *Linter) findSimilarDefined(target string) string {
	bestMatch := ""
	bestDistance := 4 // max 3-character difference
	for name := range l.defined {
		dist := levenshteinDistance(strings.ToLower(name), strings.ToLower(target))
		if dist < bestDistance {
			bestMatch = name
			bestDistance = dist
		}
	}
	return bestMatch
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		cur := make([]int, len(s2)+1)
		cur[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			cur[j] = minInt(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(s2)]
}

// isEntryLabel reports whether label is a conventional entry point that
// may legitimately go unreferenced from within the same file (the
// builder's add_basic_interrupts_and_jumps wires "Start" in from outside
// any parsed program).
func isEntryLabel(label string) bool {
	for _, s := range []string{"Start", "start", "_start", "main"} {
		if label == s {
			return true
		}
	}
	return false
}

func minInt(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
