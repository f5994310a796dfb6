package tools

import (
	"strings"
	"testing"
)

func codes(issues []*LintIssue) []string {
	out := make([]string, len(issues))
	for i, iss := range issues {
		out[i] = iss.Code
	}
	return out
}

func hasCode(issues []*LintIssue, code string) bool {
	for _, iss := range issues {
		if iss.Code == code {
			return true
		}
	}
	return false
}

func TestLint_UndefinedLabel(t *testing.T) {
	issues := NewLinter(nil).Lint("jp nowhere\n", "t.asm")
	if !hasCode(issues, "UNDEF_LABEL") {
		t.Fatalf("expected UNDEF_LABEL, got %v", codes(issues))
	}
}

func TestLint_UndefinedLabelSuggestsSimilarName(t *testing.T) {
	issues := NewLinter(nil).Lint("jp Staart\nStart:\n nop\n", "t.asm")
	found := false
	for _, iss := range issues {
		if iss.Code == "UNDEF_LABEL" && strings.Contains(iss.Message, "Start") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a suggestion mentioning Start, got %v", issues)
	}
}

func TestLint_ForwardReferenceIsNotUndefined(t *testing.T) {
	issues := NewLinter(nil).Lint("jp later\nlater:\n nop\n", "t.asm")
	if hasCode(issues, "UNDEF_LABEL") {
		t.Fatalf("forward reference to a later label should not be flagged, got %v", codes(issues))
	}
}

func TestLint_EquForwardReferenceIsRejected(t *testing.T) {
	issues := NewLinter(nil).Lint("FOO EQU BAR\nBAR EQU 1\n", "t.asm")
	if !hasCode(issues, "EQU_FORWARD_REFERENCE") {
		t.Fatalf("expected EQU_FORWARD_REFERENCE, got %v", codes(issues))
	}
}

func TestLint_EquSequentialReferenceIsFine(t *testing.T) {
	issues := NewLinter(nil).Lint("BAR EQU 1\nFOO EQU BAR + 1\n", "t.asm")
	if hasCode(issues, "EQU_FORWARD_REFERENCE") {
		t.Fatalf("expected no forward-reference error, got %v", codes(issues))
	}
}

func TestLint_DuplicateLabel(t *testing.T) {
	issues := NewLinter(nil).Lint("loop:\n nop\nloop:\n nop\n", "t.asm")
	if !hasCode(issues, "DUPLICATE_LABEL") {
		t.Fatalf("expected DUPLICATE_LABEL, got %v", codes(issues))
	}
}

func TestLint_UnusedLabel(t *testing.T) {
	issues := NewLinter(nil).Lint("unused:\n nop\n", "t.asm")
	if !hasCode(issues, "UNUSED_LABEL") {
		t.Fatalf("expected UNUSED_LABEL, got %v", codes(issues))
	}
}

func TestLint_UsedLabelIsNotFlaggedUnused(t *testing.T) {
	issues := NewLinter(nil).Lint("jp loop\nloop:\n nop\n", "t.asm")
	if hasCode(issues, "UNUSED_LABEL") {
		t.Fatalf("referenced label should not be flagged unused, got %v", codes(issues))
	}
}

func TestLint_EntryLabelNeverFlaggedUnused(t *testing.T) {
	issues := NewLinter(nil).Lint("Start:\n nop\n", "t.asm")
	if hasCode(issues, "UNUSED_LABEL") {
		t.Fatalf("Start should never be flagged unused, got %v", codes(issues))
	}
}

func TestLint_UnreachableCodeAfterUnconditionalJump(t *testing.T) {
	issues := NewLinter(nil).Lint("loop:\n jp loop\n nop\n", "t.asm")
	if !hasCode(issues, "UNREACHABLE_CODE") {
		t.Fatalf("expected UNREACHABLE_CODE, got %v", codes(issues))
	}
}

func TestLint_CodeAfterConditionalJumpIsReachable(t *testing.T) {
	issues := NewLinter(nil).Lint("loop:\n jp z, loop\n nop\n", "t.asm")
	if hasCode(issues, "UNREACHABLE_CODE") {
		t.Fatalf("conditional jump falls through, should not flag, got %v", codes(issues))
	}
}

func TestLint_LabelAfterJumpIsReachable(t *testing.T) {
	issues := NewLinter(nil).Lint("jp skip\nskip:\n nop\n", "t.asm")
	if hasCode(issues, "UNREACHABLE_CODE") {
		t.Fatalf("a labeled statement is a branch target, should not flag, got %v", codes(issues))
	}
}

func TestLint_RedundantSelfLoad(t *testing.T) {
	issues := NewLinter(nil).Lint("ld a, a\n", "t.asm")
	if !hasCode(issues, "REDUNDANT_SELF_LD") {
		t.Fatalf("expected REDUNDANT_SELF_LD, got %v", codes(issues))
	}
}

func TestLint_ParseErrorReportsSingleIssue(t *testing.T) {
	issues := NewLinter(nil).Lint("ld a,\n", "t.asm")
	if len(issues) != 1 || issues[0].Code != "PARSE_ERROR" {
		t.Fatalf("expected a single PARSE_ERROR, got %v", codes(issues))
	}
}

func TestLint_StrictPromotesWarningsToErrors(t *testing.T) {
	opts := DefaultLintOptions()
	opts.Strict = true
	issues := NewLinter(opts).Lint("unused:\n nop\n", "t.asm")
	for _, iss := range issues {
		if iss.Code == "UNUSED_LABEL" && iss.Level != LintError {
			t.Fatalf("expected strict mode to promote UNUSED_LABEL to error, got %v", iss.Level)
		}
	}
}
