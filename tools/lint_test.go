package tools

import "testing"

func TestLintFlagsStatementAfterBreak(t *testing.T) {
	src := `repeat 3 {
  break
  setvar x 1
}`
	issues := NewLinter(DefaultLintOptions()).Lint(src)

	found := false
	for _, issue := range issues {
		if issue.Code == "UNREACHABLE_CODE" {
			found = true
			if issue.Level != LintWarning {
				t.Errorf("expected warning level, got %v", issue.Level)
			}
		}
	}
	if !found {
		t.Error("expected an UNREACHABLE_CODE issue")
	}
}

func TestLintDoesNotFlagBreakAsLastStatement(t *testing.T) {
	src := `repeat 3 {
  setvar x 1
  break
}`
	issues := NewLinter(DefaultLintOptions()).Lint(src)
	for _, issue := range issues {
		if issue.Code == "UNREACHABLE_CODE" {
			t.Errorf("unexpected UNREACHABLE_CODE issue: %s", issue.Message)
		}
	}
}

func TestLintFlagsUnusedProcedure(t *testing.T) {
	src := `proc used {
  setvar a 1
}
proc unused {
  setvar b 2
}
call used`
	issues := NewLinter(DefaultLintOptions()).Lint(src)

	foundUnused, foundUsed := false, false
	for _, issue := range issues {
		if issue.Code != "UNUSED_PROC" {
			continue
		}
		if issue.Message == `procedure "unused" is never called` {
			foundUnused = true
		}
		if issue.Message == `procedure "used" is never called` {
			foundUsed = true
		}
	}
	if !foundUnused {
		t.Error("expected an UNUSED_PROC issue for \"unused\"")
	}
	if foundUsed {
		t.Error("did not expect an UNUSED_PROC issue for \"used\"")
	}
}

func TestLintFlagsColorstopWithNoPendingGradient(t *testing.T) {
	src := `colorstop 0 red`
	issues := NewLinter(DefaultLintOptions()).Lint(src)

	found := false
	for _, issue := range issues {
		if issue.Code == "COLORSTOP_NO_PATTERN" {
			found = true
		}
	}
	if !found {
		t.Error("expected a COLORSTOP_NO_PATTERN issue")
	}
}

func TestLintDoesNotFlagColorstopAfterLinearGrad(t *testing.T) {
	src := `lineargrad 0 0 10 10
colorstop 0 red
colorstop 1 blue
fill`
	issues := NewLinter(DefaultLintOptions()).Lint(src)

	for _, issue := range issues {
		if issue.Code == "COLORSTOP_NO_PATTERN" {
			t.Errorf("unexpected COLORSTOP_NO_PATTERN issue: %s", issue.Message)
		}
	}
}

func TestLintFlagsColorstopAfterGradientConsumedByFill(t *testing.T) {
	src := `lineargrad 0 0 10 10
colorstop 0 red
fill
colorstop 1 blue`
	issues := NewLinter(DefaultLintOptions()).Lint(src)

	count := 0
	for _, issue := range issues {
		if issue.Code == "COLORSTOP_NO_PATTERN" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one COLORSTOP_NO_PATTERN issue for the colorstop after fill, got %d", count)
	}
}

func TestLintReportsParseErrorAndSkipsOtherChecks(t *testing.T) {
	issues := NewLinter(DefaultLintOptions()).Lint(`M 0 0 L`)
	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue for a parse failure, got %d", len(issues))
	}
	if issues[0].Code != "PARSE_ERROR" {
		t.Errorf("expected PARSE_ERROR, got %s", issues[0].Code)
	}
	if issues[0].Level != LintError {
		t.Errorf("expected LintError level, got %v", issues[0].Level)
	}
}

func TestLintOptionsCanDisableIndividualChecks(t *testing.T) {
	src := `proc unused {
  setvar a 1
}`
	options := &LintOptions{CheckUnreachable: true, CheckUnusedProc: false, CheckColorstop: true}
	issues := NewLinter(options).Lint(src)
	for _, issue := range issues {
		if issue.Code == "UNUSED_PROC" {
			t.Error("expected UNUSED_PROC check to be disabled")
		}
	}
}
