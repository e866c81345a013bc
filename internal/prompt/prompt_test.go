package prompt

import (
	"strings"
	"testing"
)

const sampleDiff = "diff --git a/x.py b/x.py\n+print(1)"

func TestHistoryIncludesInputs(t *testing.T) {
	out := History("abc123 feat: add parser\ndef456 fix: parser crash", sampleDiff)
	for _, snippet := range []string{
		"abc123 feat: add parser",
		"def456 fix: parser crash",
		sampleDiff,
		"Do not write a commit message",
	} {
		if !strings.Contains(out, snippet) {
			t.Fatalf("history prompt missing %q", snippet)
		}
	}
}

func TestDiffAnalysisForbidsExampleMessage(t *testing.T) {
	out := DiffAnalysis(sampleDiff)
	if !strings.Contains(out, sampleDiff) {
		t.Fatal("diff analysis prompt missing diff")
	}
	if !strings.Contains(out, "Do NOT write an example commit message") {
		t.Error("diff analysis prompt must forbid an example commit message")
	}
}

func TestInfoThreadsVerbatim(t *testing.T) {
	analysis := "The parser module gains a print call.\nImpact is small."
	history := "Recent work refactored the parser."

	out := Info(analysis, sampleDiff, history)
	for _, snippet := range []string{analysis, history, sampleDiff, "Impact: <minor | moderate | significant>", "Continuation:"} {
		if !strings.Contains(out, snippet) {
			t.Fatalf("info prompt missing %q", snippet)
		}
	}
	if strings.Contains(out, NoHistory) {
		t.Error("info prompt should not use the placeholder when history is present")
	}
}

func TestInfoEmptyHistoryPlaceholder(t *testing.T) {
	for _, history := range []string{"", "  \n"} {
		out := Info("analysis", sampleDiff, history)
		if !strings.Contains(out, "<history-summary>\n"+NoHistory+"\n</history-summary>") {
			t.Errorf("info prompt with history %q missing placeholder:\n%s", history, out)
		}
	}
}

func TestMessageGuidelines(t *testing.T) {
	info := "Summary: add print\nImpact: minor\nType: feat\nScope: x\nContinuation: no"
	out := Message(info)
	for _, snippet := range []string{
		info,
		"<type>(<scope>): <summary>",
		"50 characters",
		"moderate or significant",
		"Output exactly the commit message and nothing else",
	} {
		if !strings.Contains(out, snippet) {
			t.Fatalf("message prompt missing %q", snippet)
		}
	}
}
