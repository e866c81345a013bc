package prompt

import (
	"regexp"
	"strings"
)

var reClutter = regexp.MustCompile("[\n`*]{1,3}")

// Normalize turns raw model output into a single-line commit message: every
// newline, backtick and asterisk is dropped and the result is trimmed.
// It is total and idempotent.
func Normalize(raw string) string {
	return strings.TrimSpace(reClutter.ReplaceAllString(raw, ""))
}

var (
	reTextBlock   = regexp.MustCompile("(?ms)^```(?:\\w+)?\\s*([\\s\\S]+?)\\s*```$")
	reBlankLines  = regexp.MustCompile(`\n{3,}`)
	emphasisStrip = strings.NewReplacer("`", "", "*", "")
)

// ExtractOneTextCodeBlock returns the contents of the fenced block in s and
// whether one was found. Without a block, s is returned trimmed.
func ExtractOneTextCodeBlock(s string) (string, bool) {
	s = strings.TrimSpace(s)
	m := reTextBlock.FindStringSubmatch(s)
	if len(m) == 2 {
		return strings.TrimSpace(m[1]), true
	}
	return s, false
}

// NormalizeMultiline is the body-preserving variant of Normalize. It unwraps
// a fenced block, drops backticks and asterisks, trims trailing spaces on
// each line and collapses runs of blank lines, keeping the header/body split.
func NormalizeMultiline(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s, _ = ExtractOneTextCodeBlock(s)
	s = emphasisStrip.Replace(s)

	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t\r")
	}
	s = strings.Join(lines, "\n")
	s = reBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
