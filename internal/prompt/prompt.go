// Package prompt builds the instruction text sent to the model for each
// pipeline stage. Builders are pure: they never touch the network.
package prompt

import (
	"strings"
)

// NoHistory stands in for the history summary when history analysis is
// disabled or produced nothing.
const NoHistory = "(no commit history summary available)"

// CommitTypes are the conventional-commit types the model may choose from.
var CommitTypes = []string{"feat", "fix", "docs", "style", "refactor", "test", "chore"}

// ImpactLevels are the recognized values of the Impact field.
var ImpactLevels = []string{"minor", "moderate", "significant"}

// History asks the model to connect recent commits to the staged change.
func History(history, diff string) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant that studies a repository's recent commit history to give context for a new commit.\n")
	b.WriteString("Summarize the recent history below as a short narrative and explain how the staged change relates to it:\n")
	b.WriteString("1. What the recent commits were working towards.\n")
	b.WriteString("2. Whether the staged change continues one of those tasks, and which one.\n")
	b.WriteString("3. Any naming or style conventions visible in the commit subjects.\n\n")

	b.WriteString("<recent-commits>\n")
	b.WriteString(strings.TrimRight(history, "\n"))
	b.WriteString("\n</recent-commits>\n\n")

	writeDiff(&b, diff)

	b.WriteString("Keep the summary concise. Do not write a commit message.\n")
	return b.String()
}

// DiffAnalysis asks the model for a free-text analysis of the staged diff.
func DiffAnalysis(diff string) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant skilled in analyzing git diffs and providing context for commit message generation.\n")
	b.WriteString("Analyze the following git diff and summarize the changes, including:\n")
	b.WriteString("1. The main areas of the code affected by the changes.\n")
	b.WriteString("2. Notable modifications or additions.\n")
	b.WriteString("3. The potential impact on overall functionality.\n")
	b.WriteString("4. If a change is large or important enough to deserve emphasis, say so explicitly and explain why.\n\n")

	writeDiff(&b, diff)

	b.WriteString("Provide the analysis as a concise summary focused on what matters for a meaningful commit message.\n")
	b.WriteString("Do NOT write an example commit message.\n")
	return b.String()
}

// Info asks the model to condense the analysis into key: value fields.
func Info(analysis, diff, historySummary string) string {
	if strings.TrimSpace(historySummary) == "" {
		historySummary = NoHistory
	}

	var b strings.Builder

	b.WriteString("Extract the key facts needed to write a conventional commit message.\n")
	b.WriteString("Answer with exactly these lines and nothing else:\n\n")
	b.WriteString("Summary: <one sentence describing the main change>\n")
	b.WriteString("Impact: <" + strings.Join(ImpactLevels, " | ") + ">\n")
	b.WriteString("Type: <" + strings.Join(CommitTypes, " | ") + ">\n")
	b.WriteString("Scope: <affected module or component, or none>\n")
	b.WriteString("Continuation: <yes | no, whether this continues a task from the commit history>\n\n")
	b.WriteString("If there is only minor refactoring, classify it as refactor.\n\n")

	b.WriteString("<diff-analysis>\n")
	b.WriteString(strings.TrimRight(analysis, "\n"))
	b.WriteString("\n</diff-analysis>\n\n")

	b.WriteString("<history-summary>\n")
	b.WriteString(strings.TrimRight(historySummary, "\n"))
	b.WriteString("\n</history-summary>\n\n")

	b.WriteString("For reference, the full diff:\n")
	writeDiff(&b, diff)
	return b.String()
}

// Message asks the model for the final commit message.
func Message(info string) string {
	var b strings.Builder

	b.WriteString("Write a git commit message from the change information below.\n\n")
	b.WriteString("Guidelines:\n")
	b.WriteString("1. Follow the format: <type>(<scope>): <summary>. Omit (<scope>) when the scope is none.\n")
	b.WriteString("2. Use one of these types: " + strings.Join(CommitTypes, ", ") + ".\n")
	b.WriteString("3. Keep the summary at 50 characters or less, in imperative mood.\n")
	b.WriteString("4. If the impact is moderate or significant, add one short body paragraph after a blank line.\n")
	b.WriteString("5. Do not add any preamble, explanation, quotes, markdown or backticks.\n")
	b.WriteString("6. Output exactly the commit message and nothing else.\n\n")

	b.WriteString("<change-info>\n")
	b.WriteString(strings.TrimRight(info, "\n"))
	b.WriteString("\n</change-info>\n\n")

	b.WriteString("Commit message:\n")
	return b.String()
}

func writeDiff(b *strings.Builder, diff string) {
	b.WriteString("<code-changes>\n")
	b.WriteString("```diff\n")
	b.WriteString(strings.TrimRight(diff, "\n"))
	b.WriteString("\n```\n")
	b.WriteString("</code-changes>\n\n")
}
