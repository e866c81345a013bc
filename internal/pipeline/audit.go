package pipeline

import (
	"os"
	"strings"
)

// Audit renders every stage output of the run as a markdown document, one
// section per stage in execution order.
func (r Result) Audit() string {
	history := r.HistorySummary
	if history == "" {
		history = "_History analysis was not run._"
	}
	sections := []struct {
		stage Stage
		text  string
	}{
		{StageHistory, history},
		{StageDiffAnalysis, r.DiffAnalysis},
		{StageInfo, r.InfoText},
		{StageMessage, r.Message},
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("# " + s.stage.Title() + "\n")
		b.WriteString(s.text)
	}
	b.WriteString("\n")
	return b.String()
}

// WriteAudit stores doc at path. Failures come back as *AuditWriteError.
func WriteAudit(path, doc string) error {
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return &AuditWriteError{Path: path, Err: err}
	}
	return nil
}
