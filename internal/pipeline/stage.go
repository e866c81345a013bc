package pipeline

// Stage identifies one prompt-plus-generation step.
type Stage int

const (
	StageHistory Stage = iota
	StageDiffAnalysis
	StageInfo
	StageMessage
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageHistory, StageDiffAnalysis, StageInfo, StageMessage}

func (s Stage) String() string {
	switch s {
	case StageHistory:
		return "history analysis"
	case StageDiffAnalysis:
		return "diff analysis"
	case StageInfo:
		return "info extraction"
	case StageMessage:
		return "message synthesis"
	default:
		return "unknown"
	}
}

// Title is the heading used for the stage in the audit document.
func (s Stage) Title() string {
	switch s {
	case StageHistory:
		return "History Analysis"
	case StageDiffAnalysis:
		return "Diff Analysis"
	case StageInfo:
		return "Structured Info"
	case StageMessage:
		return "Commit Message"
	default:
		return "Unknown"
	}
}
