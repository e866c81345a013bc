package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDiff is reported when the pipeline is run without a diff.
	ErrMissingDiff = errors.New("no staged diff to describe")
	// ErrEmptyOutput is reported when a stage answers with blank text.
	ErrEmptyOutput = errors.New("model returned no usable text")
)

// PipelineError reports which stage stopped the run. Err is usually an
// *ai.ProviderError, a context error, or one of the sentinels above.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// AuditWriteError reports a failure to persist the audit document. It never
// means the commit message itself is unusable.
type AuditWriteError struct {
	Path string
	Err  error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("write audit document %s: %v", e.Path, e.Err)
}

func (e *AuditWriteError) Unwrap() error { return e.Err }
