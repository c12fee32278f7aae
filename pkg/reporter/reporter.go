// Package reporter delivers progress and summary events from apply and
// snapshot runs to the user. The core never prints directly.
package reporter

import (
	"io"

	"github.com/arthur-debert/skeletor/pkg/tasks"
	"github.com/arthur-debert/skeletor/pkg/types"
)

// Reporter receives run events. Implementations must tolerate any call
// order and must not fail the run.
type Reporter interface {
	// OperationStart announces an apply or snapshot.
	OperationStart(operation, details string)
	// Progress is called every N tasks or entries and once at the end.
	// total is zero when it is not known yet.
	Progress(current, total int, message string)
	// TaskOutcome reports one classified task. err is set for failures.
	TaskOutcome(outcome types.TaskOutcome, err error)
	// Warning reports a non-fatal problem such as a skipped pattern line.
	Warning(message string)
	// Tip suggests a follow-up to the user.
	Tip(message string)
	// DryRunPreview lists what a run would do.
	DryRunPreview(p Preview)
	// ApplyComplete summarizes a finished apply.
	ApplyComplete(r *types.CreationResult)
	// SnapshotComplete summarizes a finished snapshot.
	SnapshotComplete(s *types.SnapshotSummary)
}

// Preview is the content of a dry-run report.
type Preview struct {
	Tasks []tasks.Task
	// Outcomes, when set, carries the classification each task would get.
	Outcomes       []types.TaskOutcome
	BinaryFiles    []string
	IgnorePatterns []string
	// Verb completes "Binary files that would be ...".
	Verb string
}

// Options tune the human readable reporters.
type Options struct {
	// Verbose lists every item instead of a preview.
	Verbose bool
	// PreviewLimit is how many items are listed when not verbose.
	PreviewLimit int
	// RunID tags JSON events.
	RunID string
}

const defaultPreviewLimit = 3

// New builds the reporter for format, writing to w.
func New(format Format, w io.Writer, opts Options) Reporter {
	if opts.PreviewLimit <= 0 {
		opts.PreviewLimit = defaultPreviewLimit
	}
	if format == FormatAuto {
		format = DetectFormat(w)
	}
	switch format {
	case FormatJSON:
		return NewJSON(w, opts.RunID)
	case FormatTerminal:
		return newLineReporter(w, opts, styledPainter)
	default:
		return newLineReporter(w, opts, plainPainter)
	}
}

// Silent discards every event.
type Silent struct{}

func (Silent) OperationStart(string, string) {}
func (Silent) Progress(int, int, string) {}
func (Silent) TaskOutcome(types.TaskOutcome, error) {}
func (Silent) Warning(string) {}
func (Silent) Tip(string) {}
func (Silent) DryRunPreview(Preview) {}
func (Silent) ApplyComplete(*types.CreationResult) {}
func (Silent) SnapshotComplete(*types.SnapshotSummary) {}

// OrSilent returns r, or Silent when r is nil.
func OrSilent(r Reporter) Reporter {
	if r == nil {
		return Silent{}
	}
	return r
}
