package reporter

import (
	"sync"

	"github.com/arthur-debert/skeletor/pkg/types"
)

// Event is one call captured by a Recorder.
type Event struct {
	Name    string
	Message string
	Current int
	Total   int
	Outcome types.TaskOutcome
	Err     error
	Preview *Preview
	Apply   *types.CreationResult
	Capture *types.SnapshotSummary
}

// Recorder keeps every event in memory. It is meant for tests and for
// callers that want to post-process a run.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
}

// Named returns the recorded events called name, in order.
func (r *Recorder) Named(name string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.Events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) OperationStart(operation, details string) {
	r.add(Event{Name: "operation_start", Message: operation + " " + details})
}

func (r *Recorder) Progress(current, total int, message string) {
	r.add(Event{Name: "progress", Current: current, Total: total, Message: message})
}

func (r *Recorder) TaskOutcome(o types.TaskOutcome, err error) {
	r.add(Event{Name: "task", Outcome: o, Err: err})
}

func (r *Recorder) Warning(message string) {
	r.add(Event{Name: "warning", Message: message})
}

func (r *Recorder) Tip(message string) {
	r.add(Event{Name: "tip", Message: message})
}

func (r *Recorder) DryRunPreview(p Preview) {
	r.add(Event{Name: "dry_run_preview", Preview: &p})
}

func (r *Recorder) ApplyComplete(res *types.CreationResult) {
	r.add(Event{Name: "apply_complete", Apply: res})
}

func (r *Recorder) SnapshotComplete(s *types.SnapshotSummary) {
	r.add(Event{Name: "snapshot_complete", Capture: s})
}
