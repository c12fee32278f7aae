package reporter

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/arthur-debert/skeletor/pkg/tasks"
	"github.com/arthur-debert/skeletor/pkg/types"
)

// JSON writes one JSON object per event, one per line.
type JSON struct {
	mu    sync.Mutex
	enc   *json.Encoder
	runID string
}

// NewJSON returns a JSON lines reporter. runID, when set, is attached to
// every event.
func NewJSON(w io.Writer, runID string) *JSON {
	return &JSON{enc: json.NewEncoder(w), runID: runID}
}

type jsonTask struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Outcome string `json:"outcome,omitempty"`
}

type jsonFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func (j *JSON) emit(event string, fields map[string]interface{}) {
	j.mu.Lock()
	defer j.mu.Unlock()
	fields["event"] = event
	if j.runID != "" {
		fields["run_id"] = j.runID
	}
	_ = j.enc.Encode(fields)
}

func (j *JSON) OperationStart(operation, details string) {
	j.emit("operation_start", map[string]interface{}{"operation": operation, "details": details})
}

func (j *JSON) Progress(current, total int, message string) {
	j.emit("progress", map[string]interface{}{"current": current, "total": total, "message": message})
}

func (j *JSON) TaskOutcome(o types.TaskOutcome, err error) {
	fields := map[string]interface{}{
		"kind":    o.Task.Kind.String(),
		"path":    o.Task.Path,
		"outcome": o.Outcome.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	j.emit("task", fields)
}

func (j *JSON) Warning(message string) {
	j.emit("warning", map[string]interface{}{"message": message})
}

func (j *JSON) Tip(message string) {
	j.emit("tip", map[string]interface{}{"message": message})
}

func (j *JSON) DryRunPreview(p Preview) {
	outcomes := make(map[string]string, len(p.Outcomes))
	for _, o := range p.Outcomes {
		outcomes[o.Task.Path] = o.Outcome.String()
	}
	items := make([]jsonTask, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		items = append(items, jsonTask{Kind: t.Kind.String(), Path: t.Path, Outcome: outcomes[t.Path]})
	}
	counts := make(map[string]int)
	for outcome, n := range types.CountOutcomes(p.Outcomes) {
		counts[outcome.String()] = n
	}
	files, dirs := tasks.Summarize(p.Tasks)
	j.emit("dry_run_preview", map[string]interface{}{
		"files":           files,
		"directories":     dirs,
		"tasks":           items,
		"outcome_counts":  counts,
		"binary_files":    nonNil(p.BinaryFiles),
		"ignore_patterns": nonNil(p.IgnorePatterns),
		"verb":            p.Verb,
	})
}

func (j *JSON) ApplyComplete(r *types.CreationResult) {
	j.emit("apply_complete", map[string]interface{}{
		"dry_run":           r.DryRun,
		"tasks_total":       r.TasksTotal,
		"dirs_created":      r.DirsCreated,
		"dirs_existing":     r.DirsExisting,
		"files_created":     r.FilesCreated,
		"files_skipped":     r.FilesSkipped,
		"files_overwritten": r.FilesOverwritten,
		"skipped_files":     nonNil(r.SkippedFiles),
		"overwritten_files": nonNil(r.OverwrittenFiles),
		"ignored":           nonNil(r.Ignored),
		"failures":          failures(r.Failures),
		"duration_ms":       r.Duration.Milliseconds(),
	})
}

func (j *JSON) SnapshotComplete(s *types.SnapshotSummary) {
	j.emit("snapshot_complete", map[string]interface{}{
		"dry_run":      s.DryRun,
		"source":       s.Source,
		"output":       s.Output,
		"files":        s.Files,
		"directories":  s.Directories,
		"binary_files": nonNil(s.BinaryFiles),
		"ignored":      nonNil(s.Ignored),
		"skipped":      nonNil(s.Skipped),
		"failures":     failures(s.Failures),
		"duration_ms":  s.Duration.Milliseconds(),
	})
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func failures(fs []types.Failure) []jsonFailure {
	out := make([]jsonFailure, 0, len(fs))
	for _, f := range fs {
		out = append(out, jsonFailure{Path: f.Path, Error: f.Err.Error()})
	}
	return out
}
