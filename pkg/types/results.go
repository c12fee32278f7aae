package types

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Failure is an error tied to one path. Failures never abort a run.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// joinFailures folds failures into one error, nil when there are none.
func joinFailures(failures []Failure) error {
	var errs *multierror.Error
	for _, f := range failures {
		errs = multierror.Append(errs, f)
	}
	return errs.ErrorOrNil()
}

// CreationResult summarizes an apply run.
type CreationResult struct {
	RunID  string
	DryRun bool

	TasksTotal       int
	DirsCreated      int
	DirsExisting     int
	FilesCreated     int
	FilesSkipped     int
	FilesOverwritten int

	SkippedFiles     []string
	OverwrittenFiles []string
	Ignored          []string

	// Outcomes has one entry per executed task, in task order.
	Outcomes []TaskOutcome
	Failures []Failure

	Duration time.Duration
}

// Err aggregates every per-task failure, nil when the run was clean.
func (r *CreationResult) Err() error {
	return joinFailures(r.Failures)
}

// CountOutcomes tallies outcomes by classification.
func CountOutcomes(outcomes []TaskOutcome) map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, o := range outcomes {
		counts[o.Outcome]++
	}
	return counts
}

// SnapshotSummary summarizes a snapshot run.
type SnapshotSummary struct {
	RunID  string
	DryRun bool

	Source string
	Output string

	Files       int
	Directories int
	BinaryFiles []string
	Ignored     []string
	Skipped     []string
	Failures    []Failure

	Duration time.Duration
}

// Err aggregates every per-entry failure, nil when the walk was clean.
func (s *SnapshotSummary) Err() error {
	return joinFailures(s.Failures)
}
