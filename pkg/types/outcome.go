package types

import "github.com/arthur-debert/skeletor/pkg/tasks"

// Outcome classifies what happened, or would happen in a dry run, to a
// single task.
type Outcome int

const (
	// OutcomeCreated means the path did not exist and was created.
	OutcomeCreated Outcome = iota
	// OutcomeExisting means a directory already existed.
	OutcomeExisting
	// OutcomeSkipped means a file existed and overwrite was off.
	OutcomeSkipped
	// OutcomeOverwritten means a file existed and was replaced.
	OutcomeOverwritten
	// OutcomeFailed means the task hit an error.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeExisting:
		return "existing"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeOverwritten:
		return "overwritten"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TaskOutcome pairs a task with its classification.
type TaskOutcome struct {
	Task    tasks.Task
	Outcome Outcome
}
