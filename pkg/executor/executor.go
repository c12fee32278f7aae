// Package executor applies planned tasks to a filesystem.
//
// Execution is sequential and never transactional: a task that fails is
// recorded in the result and the run moves on to the next one. A dry run
// classifies every task exactly as a real run would, without mutating
// anything.
package executor

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/logging"
	"github.com/arthur-debert/skeletor/pkg/reporter"
	"github.com/arthur-debert/skeletor/pkg/tasks"
	"github.com/arthur-debert/skeletor/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

const (
	DefaultProgressEvery = 1000
	DefaultDirMode       = fs.FileMode(0755)
	DefaultFileMode      = fs.FileMode(0644)
)

// FileSystem is the subset of filesystem operations the executor needs.
// Paths are slash separated and relative to the filesystem root.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

// Options control how tasks are applied.
type Options struct {
	DryRun    bool
	Overwrite bool
	// ProgressEvery is the number of tasks between progress events.
	ProgressEvery int
	DirMode       fs.FileMode
	FileMode      fs.FileMode
	RunID         string
}

func (o Options) withDefaults() Options {
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	if o.DirMode == 0 {
		o.DirMode = DefaultDirMode
	}
	if o.FileMode == 0 {
		o.FileMode = DefaultFileMode
	}
	return o
}

// Executor runs tasks against one FileSystem.
type Executor struct {
	fsys   FileSystem
	opts   Options
	rep    reporter.Reporter
	logger zerolog.Logger
}

// New returns an executor over fsys. A nil reporter discards events.
func New(fsys FileSystem, opts Options, rep reporter.Reporter) *Executor {
	return &Executor{
		fsys:   fsys,
		opts:   opts.withDefaults(),
		rep:    reporter.OrSilent(rep),
		logger: logging.GetLogger("executor"),
	}
}

// NewForRoot returns an executor rooted at the directory root, which must
// already exist.
func NewForRoot(root string, opts Options, rep reporter.Reporter) (*Executor, error) {
	info, err := os.Stat(root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.ErrDirNotFound, "target directory %s does not exist", root).
				WithDetail("path", root)
		}
		return nil, errors.FromIO(err, root, errors.ErrFileAccess)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrNotADirectory, "target %s is not a directory", root).
			WithDetail("path", root)
	}
	return New(filesystem.NewOSFileSystem(root), opts, rep), nil
}

// Execute applies ts in order. Structurally invalid task paths fail the
// whole call before anything runs. Per-task failures are collected in the
// result. A cancelled context stops between tasks and returns the partial
// result along with the context error.
func (e *Executor) Execute(ctx context.Context, ts []tasks.Task) (*types.CreationResult, error) {
	for _, t := range ts {
		if err := tasks.ValidatePath(t.Path); err != nil {
			return nil, err
		}
	}

	logger := e.logger.With().
		Int("tasks", len(ts)).
		Bool("dry_run", e.opts.DryRun).
		Bool("overwrite", e.opts.Overwrite).
		Str("run_id", e.opts.RunID).
		Logger()
	done := logging.LogOperationStart(logger, "execute")
	defer done()

	start := time.Now()
	run := &run{
		Executor: e,
		result: &types.CreationResult{
			RunID:      e.opts.RunID,
			DryRun:     e.opts.DryRun,
			TasksTotal: len(ts),
			Outcomes:   make([]types.TaskOutcome, 0, len(ts)),
		},
		planned: make(map[string]bool),
	}

	total := len(ts)
	for i, t := range ts {
		if err := ctx.Err(); err != nil {
			run.result.Duration = time.Since(start)
			logger.Warn().Int("completed", i).Msg("execution cancelled")
			return run.result, err
		}

		run.apply(t)

		if n := i + 1; n%e.opts.ProgressEvery == 0 && n != total {
			e.rep.Progress(n, total, "")
		}
	}
	if total > 0 {
		e.rep.Progress(total, total, "")
	}

	run.result.Duration = time.Since(start)
	logger.Info().
		Int("dirs_created", run.result.DirsCreated).
		Int("files_created", run.result.FilesCreated).
		Int("files_skipped", run.result.FilesSkipped).
		Int("files_overwritten", run.result.FilesOverwritten).
		Int("failures", len(run.result.Failures)).
		Msg("execution finished")
	return run.result, nil
}

// run is the state of one Execute call.
type run struct {
	*Executor
	result *types.CreationResult
	// planned holds the directories a dry run would have created.
	planned map[string]bool
}

func (r *run) apply(t tasks.Task) {
	var outcome types.Outcome
	var err error
	if t.IsDir() {
		outcome, err = r.createDir(t)
	} else {
		outcome, err = r.createFile(t)
	}

	to := types.TaskOutcome{Task: t, Outcome: outcome}
	r.result.Outcomes = append(r.result.Outcomes, to)

	switch outcome {
	case types.OutcomeCreated:
		if t.IsDir() {
			r.result.DirsCreated++
		} else {
			r.result.FilesCreated++
		}
	case types.OutcomeExisting:
		r.result.DirsExisting++
	case types.OutcomeSkipped:
		r.result.FilesSkipped++
		r.result.SkippedFiles = append(r.result.SkippedFiles, t.Path)
	case types.OutcomeOverwritten:
		r.result.FilesOverwritten++
		r.result.OverwrittenFiles = append(r.result.OverwrittenFiles, t.Path)
	case types.OutcomeFailed:
		r.result.Failures = append(r.result.Failures, types.Failure{Path: t.Path, Err: err})
		r.logger.Warn().Err(err).Str("path", t.Path).Msg("task failed")
	}
	r.logger.Trace().Str("task", t.String()).Str("outcome", outcome.String()).Msg("task classified")
	r.rep.TaskOutcome(to, err)
}

// stat looks up p, treating paths a dry run would have created as
// directories.
func (r *run) stat(p string) (exists, isDir bool, err error) {
	if r.planned[p] {
		return true, true, nil
	}
	if r.opts.DryRun && r.underPlanned(p) {
		return false, false, nil
	}
	info, err := r.fsys.Stat(p)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, false, nil
		}
		return false, false, errors.FromIO(err, p, errors.ErrFileAccess)
	}
	return true, info.IsDir(), nil
}

// underPlanned reports whether an ancestor of p is a planned directory.
// Nothing can exist below a directory that does not exist yet.
func (r *run) underPlanned(p string) bool {
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if r.planned[dir] {
			return true
		}
	}
	return false
}

func (r *run) createDir(t tasks.Task) (types.Outcome, error) {
	exists, isDir, err := r.stat(t.Path)
	if err != nil {
		return types.OutcomeFailed, err
	}
	if exists {
		if isDir {
			return types.OutcomeExisting, nil
		}
		return types.OutcomeFailed, errors.Newf(errors.ErrPathConflict, "%s exists and is not a directory", t.Path).
			WithDetail("path", t.Path)
	}
	if r.opts.DryRun {
		r.planned[t.Path] = true
		return types.OutcomeCreated, nil
	}
	if err := r.fsys.MkdirAll(t.Path, r.opts.DirMode); err != nil {
		return types.OutcomeFailed, errors.FromIO(err, t.Path, errors.ErrDirCreate)
	}
	return types.OutcomeCreated, nil
}

func (r *run) createFile(t tasks.Task) (types.Outcome, error) {
	exists, isDir, err := r.stat(t.Path)
	if err != nil {
		return types.OutcomeFailed, err
	}
	if isDir {
		return types.OutcomeFailed, errors.Newf(errors.ErrPathConflict, "%s exists and is a directory", t.Path).
			WithDetail("path", t.Path)
	}
	if exists && !r.opts.Overwrite {
		return types.OutcomeSkipped, nil
	}

	outcome := types.OutcomeCreated
	if exists {
		outcome = types.OutcomeOverwritten
	}

	if parent := path.Dir(t.Path); parent != "." {
		pExists, pIsDir, err := r.stat(parent)
		if err != nil {
			return types.OutcomeFailed, err
		}
		if pExists && !pIsDir {
			return types.OutcomeFailed, errors.Newf(errors.ErrPathConflict, "parent %s is not a directory", parent).
				WithDetail("path", t.Path)
		}
		if !pExists && !r.opts.DryRun {
			if err := r.fsys.MkdirAll(parent, r.opts.DirMode); err != nil {
				return types.OutcomeFailed, errors.FromIO(err, parent, errors.ErrDirCreate)
			}
		}
	}

	if r.opts.DryRun {
		return outcome, nil
	}
	if err := r.fsys.WriteFile(t.Path, []byte(t.Content), r.opts.FileMode); err != nil {
		return types.OutcomeFailed, errors.FromIO(err, t.Path, errors.ErrFileWrite)
	}
	return outcome, nil
}
