package core

import (
	"context"
	"fmt"

	"github.com/arthur-debert/skeletor/pkg/config"
	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/executor"
	"github.com/arthur-debert/skeletor/pkg/ignore"
	"github.com/arthur-debert/skeletor/pkg/logging"
	"github.com/arthur-debert/skeletor/pkg/reporter"
	"github.com/arthur-debert/skeletor/pkg/tasks"
	"github.com/arthur-debert/skeletor/pkg/tree"
	"github.com/arthur-debert/skeletor/pkg/types"
)

// ApplyOptions configure one apply run.
type ApplyOptions struct {
	Document *tree.Document
	// Target is the directory the tree is created in. It must exist.
	Target    string
	DryRun    bool
	Overwrite bool
	Reporter  reporter.Reporter
	// Settings default to config.Default().
	Settings *config.Config
	// FileSystem replaces the host filesystem rooted at Target.
	FileSystem executor.FileSystem
	RunID      string
}

// Apply materializes opts.Document under opts.Target. Per-task failures are
// collected in the result; the returned error is reserved for problems
// that stop the run before it starts.
func Apply(ctx context.Context, opts ApplyOptions) (*types.CreationResult, error) {
	if opts.Document == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no document to apply")
	}
	if err := opts.Document.RequireDirectories(); err != nil {
		return nil, err
	}
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}
	rep := reporter.OrSilent(opts.Reporter)
	runID := opts.RunID
	if runID == "" {
		runID = NewRunID()
	}

	logger := logging.ForRun("core.apply", runID).With().
		Str("target", opts.Target).
		Logger()

	planned, err := tasks.Plan(opts.Document.Tree)
	if err != nil {
		return nil, err
	}

	rules, err := ignore.Compile(documentPatterns(opts.Document.Metadata.IgnorePatterns), func(w ignore.Warning) {
		rep.Warning(fmt.Sprintf("skipping invalid ignore pattern %q: %v", w.Pattern.Text, w.Err))
	})
	if err != nil {
		return nil, err
	}
	kept, ignored := tasks.Filter(planned, rules)
	if len(ignored) > 0 {
		logger.Info().Int("ignored", len(ignored)).Msg("tasks excluded by ignore patterns")
	}
	if err := tasks.ValidateOrder(kept); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "planned tasks are out of order")
	}

	execOpts := executor.Options{
		DryRun:        opts.DryRun,
		Overwrite:     opts.Overwrite,
		ProgressEvery: settings.Apply.ProgressEvery,
		DirMode:       settings.Apply.DirMode.Perm(),
		FileMode:      settings.Apply.FileMode.Perm(),
		RunID:         runID,
	}
	var exec *executor.Executor
	if opts.FileSystem != nil {
		exec = executor.New(opts.FileSystem, execOpts, rep)
	} else {
		exec, err = executor.NewForRoot(opts.Target, execOpts, rep)
		if err != nil {
			return nil, err
		}
	}

	if !opts.DryRun {
		rep.OperationStart("apply", fmt.Sprintf("Creating %d tasks in %s", len(kept), opts.Target))
	}

	result, err := exec.Execute(ctx, kept)
	if result != nil {
		for _, t := range ignored {
			result.Ignored = append(result.Ignored, t.Path)
		}
	}
	if err != nil {
		return result, err
	}

	if opts.DryRun {
		rep.DryRunPreview(reporter.Preview{
			Tasks:          kept,
			Outcomes:       result.Outcomes,
			BinaryFiles:    binaryPlaceholders(opts.Document),
			IgnorePatterns: rules.Patterns(),
			Verb:           "applied",
		})
	} else {
		rep.ApplyComplete(result)
	}

	logger.Info().
		Int("files_created", result.FilesCreated).
		Int("dirs_created", result.DirsCreated).
		Int("failures", len(result.Failures)).
		Dur("duration", result.Duration).
		Msg("apply finished")
	return result, nil
}

// binaryPlaceholders lists the binary_files entries that name a file in
// the tree. Those files are written empty. Stale entries are dropped.
func binaryPlaceholders(doc *tree.Document) []string {
	var out []string
	for _, p := range doc.Metadata.BinaryFiles {
		if e, ok := doc.Tree.Lookup(p); ok && !e.IsDir() {
			out = append(out, p)
		}
	}
	return out
}

// documentPatterns reads the ignore_patterns key. A bad entry there is
// skipped with a warning like a bad line in a pattern file.
func documentPatterns(texts []string) []ignore.Pattern {
	out := make([]ignore.Pattern, 0, len(texts))
	for i, t := range texts {
		out = append(out, ignore.Pattern{
			Text:   t,
			Origin: ignore.OriginFile,
			Source: tree.KeyIgnorePatterns,
			Line:   i + 1,
		})
	}
	return out
}
