package core

import (
	"context"
	"fmt"

	"github.com/arthur-debert/skeletor/pkg/config"
	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/ignore"
	"github.com/arthur-debert/skeletor/pkg/logging"
	"github.com/arthur-debert/skeletor/pkg/reporter"
	"github.com/arthur-debert/skeletor/pkg/snapshot"
	"github.com/arthur-debert/skeletor/pkg/tasks"
	"github.com/arthur-debert/skeletor/pkg/tree"
	"github.com/arthur-debert/skeletor/pkg/types"
	"github.com/spf13/afero"
)

// SnapshotOptions configure one snapshot run.
type SnapshotOptions struct {
	Source string
	// Patterns are the ignore patterns given for this run, evaluated
	// after the default_ignore setting.
	Patterns        []ignore.Pattern
	IncludeContents bool
	// ExcludeHidden leaves dot files and dot directories out.
	ExcludeHidden bool
	DryRun        bool
	Note          string
	// Output is where the document is written. When it already holds a
	// snapshot its created timestamp is kept. Empty leaves writing to the
	// caller.
	Output   string
	Reporter reporter.Reporter
	// Settings default to config.Default().
	Settings *config.Config
	// FileSystem defaults to the host filesystem.
	FileSystem afero.Fs
	RunID      string
}

// SnapshotOutcome is everything a snapshot produced.
type SnapshotOutcome struct {
	Document *tree.Document
	Walk     *snapshot.Result
	YAML     []byte
	Summary  *types.SnapshotSummary
	// Written is true when YAML was saved to Output.
	Written bool
}

// Snapshot captures opts.Source. An invalid pattern given directly fails
// the run, an invalid default_ignore entry is skipped with a warning.
func Snapshot(ctx context.Context, opts SnapshotOptions) (*SnapshotOutcome, error) {
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}
	fsys := opts.FileSystem
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	rep := reporter.OrSilent(opts.Reporter)
	runID := opts.RunID
	if runID == "" {
		runID = NewRunID()
	}

	logger := logging.ForRun("core.snapshot", runID).With().
		Str("source", opts.Source).
		Logger()

	warn := func(w ignore.Warning) {
		rep.Warning(fmt.Sprintf("skipping invalid ignore pattern %q (%s:%d): %v",
			w.Pattern.Text, w.Pattern.Source, w.Pattern.Line, w.Err))
	}
	defaults, err := ignore.Compile(settingsPatterns(settings.Snapshot.DefaultIgnore), warn)
	if err != nil {
		return nil, err
	}
	given, err := ignore.Compile(opts.Patterns, warn)
	if err != nil {
		return nil, err
	}
	// Given patterns come last so they can re-include a default exclusion.
	rules := defaults.Merge(given)

	if !opts.DryRun {
		rep.OperationStart("snapshot", fmt.Sprintf("Capturing %s", opts.Source))
	}

	walker := snapshot.NewWalker(fsys, snapshot.Options{
		IncludeContents: opts.IncludeContents,
		Rules:           rules,
		Classifier:      settings.Snapshot.Classifier(),
		FollowSymlinks:  settings.Snapshot.FollowSymlinks,
		ExcludeHidden:   opts.ExcludeHidden,
		ProgressEvery:   settings.Apply.ProgressEvery,
	}, rep)
	walk, err := walker.Walk(ctx, opts.Source)
	if err != nil {
		return nil, err
	}

	var previous string
	if opts.Output != "" {
		previous = snapshot.PreviousCreated(fsys, opts.Output)
	}
	doc := snapshot.BuildDocument(walk, rules.Patterns(), snapshot.DocumentOptions{
		Note:            opts.Note,
		PreviousCreated: previous,
	})
	data, err := doc.Marshal()
	if err != nil {
		return nil, err
	}

	out := &SnapshotOutcome{
		Document: doc,
		Walk:     walk,
		YAML:     data,
		Summary: &types.SnapshotSummary{
			RunID:       runID,
			DryRun:      opts.DryRun,
			Source:      opts.Source,
			Files:       walk.Stats.Files,
			Directories: walk.Stats.Directories,
			BinaryFiles: walk.BinaryFiles,
			Ignored:     walk.Ignored,
			Skipped:     walk.Skipped,
			Failures:    walk.Failures,
			Duration:    walk.Duration,
		},
	}

	if opts.DryRun {
		planned, err := tasks.Plan(doc.Tree)
		if err != nil {
			return nil, err
		}
		rep.DryRunPreview(reporter.Preview{
			Tasks:          planned,
			BinaryFiles:    walk.BinaryFiles,
			IgnorePatterns: rules.Patterns(),
			Verb:           "captured",
		})
		return out, nil
	}

	if opts.Output != "" {
		if err := afero.WriteFile(fsys, opts.Output, data, settings.Apply.FileMode.Perm()); err != nil {
			return out, errors.FromIO(err, opts.Output, errors.ErrFileWrite)
		}
		out.Written = true
		out.Summary.Output = opts.Output
	}
	rep.SnapshotComplete(out.Summary)

	logger.Info().
		Int("files", walk.Stats.Files).
		Int("dirs", walk.Stats.Directories).
		Str("output", opts.Output).
		Msg("snapshot finished")
	return out, nil
}

// settingsPatterns turns default_ignore into patterns that are skipped,
// not fatal, when invalid.
func settingsPatterns(texts []string) []ignore.Pattern {
	out := make([]ignore.Pattern, 0, len(texts))
	for i, t := range texts {
		out = append(out, ignore.Pattern{
			Text:   t,
			Origin: ignore.OriginFile,
			Source: "snapshot.default_ignore",
			Line:   i + 1,
		})
	}
	return out
}
