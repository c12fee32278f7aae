// Package snapshot captures an existing directory as a tree and builds
// the declarative document describing it.
package snapshot

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/skeletor/pkg/binary"
	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/ignore"
	"github.com/arthur-debert/skeletor/pkg/logging"
	"github.com/arthur-debert/skeletor/pkg/reporter"
	"github.com/arthur-debert/skeletor/pkg/tree"
	"github.com/arthur-debert/skeletor/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const DefaultProgressEvery = 1000

// Options control what a walk captures.
type Options struct {
	// IncludeContents reads file contents. Without it every file is
	// captured empty.
	IncludeContents bool
	Rules           *ignore.RuleSet
	Classifier      binary.Classifier
	// FollowSymlinks captures symlinks to regular files as the file they
	// point to. Symlinked directories are always skipped.
	FollowSymlinks bool
	// ExcludeHidden leaves out entries whose name starts with a dot. They
	// are listed in Ignored like rule exclusions.
	ExcludeHidden bool
	ProgressEvery int
}

// Result is what a walk observed.
type Result struct {
	Root string
	Tree *tree.ConfigTree
	// BinaryFiles are captured with empty content.
	BinaryFiles []string
	// Ignored lists paths excluded by the rules or as hidden entries.
	// Excluded directories are listed once, their contents are never
	// visited.
	Ignored []string
	// Skipped lists symlinks and special files.
	Skipped  []string
	Failures []types.Failure
	Stats    tree.Stats
	Duration time.Duration
}

// Walker reads directories from an afero filesystem.
type Walker struct {
	fsys   afero.Fs
	opts   Options
	rep    reporter.Reporter
	logger zerolog.Logger
}

// NewWalker returns a walker over fsys. A nil fsys reads the host
// filesystem.
func NewWalker(fsys afero.Fs, opts Options, rep reporter.Reporter) *Walker {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	return &Walker{
		fsys:   fsys,
		opts:   opts,
		rep:    reporter.OrSilent(rep),
		logger: logging.GetLogger("snapshot"),
	}
}

// Walk captures root, which must be an existing directory. Entries are
// visited in lexical order. Unreadable entries are recorded and the walk
// continues.
func (w *Walker) Walk(ctx context.Context, root string) (*Result, error) {
	info, err := w.fsys.Stat(root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.ErrDirNotFound, "source directory %s does not exist", root).
				WithDetail("path", root)
		}
		return nil, errors.FromIO(err, root, errors.ErrFileAccess)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrNotADirectory, "source %s is not a directory", root).
			WithDetail("path", root)
	}

	logger := w.logger.With().Str("root", root).Bool("contents", w.opts.IncludeContents).Logger()
	done := logging.LogOperationStart(logger, "snapshot walk")
	defer done()

	start := time.Now()
	s := &walk{Walker: w, ctx: ctx, res: &Result{Root: root, Tree: tree.New()}}

	entries, err := afero.ReadDir(w.fsys, root)
	if err != nil {
		return nil, errors.FromIO(err, root, errors.ErrFileRead)
	}
	if err := s.walkEntries(root, "", entries, s.res.Tree); err != nil {
		s.res.Duration = time.Since(start)
		return s.res, err
	}
	if s.visited > 0 {
		w.rep.Progress(s.visited, s.visited, "")
	}

	s.res.Stats = s.res.Tree.Stats()
	s.res.Duration = time.Since(start)
	logger.Info().
		Int("files", s.res.Stats.Files).
		Int("dirs", s.res.Stats.Directories).
		Int("binary", len(s.res.BinaryFiles)).
		Int("ignored", len(s.res.Ignored)).
		Int("failures", len(s.res.Failures)).
		Msg("snapshot walk finished")
	return s.res, nil
}

// walk is the state of one Walk call.
type walk struct {
	*Walker
	ctx     context.Context
	res     *Result
	visited int
}

func (s *walk) walkEntries(dir, prefix string, entries []os.FileInfo, into *tree.ConfigTree) error {
	for _, info := range entries {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		s.visited++
		if s.visited%s.opts.ProgressEvery == 0 {
			s.rep.Progress(s.visited, 0, "")
		}

		name := info.Name()
		rel := tree.JoinPath(prefix, name)
		full := filepath.Join(dir, name)

		if err := tree.ValidateName(name); err != nil {
			s.fail(rel, err)
			continue
		}

		if s.opts.ExcludeHidden && strings.HasPrefix(name, ".") {
			s.res.Ignored = append(s.res.Ignored, rel)
			s.logger.Debug().Str("path", rel).Msg("hidden entry excluded")
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			resolved, ok := s.resolveSymlink(full, rel)
			if !ok {
				continue
			}
			info = resolved
		}

		isDir := info.IsDir()
		if s.opts.Rules.Match(rel, isDir) {
			s.res.Ignored = append(s.res.Ignored, rel)
			s.logger.Debug().Str("path", rel).Msg("ignored")
			continue
		}

		switch {
		case isDir:
			// An unreadable directory is left out of the tree entirely.
			sub, err := afero.ReadDir(s.fsys, full)
			if err != nil {
				s.fail(rel, errors.FromIO(err, rel, errors.ErrFileRead))
				continue
			}
			children, err := into.AddDir(name)
			if err != nil {
				s.fail(rel, err)
				continue
			}
			if err := s.walkEntries(full, rel, sub, children); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			content, ok := s.capture(full, rel)
			if !ok {
				continue
			}
			if err := into.AddFile(name, content); err != nil {
				s.fail(rel, err)
			}
		default:
			s.res.Skipped = append(s.res.Skipped, rel)
			s.logger.Debug().Str("path", rel).Str("mode", info.Mode().String()).Msg("skipped special file")
		}
	}
	return nil
}

// resolveSymlink returns the info to use for a symlink, or false when it
// is skipped.
func (s *walk) resolveSymlink(full, rel string) (os.FileInfo, bool) {
	if !s.opts.FollowSymlinks {
		s.res.Skipped = append(s.res.Skipped, rel)
		s.logger.Debug().Str("path", rel).Msg("skipped symlink")
		return nil, false
	}
	target, err := s.fsys.Stat(full)
	if err != nil {
		s.fail(rel, errors.FromIO(err, rel, errors.ErrFileAccess))
		return nil, false
	}
	if !target.Mode().IsRegular() {
		s.res.Skipped = append(s.res.Skipped, rel)
		s.logger.Debug().Str("path", rel).Msg("skipped symlink to non-regular file")
		return nil, false
	}
	return target, true
}

// capture returns the content to store for a regular file.
func (s *walk) capture(full, rel string) (string, bool) {
	if !s.opts.IncludeContents {
		return "", true
	}
	data, err := afero.ReadFile(s.fsys, full)
	if err != nil {
		s.fail(rel, errors.FromIO(err, rel, errors.ErrFileRead))
		return "", false
	}
	if s.opts.Classifier.IsBinary(data) {
		s.res.BinaryFiles = append(s.res.BinaryFiles, rel)
		s.logger.Debug().Str("path", rel).Int("bytes", len(data)).Msg("binary file, contents omitted")
		return "", true
	}
	return string(data), true
}

func (s *walk) fail(rel string, err error) {
	s.res.Failures = append(s.res.Failures, types.Failure{Path: rel, Err: err})
	s.logger.Warn().Err(err).Str("path", rel).Msg("entry failed")
	s.rep.Warning(err.Error())
}
