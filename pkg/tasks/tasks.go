// Package tasks turns a tree into the ordered list of filesystem
// operations that materialize it.
package tasks

import (
	"fmt"
	"path"
	"strings"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/ignore"
	"github.com/arthur-debert/skeletor/pkg/tree"
)

// Kind is the operation a task performs.
type Kind int

const (
	CreateDir Kind = iota
	CreateFile
)

func (k Kind) String() string {
	switch k {
	case CreateDir:
		return "create_dir"
	case CreateFile:
		return "create_file"
	default:
		return "unknown"
	}
}

// Task is one operation. Path is slash separated and relative to the
// target root. Content is only meaningful for CreateFile.
type Task struct {
	Kind    Kind
	Path    string
	Content string
}

// IsDir reports whether the task creates a directory.
func (t Task) IsDir() bool {
	return t.Kind == CreateDir
}

func (t Task) String() string {
	if t.Kind == CreateDir {
		return fmt.Sprintf("Dir: %q", t.Path)
	}
	return fmt.Sprintf("File: %q", t.Path)
}

// Plan lists the tasks for t breadth first. Every directory task comes
// before any task below it and siblings keep their tree order. Entry
// names are validated again so a tree built by hand cannot produce a path
// that leaves the root.
func Plan(t *tree.ConfigTree) ([]Task, error) {
	var out []Task
	err := t.WalkBreadthFirst(func(rel string, e *tree.Entry) error {
		if err := tree.ValidateName(e.Name); err != nil {
			if skErr, ok := err.(*errors.SkeletorError); ok {
				return skErr.WithDetail("path", rel)
			}
			return err
		}
		if e.IsDir() {
			out = append(out, Task{Kind: CreateDir, Path: rel})
			return nil
		}
		out = append(out, Task{Kind: CreateFile, Path: rel, Content: e.Content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Summarize counts file and directory tasks.
func Summarize(ts []Task) (files, dirs int) {
	for _, t := range ts {
		if t.IsDir() {
			dirs++
		} else {
			files++
		}
	}
	return files, dirs
}

// Filter splits ts into tasks that survive rs and tasks excluded by it,
// directly or through an excluded parent directory.
func Filter(ts []Task, rs *ignore.RuleSet) (kept, ignored []Task) {
	if rs.Len() == 0 {
		return ts, nil
	}
	for _, t := range ts {
		if rs.MatchesPathOrParents(t.Path, t.IsDir()) {
			ignored = append(ignored, t)
			continue
		}
		kept = append(kept, t)
	}
	return kept, ignored
}

// ValidatePath checks that p is relative, clean, slash separated and made
// of valid entry names.
func ValidatePath(p string) error {
	if err := checkPath(p); err != nil {
		return errors.Wrap(err, errors.ErrValidation, "invalid task path").WithDetail("path", p)
	}
	return nil
}

// ValidateOrder checks every path and that each task's parent directory
// is created by an earlier task.
func ValidateOrder(ts []Task) error {
	seenDirs := map[string]bool{".": true}
	for i, t := range ts {
		if err := ValidatePath(t.Path); err != nil {
			return err
		}
		if !seenDirs[path.Dir(t.Path)] {
			return errors.Newf(errors.ErrValidation, "task %d: %s is planned before its parent directory", i, t.Path).
				WithDetail("path", t.Path)
		}
		if t.IsDir() {
			seenDirs[t.Path] = true
		}
	}
	return nil
}

func checkPath(p string) error {
	if p == "" {
		return fmt.Errorf("empty path")
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return fmt.Errorf("path %q must be relative and slash separated", p)
	}
	if path.Clean(p) != p {
		return fmt.Errorf("path %q is not clean", p)
	}
	for _, part := range strings.Split(p, "/") {
		if err := tree.ValidateName(part); err != nil {
			return err
		}
	}
	return nil
}
