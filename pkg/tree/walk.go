package tree

import (
	"errors"
)

// SkipDir can be returned from a WalkFunc to skip the children of the
// directory just visited. It has no effect when returned for a file.
var SkipDir = errors.New("skip this directory")

// JoinPath appends name to a slash separated prefix. Unlike path.Join it
// does not clean the result, so a bad name such as ".." is reported as
// written.
func JoinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// WalkFunc is called for every entry with its slash separated path
// relative to the tree root.
type WalkFunc func(relPath string, e *Entry) error

// WalkDepthFirst visits entries parent first, children in insertion order.
func (t *ConfigTree) WalkDepthFirst(fn WalkFunc) error {
	return t.walkDepthFirst("", fn)
}

func (t *ConfigTree) walkDepthFirst(prefix string, fn WalkFunc) error {
	for _, e := range t.Entries() {
		rel := JoinPath(prefix, e.Name)
		err := fn(rel, e)
		if errors.Is(err, SkipDir) {
			continue
		}
		if err != nil {
			return err
		}
		if e.IsDir() {
			if err := e.Children.walkDepthFirst(rel, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// WalkBreadthFirst visits the entries of one directory before descending.
// Directories are expanded in the order they were visited, which keeps the
// sibling order of the input at every level. SkipDir keeps a directory from
// being queued.
func (t *ConfigTree) WalkBreadthFirst(fn WalkFunc) error {
	type pending struct {
		prefix string
		tree   *ConfigTree
	}
	queue := []pending{{tree: t}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range cur.tree.Entries() {
			rel := JoinPath(cur.prefix, e.Name)
			err := fn(rel, e)
			if errors.Is(err, SkipDir) {
				continue
			}
			if err != nil {
				return err
			}
			if e.IsDir() {
				queue = append(queue, pending{prefix: rel, tree: e.Children})
			}
		}
	}
	return nil
}
