// Package tree holds the in-memory model of a directory hierarchy: an
// ordered mapping of entry names to directories and files, plus the YAML
// document that carries it between apply and snapshot.
package tree

import (
	"strings"

	"github.com/arthur-debert/skeletor/pkg/errors"
)

// Kind distinguishes directories from files.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "dir"
	}
	return "file"
}

// Entry is one named node of a ConfigTree. Directories own Children,
// files own Content. An empty Content means an empty file or contents
// that were not captured.
type Entry struct {
	Name     string
	Kind     Kind
	Content  string
	Children *ConfigTree
}

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// ConfigTree is an ordered mapping from entry name to Entry. Insertion
// order is preserved and names are unique within one tree.
type ConfigTree struct {
	entries []*Entry
	index   map[string]int
}

// New returns an empty tree.
func New() *ConfigTree {
	return &ConfigTree{index: make(map[string]int)}
}

// ValidateName rejects names that could escape their parent when joined
// into a path.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrValidation, "entry name cannot be empty").
			WithDetail("name", name)
	}
	if strings.ContainsAny(name, "/\\") {
		return errors.Newf(errors.ErrValidation, "entry name %q cannot contain path separators", name).
			WithDetail("name", name)
	}
	if name == "." || name == ".." {
		return errors.Newf(errors.ErrValidation, "entry name cannot be %q", name).
			WithDetail("name", name)
	}
	if strings.ContainsRune(name, 0) {
		return errors.New(errors.ErrValidation, "entry name contains null bytes").
			WithDetail("name", name)
	}
	return nil
}

// Set inserts or replaces the entry stored under e.Name. A replaced entry
// keeps its original position.
func (t *ConfigTree) Set(e *Entry) error {
	if e == nil {
		return errors.New(errors.ErrInternal, "nil entry")
	}
	if err := ValidateName(e.Name); err != nil {
		return err
	}
	if e.Kind == KindDirectory && e.Children == nil {
		e.Children = New()
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[e.Name]; ok {
		t.entries[i] = e
		return nil
	}
	t.index[e.Name] = len(t.entries)
	t.entries = append(t.entries, e)
	return nil
}

// AddDir adds an empty directory and returns its subtree.
func (t *ConfigTree) AddDir(name string) (*ConfigTree, error) {
	e := &Entry{Name: name, Kind: KindDirectory, Children: New()}
	if err := t.Set(e); err != nil {
		return nil, err
	}
	return e.Children, nil
}

// AddFile adds a file with the given content.
func (t *ConfigTree) AddFile(name, content string) error {
	return t.Set(&Entry{Name: name, Kind: KindFile, Content: content})
}

// Get returns the entry stored under name.
func (t *ConfigTree) Get(name string) (*Entry, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// Entries returns the entries in insertion order.
func (t *ConfigTree) Entries() []*Entry {
	if t == nil {
		return nil
	}
	out := make([]*Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Names returns entry names in insertion order.
func (t *ConfigTree) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of direct entries.
func (t *ConfigTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup resolves a slash separated relative path.
func (t *ConfigTree) Lookup(path string) (*Entry, bool) {
	cur := t
	parts := strings.Split(path, "/")
	for i, part := range parts {
		e, ok := cur.Get(part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return e, true
		}
		if !e.IsDir() {
			return nil, false
		}
		cur = e.Children
	}
	return nil, false
}

// Stats counts every nested file and directory.
type Stats struct {
	Files       int `yaml:"files" json:"files"`
	Directories int `yaml:"directories" json:"directories"`
}

// Stats walks the whole tree and counts its entries.
func (t *ConfigTree) Stats() Stats {
	var s Stats
	_ = t.WalkDepthFirst(func(_ string, e *Entry) error {
		if e.IsDir() {
			s.Directories++
		} else {
			s.Files++
		}
		return nil
	})
	return s
}

// Equal reports whether two trees hold the same entries in the same order.
func (t *ConfigTree) Equal(other *ConfigTree) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i, e := range t.Entries() {
		o := other.entries[i]
		if e.Name != o.Name || e.Kind != o.Kind {
			return false
		}
		if e.IsDir() {
			if !e.Children.Equal(o.Children) {
				return false
			}
		} else if e.Content != o.Content {
			return false
		}
	}
	return true
}
