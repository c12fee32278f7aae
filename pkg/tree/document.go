package tree

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Top-level keys of the declarative format.
const (
	KeyCreated           = "created"
	KeyUpdated           = "updated"
	KeyGeneratedComments = "generated_comments"
	KeyNotes             = "notes"
	KeyStats             = "stats"
	KeyBlacklist         = "blacklist"
	KeyIgnorePatterns    = "ignore_patterns"
	KeyBinaryFiles       = "binary_files"
	KeyDirectories       = "directories"
)

// Metadata is everything in a document besides the tree itself.
type Metadata struct {
	Created           string
	Updated           string
	GeneratedComments []string
	Notes             []string
	Stats             *Stats
	Blacklist         []string
	IgnorePatterns    []string
	BinaryFiles       []string
}

// Document is a parsed declarative file.
type Document struct {
	Metadata Metadata
	Tree     *ConfigTree

	// HasDirectories is false when the input had no directories key.
	HasDirectories bool
}

// NewDocument wraps a tree with empty metadata.
func NewDocument(t *ConfigTree) *Document {
	if t == nil {
		t = New()
	}
	return &Document{Tree: t, HasDirectories: true}
}

// RequireDirectories fails when the document carried no directories key.
func (d *Document) RequireDirectories() error {
	if !d.HasDirectories {
		return errors.Newf(errors.ErrConfigMissingKey, "missing required key %q", KeyDirectories).
			WithDetail("key", KeyDirectories)
	}
	return nil
}

// ParseDocument decodes YAML into a Document, preserving sibling order.
// A missing directories key is tolerated here and reported by
// RequireDirectories, a directories value that is not a mapping is not.
func ParseDocument(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid YAML")
	}

	doc := &Document{Tree: New()}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}

	top := resolve(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigParse, "top level must be a mapping, got %s", kindName(top)).
			WithDetail("line", top.Line)
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := resolve(top.Content[i]), resolve(top.Content[i+1])
		var err error
		switch key.Value {
		case KeyCreated:
			doc.Metadata.Created, err = scalarString(key.Value, val)
		case KeyUpdated:
			doc.Metadata.Updated, err = scalarString(key.Value, val)
		case KeyGeneratedComments:
			doc.Metadata.GeneratedComments, err = stringList(key.Value, val)
		case KeyNotes:
			doc.Metadata.Notes, err = stringList(key.Value, val)
		case KeyBlacklist:
			doc.Metadata.Blacklist, err = stringList(key.Value, val)
		case KeyIgnorePatterns:
			doc.Metadata.IgnorePatterns, err = stringList(key.Value, val)
		case KeyBinaryFiles:
			doc.Metadata.BinaryFiles, err = stringList(key.Value, val)
		case KeyStats:
			doc.Metadata.Stats, err = decodeStats(val)
		case KeyDirectories:
			if val.Kind != yaml.MappingNode {
				return nil, errors.Newf(errors.ErrConfigValid, "%q must be a mapping, got %s", KeyDirectories, kindName(val)).
					WithDetail("key", KeyDirectories).
					WithDetail("line", val.Line)
			}
			doc.Tree, err = decodeTree(val, "")
			doc.HasDirectories = true
		}
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "null"
		}
		return "scalar"
	default:
		return "unknown"
	}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func decodeTree(node *yaml.Node, prefix string) (*ConfigTree, error) {
	t := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := resolve(node.Content[i]), resolve(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, errors.Newf(errors.ErrConfigValid, "entry names must be scalars (line %d)", key.Line).
				WithDetail("path", prefix)
		}
		name := key.Value
		rel := JoinPath(prefix, name)

		switch val.Kind {
		case yaml.MappingNode:
			children, err := decodeTree(val, rel)
			if err != nil {
				return nil, err
			}
			if err := t.Set(&Entry{Name: name, Kind: KindDirectory, Children: children}); err != nil {
				return nil, withPath(err, rel)
			}
		case yaml.ScalarNode:
			content := val.Value
			if isNull(val) {
				content = ""
			}
			if err := t.AddFile(name, content); err != nil {
				return nil, withPath(err, rel)
			}
		default:
			return nil, errors.Newf(errors.ErrConfigValid, "entry %q must be a mapping or a string, got %s", rel, kindName(val)).
				WithDetail("path", rel).
				WithDetail("line", val.Line)
		}
	}
	return t, nil
}

func withPath(err error, rel string) error {
	if skErr, ok := err.(*errors.SkeletorError); ok {
		return skErr.WithDetail("path", rel)
	}
	return err
}

func scalarString(key string, n *yaml.Node) (string, error) {
	if isNull(n) {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", errors.Newf(errors.ErrConfigValid, "%q must be a string, got %s", key, kindName(n)).
			WithDetail("key", key)
	}
	return n.Value, nil
}

func stringList(key string, n *yaml.Node) ([]string, error) {
	switch {
	case isNull(n):
		return nil, nil
	case n.Kind == yaml.ScalarNode:
		if n.Value == "" {
			return nil, nil
		}
		return []string{n.Value}, nil
	case n.Kind == yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			item = resolve(item)
			if item.Kind != yaml.ScalarNode {
				return nil, errors.Newf(errors.ErrConfigValid, "%q items must be strings, got %s", key, kindName(item)).
					WithDetail("key", key)
			}
			out = append(out, item.Value)
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "%q must be a string or a list, got %s", key, kindName(n)).
			WithDetail("key", key)
	}
}

func decodeStats(n *yaml.Node) (*Stats, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigValid, "%q must be a mapping, got %s", KeyStats, kindName(n)).
			WithDetail("key", KeyStats)
	}
	s := &Stats{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := resolve(n.Content[i]), resolve(n.Content[i+1])
		var dst *int
		switch key.Value {
		case "files":
			dst = &s.Files
		case "directories", "dirs":
			dst = &s.Directories
		default:
			continue
		}
		if err := val.Decode(dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "%s.%s must be an integer", KeyStats, key.Value)
		}
	}
	return s, nil
}

// Marshal encodes the document as YAML. Metadata comes first in a fixed
// order, empty metadata is omitted and directories is always written.
func (d *Document) Marshal() ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	m := d.Metadata

	appendScalar(root, KeyCreated, m.Created)
	appendScalar(root, KeyUpdated, m.Updated)
	appendList(root, KeyGeneratedComments, m.GeneratedComments, true)
	appendList(root, KeyNotes, m.Notes, true)
	if m.Stats != nil {
		root.Content = append(root.Content, strNode(KeyStats), &yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				strNode("files"), intNode(m.Stats.Files),
				strNode("directories"), intNode(m.Stats.Directories),
			},
		})
	}
	appendList(root, KeyBlacklist, m.Blacklist, false)
	appendList(root, KeyIgnorePatterns, m.IgnorePatterns, false)
	appendList(root, KeyBinaryFiles, m.BinaryFiles, false)
	root.Content = append(root.Content, strNode(KeyDirectories), encodeTree(d.Tree))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode YAML")
	}
	return buf.Bytes(), nil
}

func encodeTree(t *ConfigTree) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range t.Entries() {
		if e.IsDir() {
			n.Content = append(n.Content, strNode(e.Name), encodeTree(e.Children))
			continue
		}
		n.Content = append(n.Content, strNode(e.Name), contentNode(e.Content))
	}
	if len(n.Content) == 0 {
		n.Style = yaml.FlowStyle
	}
	return n
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(i)}
}

// contentNode picks a literal block for multi-line content when the block
// decodes back to the same text, and a double quoted scalar otherwise.
func contentNode(s string) *yaml.Node {
	n := strNode(s)
	if !strings.Contains(s, "\n") {
		return n
	}
	if literalSafe(s) {
		n.Style = yaml.LiteralStyle
	} else {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// literalSafe reports whether s survives a literal block. A block takes its
// indentation from the first line, so that line cannot open with
// whitespace or a break, and a block of blank lines decodes as "". Other
// line breaks are normalized to "\n" on decode.
func literalSafe(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	switch s[0] {
	case ' ', '\t', '\n':
		return false
	}
	return !strings.ContainsAny(s, "\r\u0085\u2028\u2029\ufeff")
}

func appendScalar(root *yaml.Node, key, value string) {
	if value == "" {
		return
	}
	root.Content = append(root.Content, strNode(key), strNode(value))
}

// appendList writes a single item as a plain string when collapse is set,
// which keeps one-line comments readable.
func appendList(root *yaml.Node, key string, items []string, collapse bool) {
	if len(items) == 0 {
		return
	}
	if collapse && len(items) == 1 {
		root.Content = append(root.Content, strNode(key), contentNode(items[0]))
		return
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, item := range items {
		seq.Content = append(seq.Content, strNode(item))
	}
	root.Content = append(root.Content, strNode(key), seq)
}
