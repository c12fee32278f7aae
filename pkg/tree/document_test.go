package tree_test

import (
	"testing"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	input := `
created: "2024-01-01T00:00:00Z"
updated: "2024-01-02T00:00:00Z"
generated_comments: "Snapshot generated from folder: demo"
notes:
  - first
  - second
stats:
  files: 3
  dirs: 2
blacklist:
  - "*.log"
directories:
  zeta: {}
  src:
    main.go: |
      package main
    lib:
      util.go: ""
  count: 42
  empty:
`
	doc, err := tree.ParseDocument([]byte(input))
	require.NoError(t, err)
	require.NoError(t, doc.RequireDirectories())

	assert.Equal(t, "2024-01-01T00:00:00Z", doc.Metadata.Created)
	assert.Equal(t, "2024-01-02T00:00:00Z", doc.Metadata.Updated)
	assert.Equal(t, []string{"Snapshot generated from folder: demo"}, doc.Metadata.GeneratedComments)
	assert.Equal(t, []string{"first", "second"}, doc.Metadata.Notes)
	assert.Equal(t, &tree.Stats{Files: 3, Directories: 2}, doc.Metadata.Stats)
	assert.Equal(t, []string{"*.log"}, doc.Metadata.Blacklist)

	assert.Equal(t, []string{"zeta", "src", "count", "empty"}, doc.Tree.Names())

	zeta, _ := doc.Tree.Get("zeta")
	assert.True(t, zeta.IsDir())
	assert.Equal(t, 0, zeta.Children.Len())

	mainGo, ok := doc.Tree.Lookup("src/main.go")
	require.True(t, ok)
	assert.Equal(t, "package main\n", mainGo.Content)

	count, _ := doc.Tree.Get("count")
	assert.Equal(t, "42", count.Content)

	empty, _ := doc.Tree.Get("empty")
	assert.False(t, empty.IsDir())
	assert.Equal(t, "", empty.Content)
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.ErrorCode
	}{
		{"invalid yaml", "directories: [unclosed", errors.ErrConfigParse},
		{"top level sequence", "- a\n- b\n", errors.ErrConfigParse},
		{"directories is a string", "directories: nope\n", errors.ErrConfigValid},
		{"directories is null", "directories:\n", errors.ErrConfigValid},
		{"sequence entry", "directories:\n  src:\n    - a\n", errors.ErrConfigValid},
		{"traversal name", "directories:\n  ..:\n    x: y\n", errors.ErrValidation},
		{"separator in name", "directories:\n  \"a/b\": x\n", errors.ErrValidation},
		{"bad stats", "stats:\n  files: many\ndirectories: {}\n", errors.ErrConfigValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tree.ParseDocument([]byte(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err), "got %v", err)
		})
	}
}

func TestRequireDirectories(t *testing.T) {
	for _, input := range []string{"", "created: now\n"} {
		doc, err := tree.ParseDocument([]byte(input))
		require.NoError(t, err)

		err = doc.RequireDirectories()
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigMissingKey))
		assert.True(t, errors.IsCategory(err, errors.CategoryConfig))
	}
}

func TestParseDocumentReportsPathOfBadName(t *testing.T) {
	_, err := tree.ParseDocument([]byte("directories:\n  src:\n    \"..\": x\n"))
	require.Error(t, err)
	assert.Equal(t, "src/..", errors.GetErrorDetails(err)["path"])
}

func TestMarshalRoundTrip(t *testing.T) {
	root := tree.New()
	src, _ := root.AddDir("src")
	require.NoError(t, src.AddFile("main.go", "package main\n\nfunc main() {}\n"))
	require.NoError(t, src.AddFile("no-newline.txt", "line one\nline two"))
	require.NoError(t, src.AddFile("quoted.txt", "true"))
	require.NoError(t, src.AddFile("123", "  leading spaces\nand more"))
	_, _ = root.AddDir("empty")
	require.NoError(t, root.AddFile("blank.txt", ""))

	doc := tree.NewDocument(root)
	doc.Metadata = tree.Metadata{
		Created:           "2024-01-01T00:00:00Z",
		Updated:           "2024-01-02T00:00:00Z",
		GeneratedComments: []string{"Snapshot generated from folder: src", "img.png detected as binary"},
		Notes:             []string{"hello"},
		Stats:             &tree.Stats{Files: 5, Directories: 2},
		Blacklist:         []string{"*.log", "target/"},
	}

	out, err := doc.Marshal()
	require.NoError(t, err)

	back, err := tree.ParseDocument(out)
	require.NoError(t, err, string(out))
	assert.True(t, back.Tree.Equal(root), string(out))
	assert.Equal(t, doc.Metadata, back.Metadata)
}

func TestMarshalKeyOrder(t *testing.T) {
	doc := tree.NewDocument(nil)
	doc.Metadata.Created = "c"
	doc.Metadata.Notes = []string{"n"}
	doc.Metadata.Stats = &tree.Stats{}

	out, err := doc.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "created: c\nnotes: n\nstats:\n  files: 0\n  directories: 0\ndirectories: {}\n", string(out))
}

func TestMarshalContentRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"tab separated", "\tcol1\tcol2\n"},
		{"tab indented later lines", "func x() {\n\treturn\n}\n"},
		{"single newline", "\n"},
		{"only blank lines", "\n\n\n"},
		{"leading newlines", "\n\nlead-nl"},
		{"leading space", " indented\nnext\n"},
		{"whitespace only", "  \n\t\n"},
		{"trailing blank lines", "body\n\n\n"},
		{"no final newline", "a\nb"},
		{"trailing spaces on a line", "a  \nb\n"},
		{"carriage returns", "a\r\nb\r\n"},
		{"plain multi-line", "# Title\n\nText.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tree.New()
			require.NoError(t, root.AddFile("data.txt", tt.content))

			out, err := tree.NewDocument(root).Marshal()
			require.NoError(t, err)

			back, err := tree.ParseDocument(out)
			require.NoError(t, err, string(out))
			entry, ok := back.Tree.Get("data.txt")
			require.True(t, ok)
			assert.Equal(t, tt.content, entry.Content, string(out))
		})
	}
}

func TestMarshalUsesLiteralBlockForPlainText(t *testing.T) {
	root := tree.New()
	require.NoError(t, root.AddFile("a.txt", "one\ntwo\n"))

	out, err := tree.NewDocument(root).Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "a.txt: |\n")
}
