package ignore_test

import (
	"testing"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/ignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		want     bool
	}{
		{"extension at root", []string{"*.log"}, "debug.log", false, true},
		{"extension nested", []string{"*.log"}, "a/b/debug.log", false, true},
		{"extension no match", []string{"*.log"}, "debug.txt", false, false},
		{"star does not cross slash", []string{"docs/*.md"}, "docs/a/b.md", false, false},
		{"anchored match", []string{"docs/*.md"}, "docs/b.md", false, true},
		{"anchored not at depth", []string{"docs/*.md"}, "x/docs/b.md", false, false},
		{"leading slash anchors", []string{"/build"}, "build", true, true},
		{"leading slash not nested", []string{"/build"}, "src/build", true, false},
		{"bare name any depth", []string{"build"}, "src/build", true, true},
		{"dir only matches dir", []string{"target/"}, "target", true, true},
		{"dir only skips file", []string{"target/"}, "target", false, false},
		{"double star prefix root", []string{"**/cache"}, "cache", true, true},
		{"double star prefix nested", []string{"**/cache"}, "a/b/cache", true, true},
		{"double star middle zero dirs", []string{"a/**/b"}, "a/b", false, true},
		{"double star middle many dirs", []string{"a/**/b"}, "a/x/y/b", false, true},
		{"double star suffix", []string{"logs/**"}, "logs/2024/jan.txt", false, true},
		{"double star suffix not dir itself", []string{"logs/**"}, "logs", true, false},
		{"question mark", []string{"file?.txt"}, "file1.txt", false, true},
		{"char class", []string{"file[0-9].txt"}, "file7.txt", false, true},
		{"negation re-includes", []string{"*.log", "!keep.log"}, "keep.log", false, false},
		{"negation order matters", []string{"!keep.log", "*.log"}, "keep.log", false, true},
		{"comment ignored", []string{"# *.log"}, "a.log", false, false},
		{"escaped hash", []string{`\#notes`}, "#notes", false, true},
		{"escaped bang", []string{`\!important`}, "!important", false, true},
		{"trailing spaces trimmed", []string{"*.tmp   "}, "x.tmp", false, true},
		{"root never matches", []string{"*"}, "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := ignore.MustCompile(tt.patterns...)
			assert.Equal(t, tt.want, rs.Match(tt.path, tt.isDir))
		})
	}
}

func TestNilRuleSetMatchesNothing(t *testing.T) {
	var rs *ignore.RuleSet
	assert.False(t, rs.Match("anything", false))
	assert.False(t, rs.MatchesPathOrParents("a/b", false))
	assert.Empty(t, rs.Patterns())
	assert.Equal(t, 0, rs.Len())
}

func TestMatchesPathOrParents(t *testing.T) {
	rs := ignore.MustCompile("node_modules/", "!node_modules/keep.js")

	assert.True(t, rs.MatchesPathOrParents("node_modules", true))
	assert.True(t, rs.MatchesPathOrParents("node_modules/keep.js", false))
	assert.True(t, rs.MatchesPathOrParents("web/node_modules/lib/x.js", false))
	assert.False(t, rs.MatchesPathOrParents("web/src/x.js", false))
}

func TestCompileDirectPatternIsFatal(t *testing.T) {
	_, err := ignore.Compile(ignore.Direct("*.log", "[unclosed"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))
	assert.True(t, errors.IsCategory(err, errors.CategoryPattern))
	assert.Equal(t, "[unclosed", errors.GetErrorDetails(err)["pattern"])
}

func TestCompileFilePatternIsWarning(t *testing.T) {
	patterns := []ignore.Pattern{
		{Text: "*.log", Origin: ignore.OriginFile, Source: ".skeletorignore", Line: 1},
		{Text: "[unclosed", Origin: ignore.OriginFile, Source: ".skeletorignore", Line: 2},
		{Text: "tmp/", Origin: ignore.OriginFile, Source: ".skeletorignore", Line: 3},
	}

	var warnings []ignore.Warning
	rs, err := ignore.Compile(patterns, func(w ignore.Warning) {
		warnings = append(warnings, w)
	})
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Pattern.Line)
	assert.True(t, errors.IsErrorCode(warnings[0].Err, errors.ErrPatternInvalid))

	assert.Equal(t, []string{"*.log", "tmp/"}, rs.Patterns())
	assert.True(t, rs.Match("x.log", false))
}

func TestCompileEmptyAfterStripping(t *testing.T) {
	_, err := ignore.Compile(ignore.Direct("/"), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))
}

func TestCompileSkipsBlankAndComments(t *testing.T) {
	rs, err := ignore.Compile(ignore.Direct("", "   ", "# comment", "*.o"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
}

func TestMerge(t *testing.T) {
	a := ignore.MustCompile("*.log")
	b := ignore.MustCompile("!keep.log")
	merged := a.Merge(b)

	assert.Equal(t, []string{"*.log", "!keep.log"}, merged.Patterns())
	assert.False(t, merged.Match("keep.log", false))
	assert.True(t, merged.Match("other.log", false))
}
