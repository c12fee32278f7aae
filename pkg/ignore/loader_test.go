package ignore_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/ignore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/p/.ignore", []byte("# build output\n*.o\n\ntarget/\r\n"), 0644))

	patterns, err := ignore.FromFile(fsys, "/p/.ignore")
	require.NoError(t, err)
	require.Len(t, patterns, 4)
	assert.Equal(t, ignore.OriginFile, patterns[1].Origin)
	assert.Equal(t, 2, patterns[1].Line)
	assert.Equal(t, "/p/.ignore", patterns[1].Source)

	rs, err := ignore.Compile(patterns, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.o", "target/"}, rs.Patterns())
}

func TestFromFileLongLines(t *testing.T) {
	long := "long-" + strings.Repeat("x", 70*1024)
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/p/.ignore", []byte("*.tmp\n"+long+"\n*.log"), 0644))

	patterns, err := ignore.FromFile(fsys, "/p/.ignore")
	require.NoError(t, err)
	require.Len(t, patterns, 3)
	assert.Equal(t, 3, patterns[2].Line)

	rs, err := ignore.Compile(patterns, nil)
	require.NoError(t, err)
	assert.True(t, rs.Match("skip.log", false))
	assert.True(t, rs.Match(long, false))
}

func TestFromFileMissing(t *testing.T) {
	_, err := ignore.FromFile(afero.NewMemMapFs(), "/nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestCollect(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "patterns.txt", []byte("*.bak\n[bad\n"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "extra.ignore", []byte("dist/\n"), 0644))

	patterns, err := ignore.Collect(fsys, []string{"*.log", "patterns.txt"}, []string{"extra.ignore"})
	require.NoError(t, err)
	require.Len(t, patterns, 4)

	assert.Equal(t, ignore.Pattern{Text: "*.log", Origin: ignore.OriginDirect}, patterns[0])
	assert.Equal(t, ignore.OriginFile, patterns[1].Origin)
	assert.Equal(t, "*.bak", patterns[1].Text)
	assert.Equal(t, "[bad", patterns[2].Text)
	assert.Equal(t, "dist/", patterns[3].Text)

	var warned []string
	rs, err := ignore.Compile(patterns, func(w ignore.Warning) { warned = append(warned, w.Pattern.Text) })
	require.NoError(t, err)
	assert.Equal(t, []string{"[bad"}, warned)
	assert.Equal(t, []string{"*.log", "*.bak", "dist/"}, rs.Patterns())
}

func TestCollectMissingIgnoreFile(t *testing.T) {
	_, err := ignore.Collect(afero.NewMemMapFs(), nil, []string{"missing.ignore"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}
