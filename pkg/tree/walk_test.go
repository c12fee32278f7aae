package tree_test

import (
	"errors"
	"testing"

	"github.com/arthur-debert/skeletor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample builds:
//
//	src/
//	  index.js
//	  components/
//	    Header.js
//	README.md
func sample(t *testing.T) *tree.ConfigTree {
	t.Helper()
	root := tree.New()
	src, err := root.AddDir("src")
	require.NoError(t, err)
	require.NoError(t, src.AddFile("index.js", "console.log('hi')"))
	comps, err := src.AddDir("components")
	require.NoError(t, err)
	require.NoError(t, comps.AddFile("Header.js", "export {}"))
	require.NoError(t, root.AddFile("README.md", "# hi"))
	return root
}

func collect(t *testing.T, walk func(tree.WalkFunc) error) []string {
	t.Helper()
	var got []string
	require.NoError(t, walk(func(rel string, _ *tree.Entry) error {
		got = append(got, rel)
		return nil
	}))
	return got
}

func TestWalkDepthFirst(t *testing.T) {
	root := sample(t)
	got := collect(t, root.WalkDepthFirst)
	assert.Equal(t, []string{
		"src",
		"src/index.js",
		"src/components",
		"src/components/Header.js",
		"README.md",
	}, got)
}

func TestWalkBreadthFirst(t *testing.T) {
	root := sample(t)
	got := collect(t, root.WalkBreadthFirst)
	assert.Equal(t, []string{
		"src",
		"README.md",
		"src/index.js",
		"src/components",
		"src/components/Header.js",
	}, got)
}

func TestWalkSkipDir(t *testing.T) {
	root := sample(t)
	for name, walk := range map[string]func(tree.WalkFunc) error{
		"dfs": root.WalkDepthFirst,
		"bfs": root.WalkBreadthFirst,
	} {
		t.Run(name, func(t *testing.T) {
			var got []string
			err := walk(func(rel string, e *tree.Entry) error {
				got = append(got, rel)
				if rel == "src" {
					return tree.SkipDir
				}
				return nil
			})
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"src", "README.md"}, got)
		})
	}
}

func TestWalkStopsOnError(t *testing.T) {
	root := sample(t)
	stop := errors.New("stop")
	count := 0
	err := root.WalkDepthFirst(func(string, *tree.Entry) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, count)
}
