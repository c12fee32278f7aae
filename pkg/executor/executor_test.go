package executor

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/reporter"
	"github.com/arthur-debert/skeletor/pkg/tasks"
	"github.com/arthur-debert/skeletor/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []tasks.Task {
	return []tasks.Task{
		{Kind: tasks.CreateDir, Path: "src"},
		{Kind: tasks.CreateFile, Path: "README.md", Content: "# Hello\n"},
		{Kind: tasks.CreateFile, Path: "src/index.js", Content: "console.log('hi')"},
		{Kind: tasks.CreateDir, Path: "src/components"},
		{Kind: tasks.CreateFile, Path: "src/components/Header.js", Content: ""},
	}
}

func outcomesOf(r *types.CreationResult) []types.Outcome {
	out := make([]types.Outcome, len(r.Outcomes))
	for i, o := range r.Outcomes {
		out[i] = o.Outcome
	}
	return out
}

func newRooted(t *testing.T, root string, opts Options, rep reporter.Reporter) *Executor {
	t.Helper()
	e, err := NewForRoot(root, opts, rep)
	require.NoError(t, err)
	return e
}

func TestExecute_CreatesTree(t *testing.T) {
	root := t.TempDir()
	res, err := newRooted(t, root, Options{}, nil).Execute(context.Background(), sampleTasks())
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.Equal(t, 5, res.TasksTotal)
	assert.Equal(t, 2, res.DirsCreated)
	assert.Equal(t, 3, res.FilesCreated)
	assert.Zero(t, res.FilesSkipped)

	data, err := os.ReadFile(filepath.Join(root, "src", "index.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log('hi')", string(data))

	info, err := os.Stat(filepath.Join(root, "src", "components", "Header.js"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestExecute_SecondRunSkips(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	_, err := newRooted(t, root, Options{}, nil).Execute(ctx, sampleTasks())
	require.NoError(t, err)

	res, err := newRooted(t, root, Options{}, nil).Execute(ctx, sampleTasks())
	require.NoError(t, err)

	assert.Zero(t, res.DirsCreated)
	assert.Zero(t, res.FilesCreated)
	assert.Equal(t, 2, res.DirsExisting)
	assert.Equal(t, 3, res.FilesSkipped)
	assert.Equal(t, []string{"README.md", "src/index.js", "src/components/Header.js"}, res.SkippedFiles)
	assert.Empty(t, res.Failures)
}

func TestExecute_Overwrite(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("old"), 0644))

	ts := []tasks.Task{{Kind: tasks.CreateFile, Path: "README.md", Content: "new"}}

	res, err := newRooted(t, root, Options{}, nil).Execute(context.Background(), ts)
	require.NoError(t, err)
	assert.Equal(t, []types.Outcome{types.OutcomeSkipped}, outcomesOf(res))
	data, _ := os.ReadFile(filepath.Join(root, "README.md"))
	assert.Equal(t, "old", string(data))

	res, err = newRooted(t, root, Options{Overwrite: true}, nil).Execute(context.Background(), ts)
	require.NoError(t, err)
	assert.Equal(t, []types.Outcome{types.OutcomeOverwritten}, outcomesOf(res))
	assert.Equal(t, []string{"README.md"}, res.OverwrittenFiles)
	data, _ = os.ReadFile(filepath.Join(root, "README.md"))
	assert.Equal(t, "new", string(data))
}

func TestExecute_DryRunParity(t *testing.T) {
	tests := []struct {
		name      string
		overwrite bool
		seed      func(t *testing.T, root string)
	}{
		{name: "empty target"},
		{
			name: "partially populated",
			seed: func(t *testing.T, root string) {
				require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0644))
			},
		},
		{
			name:      "overwrite with conflict",
			overwrite: true,
			seed: func(t *testing.T, root string) {
				require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "index.js"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0644))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.seed != nil {
				tt.seed(t, root)
			}
			ctx := context.Background()

			dry, err := newRooted(t, root, Options{DryRun: true, Overwrite: tt.overwrite}, nil).Execute(ctx, sampleTasks())
			require.NoError(t, err)
			assert.True(t, dry.DryRun)

			applied, err := newRooted(t, root, Options{Overwrite: tt.overwrite}, nil).Execute(ctx, sampleTasks())
			require.NoError(t, err)

			assert.Equal(t, outcomesOf(applied), outcomesOf(dry))
			assert.Equal(t, applied.FilesCreated, dry.FilesCreated)
			assert.Equal(t, applied.DirsCreated, dry.DirsCreated)
			assert.Equal(t, len(applied.Failures), len(dry.Failures))
		})
	}
}

func TestExecute_DryRunDoesNotMutate(t *testing.T) {
	root := t.TempDir()
	_, err := newRooted(t, root, Options{DryRun: true}, nil).Execute(context.Background(), sampleTasks())
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExecute_ConflictContinues(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "src"), []byte("not a dir"), 0644))

	res, err := newRooted(t, root, Options{}, nil).Execute(context.Background(), sampleTasks())
	require.NoError(t, err)

	require.NotEmpty(t, res.Failures)
	assert.Equal(t, "src", res.Failures[0].Path)
	assert.True(t, errors.IsErrorCode(res.Failures[0].Err, errors.ErrPathConflict))
	assert.Equal(t, types.OutcomeCreated, res.Outcomes[1].Outcome, "README.md is still written")
	assert.Error(t, res.Err())
}

func TestExecute_InvalidPathRejectsAll(t *testing.T) {
	root := t.TempDir()
	ts := []tasks.Task{
		{Kind: tasks.CreateDir, Path: "ok"},
		{Kind: tasks.CreateFile, Path: "../escape"},
	}
	res, err := newRooted(t, root, Options{}, nil).Execute(context.Background(), ts)
	assert.Nil(t, res)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))

	_, statErr := os.Stat(filepath.Join(root, "ok"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewForRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewForRoot(filepath.Join(root, "missing"), Options{}, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDirNotFound))
	assert.True(t, errors.IsCategory(err, errors.CategoryIO))

	_, err = NewForRoot(file, Options{}, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotADirectory))
}

// failingFS is the synthfs test filesystem with writes that fail on demand.
type failingFS struct {
	*filesystem.TestFileSystem
	failWrite map[string]bool
}

func newTestFS() *failingFS {
	return &failingFS{TestFileSystem: filesystem.NewTestFileSystem(), failWrite: map[string]bool{}}
}

func (f *failingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if f.failWrite[name] {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrPermission}
	}
	return f.TestFileSystem.WriteFile(name, data, perm)
}

func TestExecute_WriteFailureIsRecorded(t *testing.T) {
	tfs := newTestFS()
	tfs.failWrite["README.md"] = true
	rec := &reporter.Recorder{}

	res, err := New(tfs, Options{}, rec).Execute(context.Background(), sampleTasks())
	require.NoError(t, err)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "README.md", res.Failures[0].Path)
	assert.True(t, errors.IsErrorCode(res.Failures[0].Err, errors.ErrPermission))
	assert.Equal(t, 2, res.FilesCreated)
	assert.Contains(t, tfs.MapFS, "src/components/Header.js")
	assert.NotContains(t, tfs.MapFS, "README.md")

	var failed int
	for _, ev := range rec.Named("task") {
		if ev.Outcome.Outcome == types.OutcomeFailed {
			failed++
			assert.Error(t, ev.Err)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestExecute_EnsuresParents(t *testing.T) {
	tfs := newTestFS()
	ts := []tasks.Task{{Kind: tasks.CreateFile, Path: "deep/nested/file.txt", Content: "x"}}

	res, err := New(tfs, Options{}, nil).Execute(context.Background(), ts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesCreated)
	info, err := tfs.Stat("deep/nested")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, []byte("x"), tfs.MapFS["deep/nested/file.txt"].Data)
}

func TestExecute_Progress(t *testing.T) {
	var ts []tasks.Task
	for i := 0; i < 5; i++ {
		ts = append(ts, tasks.Task{Kind: tasks.CreateDir, Path: string(rune('a' + i))})
	}
	rec := &reporter.Recorder{}

	_, err := New(newTestFS(), Options{ProgressEvery: 2}, rec).Execute(context.Background(), ts)
	require.NoError(t, err)

	var seen []int
	for _, ev := range rec.Named("progress") {
		seen = append(seen, ev.Current)
		assert.Equal(t, 5, ev.Total)
	}
	assert.Equal(t, []int{2, 4, 5}, seen)
}

func TestExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(newTestFS(), Options{}, nil).Execute(ctx, sampleTasks())
	assert.True(t, stderrors.Is(err, context.Canceled))
	require.NotNil(t, res)
	assert.Empty(t, res.Outcomes)
}

func TestExecute_Empty(t *testing.T) {
	rec := &reporter.Recorder{}
	res, err := New(newTestFS(), Options{}, rec).Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.TasksTotal)
	assert.Empty(t, rec.Named("progress"))
}
