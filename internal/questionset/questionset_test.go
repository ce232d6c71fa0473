package questionset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizrunner/internal/progress"
	"github.com/abhisek/quizrunner/internal/question"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "q1.txt"), "10\nFirst?\na\nb\n")
	writeFile(t, filepath.Join(dir, "q2.txt"), "101\nBroken?\na\nb\n")
	writeFile(t, filepath.Join(dir, "sub", "q3.txt"), "01\nThird?\na\nb\n")
	writeFile(t, filepath.Join(dir, ".hidden", "q4.txt"), "1\nHidden?\na\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")
	writeFile(t, filepath.Join(dir, "q1.png"), "")

	set, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"q1.txt", "sub/q3.txt"}, set.IDs())
	require.Len(t, set.Errors, 1)
	var mErr *question.MalformedError
	require.True(t, errors.As(set.Errors[0], &mErr))
	assert.Equal(t, filepath.Join(dir, "q2.txt"), mErr.Path)

	assert.Equal(t, filepath.Join(dir, "q1.png"), set.Questions[0].ImagePath)
	assert.Empty(t, set.Questions[1].ImagePath)
	assert.False(t, set.HasProgress)
}

func TestLoad_HasProgress(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "q1.txt"), "1\nQ\na\n")
	s := progress.New(dir)
	s.Record("q1.txt", true)
	require.NoError(t, s.Save())

	set, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, set.HasProgress)
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDiscover_OrderAndLabels(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "beta", "q.txt"), "1\nQ\na\n")
	writeFile(t, filepath.Join(base, "Alpha", "q.txt"), "1\nQ\na\n")
	writeFile(t, filepath.Join(base, "gamma", "q.txt"), "1\nQ\na\n")
	writeFile(t, filepath.Join(base, "gamma", "inner", "q.txt"), "1\nQ\na\n")
	writeFile(t, filepath.Join(base, "empty", "readme.md"), "")
	writeFile(t, filepath.Join(base, "gamma", progress.FileName), `{"q.txt": {"attempts": 1, "correct": 0}}`)
	writeFile(t, filepath.Join(base, "beta", progress.FileName), `not json`)

	entries, err := Discover(base)
	require.NoError(t, err)

	var labels []string
	for _, e := range entries {
		labels = append(labels, e.Label())
	}
	assert.Equal(t, []string{
		"[CONTINUE LEARNING] gamma",
		"Alpha",
		"beta",
		"gamma/inner",
	}, labels)
	assert.Equal(t, filepath.Join(base, "gamma"), entries[0].Dir)
}

func TestDiscover_NoSets(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "empty", "readme.md"), "")

	_, err := Discover(base)
	assert.True(t, errors.Is(err, ErrNoQuestionSets), "got %v", err)
}

func TestDiscover_MissingBase(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "zestawy"))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}
