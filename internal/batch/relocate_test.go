package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelocate_MovesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "part-0001.orc")
	doneDir := filepath.Join(dir, "done")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	require.NoError(t, os.Mkdir(doneDir, 0o755))

	require.NoError(t, relocate(src, doneDir, "part-0001.orc"))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be gone")
	data, err := os.ReadFile(filepath.Join(doneDir, "part-0001.orc"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestRelocate_MissingDoneDirLeavesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "part-0001.orc")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	err := relocate(src, filepath.Join(dir, "absent"), "part-0001.orc")
	require.Error(t, err)

	_, statErr := os.Stat(src)
	assert.NoError(t, statErr, "source must stay in place on failure")
}

func TestCopyThenDelete(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	dest := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(src, []byte("contents"), 0o644))

	require.NoError(t, copyThenDelete(src, dest))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "contents", string(data))
}

func TestCopyThenDelete_NoPartialOnFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(src, []byte("contents"), 0o644))

	dest := filepath.Join(dir, "nosuchdir", "b")
	require.Error(t, copyThenDelete(src, dest))

	_, err := os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(src)
	assert.NoError(t, err)
}
