package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "better.log")
	require.NoError(t, os.WriteFile(path, []byte("2024-01-01 00:00:00.000 start\n"), 0644))

	info, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, int64(30), info.Size)
	assert.Len(t, info.Fingerprint, 8)
	assert.NotZero(t, info.Inode)

	again, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.True(t, info.Same(again))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("more\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	changed, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.False(t, info.Same(changed))
	assert.NotEqual(t, info.Fingerprint, changed.Fingerprint)
}

func TestGetFileInfo_TailChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.log")
	body := strings.Repeat("x", 3*fingerprintChunk)
	require.NoError(t, os.WriteFile(path, []byte(body+"a"), 0644))
	first, err := GetFileInfo(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(body+"b"), 0644))
	second, err := GetFileInfo(path)
	require.NoError(t, err)

	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
}

func TestGetFileInfo_Missing(t *testing.T) {
	_, err := GetFileInfo(filepath.Join(t.TempDir(), "nope.log"))
	assert.Error(t, err)
}

func TestFileInfo_SameNil(t *testing.T) {
	var fi *FileInfo
	assert.False(t, fi.Same(&FileInfo{}))
}
