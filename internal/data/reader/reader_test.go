package reader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "2024-01-01 00:00:00.000 first\r\n\n2024-01-01 00:00:01.000 third\n"

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func writeZstd(t *testing.T, path, content string) {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	data := enc.EncodeAll([]byte(content), nil)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "better.log")
	gz := filepath.Join(dir, "better.log.gz")
	zst := filepath.Join(dir, "better.log.zst")

	require.NoError(t, os.WriteFile(plain, []byte(sample), 0644))
	writeGzip(t, gz, sample)
	writeZstd(t, zst, sample)

	want := []string{"2024-01-01 00:00:00.000 first", "", "2024-01-01 00:00:01.000 third"}

	for _, path := range []string{plain, gz, zst} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			lines, err := ReadLines(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, want, lines)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.log"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	broken := filepath.Join(dir, "broken.gz")
	require.NoError(t, os.WriteFile(broken, []byte("not gzip"), 0644))
	_, err = Open(broken)
	assert.Error(t, err)
}

func TestLines_Numbering(t *testing.T) {
	var got []model.LogLine
	err := Lines(context.Background(), strings.NewReader("a\nb\nc"), func(l model.LogLine) error {
		got = append(got, l)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, model.LogLine{Number: 3, Text: "c"}, got[2])
}

func TestLines_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Lines(context.Background(), strings.NewReader("a\nb\nc\n"), func(model.LogLine) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestLines_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Lines(ctx, strings.NewReader("a\n"), func(model.LogLine) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLines_LongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	var got string
	err := Lines(context.Background(), strings.NewReader(long+"\n"), func(l model.LogLine) error {
		got = l.Text
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, got, len(long))
}
