package reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/penwyp/go-task-gantt/internal/core/model"
	"github.com/penwyp/go-task-gantt/internal/util"
)

const (
	initialBuffer = 64 * 1024
	maxLineSize   = 10 * 1024 * 1024
)

type compressedReader struct {
	io.Reader
	closers []func() error
}

func (c *compressedReader) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open opens a log file. Files ending in .gz or .zst are decompressed on the fly.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		util.LogDebugf("Reading %s as gzip", path)
		return &compressedReader{Reader: gz, closers: []func() error{gz.Close, file.Close}}, nil
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", path, err)
		}
		util.LogDebugf("Reading %s as zstd", path)
		return &compressedReader{
			Reader: dec,
			closers: []func() error{
				func() error { dec.Close(); return nil },
				file.Close,
			},
		}, nil
	default:
		return file, nil
	}
}

// Lines calls fn for every line of r, numbered from 1, in order. It stops at the first error
// from fn or when ctx is cancelled.
func Lines(ctx context.Context, r io.Reader, fn func(model.LogLine) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialBuffer), maxLineSize)

	number := 0
	for scanner.Scan() {
		number++
		if number%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if err := fn(model.LogLine{Number: number, Text: text}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error scanning line %d: %w", number+1, err)
	}
	return ctx.Err()
}

// ReadLines reads a whole file into memory, one string per line.
func ReadLines(ctx context.Context, path string) ([]string, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var lines []string
	err = Lines(ctx, rc, func(line model.LogLine) error {
		lines = append(lines, line.Text)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}
