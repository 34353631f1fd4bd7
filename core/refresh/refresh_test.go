package refresh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainguard-dev/doc-suggester/core/storage"
)

func TestFindFallsBackToPath(t *testing.T) {
	r := NewRunner(storage.NewLayout(t.TempDir()))
	r.lookPath = func(name string) (string, error) {
		return "/usr/local/bin/" + name, nil
	}

	path, err := r.find("scraper")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/scraper", path)
}

func TestFindMissingBinary(t *testing.T) {
	r := NewRunner(storage.NewLayout(t.TempDir()))
	r.lookPath = func(string) (string, error) {
		return "", errors.New("not found")
	}

	_, err := r.find("llgen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llgen")
}

func TestBlogsRunsScraper(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "scraper")
	// Records its arguments so the force flag can be asserted.
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\" > \"$(dirname \"$0\")/args.txt\"\n"), 0o755))

	r := NewRunner(storage.NewLayout(t.TempDir()))
	r.lookPath = func(string) (string, error) { return script, nil }

	require.NoError(t, r.Blogs(context.Background(), true))

	recorded, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(recorded), "-force")
}

func TestLabsPassesDirFlags(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "llgen")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\" > \"$(dirname \"$0\")/args.txt\"\n"), 0o755))

	layout := storage.NewLayout(t.TempDir())
	r := NewRunner(layout)
	r.lookPath = func(string) (string, error) { return script, nil }

	require.NoError(t, r.Labs(context.Background(), false))

	recorded, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(recorded), "--output-dir "+layout.OutputDir())
	assert.NotContains(t, string(recorded), "--force")
}

func TestRunReportsFailureOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "scraper")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho boom >&2\nexit 3\n"), 0o755))

	r := NewRunner(storage.NewLayout(t.TempDir()))
	r.lookPath = func(string) (string, error) { return script, nil }

	err := r.Blogs(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
