// Package refresh invokes the externally-built scraper and llgen binaries
// that rebuild the blog archive and labs catalog.
package refresh

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/chainguard-dev/doc-suggester/core/storage"
)

const (
	scraperBinary = "scraper"
	llgenBinary   = "llgen"

	defaultTimeout = 15 * time.Minute
)

// Runner locates and executes the refresh binaries. Refresh failures are
// operational: callers log and proceed with stale-but-present data.
type Runner struct {
	Layout  *storage.Layout
	Timeout time.Duration

	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

func NewRunner(layout *storage.Layout) *Runner {
	return &Runner{
		Layout:   layout,
		Timeout:  defaultTimeout,
		lookPath: exec.LookPath,
	}
}

// Blogs runs the scraper to refresh the blog archive.
func (r *Runner) Blogs(ctx context.Context, force bool) error {
	var args []string
	if force {
		args = append(args, "-force")
	}
	return r.run(ctx, scraperBinary, args)
}

// Labs runs llgen to refresh the labs catalog.
func (r *Runner) Labs(ctx context.Context, force bool) error {
	args := []string{
		"--output-dir", r.Layout.OutputDir(),
		"--cache-dir", r.Layout.LLGenCacheDir(),
		"--decks-dir", r.Layout.DecksDir(),
	}
	if force {
		args = append(args, "--force")
	}
	return r.run(ctx, llgenBinary, args)
}

func (r *Runner) run(ctx context.Context, name string, args []string) error {
	bin, err := r.find(name)
	if err != nil {
		return err
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.Debug("running refresh binary", "binary", bin, "args", args)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.Layout.Root
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w (output: %s)", name, err, truncate(output.String(), 1024))
	}
	return nil
}

// find prefers a binary bundled next to the running executable, falling
// back to $PATH.
func (r *Runner) find(name string) (string, error) {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	if exe, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(exe), "bin", name)
		if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
			return bundled, nil
		}
	}

	look := r.lookPath
	if look == nil {
		look = exec.LookPath
	}
	path, err := look(name)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", name, err)
	}
	return path, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
