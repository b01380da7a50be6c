package vcs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Client performs the version-control operations install needs.
type Client interface {
	Clone(ctx context.Context, url, dir string) error
	Fetch(ctx context.Context, dir string) error
	Checkout(ctx context.Context, dir string, ref Ref, branch string) error
}

// Git shells out to the git binary.
type Git struct {
	// Binary overrides the git executable; empty means "git" from PATH.
	Binary string
}

// Clone clones url into dir. A partial clone is removed on failure.
func (g Git) Clone(ctx context.Context, url, dir string) error {
	if err := g.ensure(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	if err := g.run(ctx, "", "clone", url, dir); err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}

// Fetch updates the remote refs of the repository in dir.
func (g Git) Fetch(ctx context.Context, dir string) error {
	if err := g.ensure(); err != nil {
		return err
	}
	if err := g.run(ctx, dir, "fetch", "--tags"); err != nil {
		return fmt.Errorf("fetching in %s: %w", dir, err)
	}
	return nil
}

// Checkout switches dir to ref. Tags are checked out onto a local branch
// named "<branch>-<tag>", reset if it already exists.
func (g Git) Checkout(ctx context.Context, dir string, ref Ref, branch string) error {
	if err := g.ensure(); err != nil {
		return err
	}

	args := []string{"checkout", ref.Value}
	if ref.IsTag() {
		if branch == "" {
			branch = "fppm"
		}
		args = []string{"checkout", "tags/" + ref.Value, "-B", branch + "-" + ref.Value}
	}
	if err := g.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("checking out %s: %w", ref.Describe(), err)
	}
	return nil
}

func (g Git) binary() string {
	if g.Binary != "" {
		return g.Binary
	}
	return "git"
}

func (g Git) run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, g.binary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w\n%s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ensure checks that git is available on PATH.
func (g Git) ensure() error {
	if _, err := exec.LookPath(g.binary()); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
