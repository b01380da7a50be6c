package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	full := append([]string{"-c", "user.name=fppm", "-c", "user.email=fppm@example.com", "-c", "commit.gpgsign=false", "-c", "tag.gpgsign=false"}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// upstream creates a repository with two commits; the first is tagged v1.0.0.
func upstream(t *testing.T) (dir, firstCommit string) {
	t.Helper()
	dir = t.TempDir()
	git(t, dir, "init", "-q")
	if err := os.WriteFile(filepath.Join(dir, "package.yaml"), []byte("version: v1.0.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-q", "-m", "first")
	git(t, dir, "tag", "v1.0.0")
	firstCommit = git(t, dir, "rev-parse", "HEAD")

	if err := os.WriteFile(filepath.Join(dir, "package.yaml"), []byte("version: v2.0.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	git(t, dir, "commit", "-q", "-am", "second")
	return dir, firstCommit
}

func TestCloneAndCheckoutTag(t *testing.T) {
	requireGit(t)
	src, _ := upstream(t)
	dst := filepath.Join(t.TempDir(), "acme.widget")

	g := Git{}
	if err := g.Clone(context.Background(), src, dst); err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if err := g.Checkout(context.Background(), dst, ParseRef("v1.0.0"), "main"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "package.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "version: v1.0.0\n" {
		t.Errorf("checked out content = %q", data)
	}
	if branch := git(t, dst, "rev-parse", "--abbrev-ref", "HEAD"); branch != "main-v1.0.0" {
		t.Errorf("branch = %q, want main-v1.0.0", branch)
	}

	// Checking the same tag out again resets the existing local branch.
	if err := g.Fetch(context.Background(), dst); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if err := g.Checkout(context.Background(), dst, ParseRef("v1.0.0"), "main"); err != nil {
		t.Fatalf("second Checkout: %v", err)
	}
}

func TestCheckoutCommit(t *testing.T) {
	requireGit(t)
	src, first := upstream(t)
	dst := filepath.Join(t.TempDir(), "pkg")

	g := Git{}
	if err := g.Clone(context.Background(), src, dst); err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if err := g.Checkout(context.Background(), dst, ParseRef(first), ""); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if head := git(t, dst, "rev-parse", "HEAD"); head != first {
		t.Errorf("HEAD = %s, want %s", head, first)
	}
}

func TestCloneFailureCleansUp(t *testing.T) {
	requireGit(t)
	dst := filepath.Join(t.TempDir(), "pkg")

	err := Git{}.Clone(context.Background(), filepath.Join(t.TempDir(), "no-such-repo"), dst)
	if err == nil {
		t.Fatal("expected clone error")
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Error("partial clone left behind")
	}
}

func TestMissingBinary(t *testing.T) {
	err := Git{Binary: "/nonexistent/git"}.Fetch(context.Background(), t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v", err)
	}
}
