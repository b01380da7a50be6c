//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // FPPM_HOME, user settings
	RemoteDir  string // git repositories standing in for package remotes
	ProjectDir string // the consumer F' project
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so fppm never reads the real user settings. Tests skip without git.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	env := &testEnv{
		HomeDir:    t.TempDir(),
		RemoteDir:  t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("FPPM_HOME", env.HomeDir)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("HOME", env.HomeDir)
	return env
}

const widgetConfigV1 = `# @! output = Config/
# @! begin config description
# Telemetry rate for the widget component.
# @! end config description
constant WIDGET_RATE = {{ cookiecutter.rate }}
`

const widgetConfigV2 = `# @! output = Config/
constant WIDGET_RATE = {{ cookiecutter.rate }}
constant WIDGET_QUEUE = {{ cookiecutter.queue }}
`

// setupWidgetRepo creates a package repository tagged v1.0.0 and v1.1.0 and
// returns its path, usable as a git URL.
func setupWidgetRepo(t *testing.T, remoteDir string) string {
	t.Helper()

	repo := filepath.Join(remoteDir, "widget")
	writeFile(t, filepath.Join(repo, "package.yaml"), `name: widget
namespace: acme
description: Example widget
version: v1.0.0
config_objects:
  - ./config/WidgetCfg.fpp
`)
	writeFile(t, filepath.Join(repo, "config", "WidgetCfg.fpp"), widgetConfigV1)

	runGit(t, repo, "init", "--quiet")
	runGit(t, repo, "add", ".")
	runGit(t, repo, "commit", "--quiet", "-m", "widget v1.0.0")
	runGit(t, repo, "tag", "v1.0.0")

	writeFile(t, filepath.Join(repo, "config", "WidgetCfg.fpp"), widgetConfigV2)
	runGit(t, repo, "commit", "--quiet", "-am", "widget v1.1.0")
	runGit(t, repo, "tag", "v1.1.0")
	return repo
}

// writeRegistry writes a registry document publishing acme/widget from gitURL.
func writeRegistry(t *testing.T, path, gitURL string) {
	t.Helper()
	writeFile(t, path, `name: local
description: Local test registry
publisher: integration
updated-on: 2024-06-01
namespaces:
  acme:
    - widget:
        git: `+gitURL+`
        stable: v1.0.0
`)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	full := append([]string{"-c", "user.name=fppm", "-c", "user.email=fppm@example.com", "-c", "commit.gpgsign=false"}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("expected directory to exist: %s", path)
		return
	}
	if err == nil && !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s to not exist", path)
	}
}
