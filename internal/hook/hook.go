// Package hook runs the Python pre/post hooks declared by config objects.
package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Flags passed to hook scripts.
const (
	FlagFillable  = "-f"
	FlagGenerated = "-g"
)

// DefaultCandidates are probed in order when no interpreter is configured.
var DefaultCandidates = []string{"python3", "python"}

// ErrNoInterpreter is returned by Detect when no candidate is on PATH.
var ErrNoInterpreter = errors.New("no python interpreter found on PATH")

// Executor runs a hook script against a target file.
type Executor interface {
	// Run invokes script with flag and target. A nonzero exit is reported
	// through exitCode; err is set only when the script could not be run.
	Run(ctx context.Context, script, flag, target string) (stdout string, exitCode int, err error)
}

// Command runs hooks through an external interpreter.
type Command struct {
	// Interpreter is the command line prefix, e.g. ["python3", "-u"].
	Interpreter []string
}

// Parse builds a Command from a configured interpreter line such as
// "python3 -u". An empty line falls back to Detect.
func Parse(line string) (*Command, error) {
	if strings.TrimSpace(line) == "" {
		return Detect()
	}
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parsing hook interpreter %q: %w", line, err)
	}
	if len(args) == 0 {
		return Detect()
	}
	return &Command{Interpreter: args}, nil
}

// Detect probes DefaultCandidates once and returns a Command for the first
// interpreter found.
func Detect() (*Command, error) {
	for _, name := range DefaultCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return &Command{Interpreter: []string{path}}, nil
		}
	}
	return nil, ErrNoInterpreter
}

// Run implements Executor. The working directory is the script's directory.
func (c *Command) Run(ctx context.Context, script, flag, target string) (string, int, error) {
	if len(c.Interpreter) == 0 {
		return "", 0, ErrNoInterpreter
	}

	args := append(append([]string{}, c.Interpreter[1:]...), script, flag, target)
	cmd := exec.CommandContext(ctx, c.Interpreter[0], args...)
	cmd.Dir = filepath.Dir(script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		out := stdout.String()
		if s := strings.TrimSpace(stderr.String()); s != "" {
			out += s + "\n"
		}
		return out, exitErr.ExitCode(), nil
	}
	if ctx.Err() != nil {
		return stdout.String(), -1, fmt.Errorf("running hook %s: %w", script, ctx.Err())
	}
	return "", -1, fmt.Errorf("running hook %s: %w", script, err)
}
