// Package doctor checks that a project and the tools fppm shells out to are
// usable, printing one status line per check.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/fprime-community/fprime-fppm/internal/hook"
	"github.com/fprime-community/fprime-fppm/internal/manifest"
	"github.com/fprime-community/fprime-fppm/internal/registry"
)

// RegistryValidator loads registries and reports on each.
type RegistryValidator interface {
	Validate(ctx context.Context, registries []string) []registry.Report
}

// Locator finds installed package directories.
type Locator interface {
	Locate(shortname string) ([]string, error)
}

// Env is what the checks inspect.
type Env struct {
	ProjectFile     string
	GitBinary       string
	HookInterpreter string
	Registries      RegistryValidator
	Packages        Locator
}

// Run performs every check and returns the number of failures. Missing
// optional tools are reported without counting as failures.
func Run(ctx context.Context, w io.Writer, env Env) int {
	failures := 0

	fmt.Fprintln(w, "Tools:")
	failures += checkGit(w, env.GitBinary)
	checkHookInterpreter(w, env.HookInterpreter)

	fmt.Fprintln(w, "Project:")
	project, n := checkProject(w, env.ProjectFile)
	failures += n
	if project == nil {
		return failures
	}

	if len(project.Registries) == 0 {
		fmt.Fprintln(w, "  [WARN] no registries listed")
	} else if env.Registries != nil {
		for _, rep := range env.Registries.Validate(ctx, project.Registries) {
			if rep.Valid() {
				fmt.Fprintf(w, "  [ OK ] registry %s\n", rep.Registry)
				continue
			}
			fmt.Fprintf(w, "  [FAIL] registry %s: %v\n", rep.Registry, rep.Err)
			failures++
		}
	}

	if env.Packages != nil {
		for _, ref := range project.Packages {
			dirs, err := env.Packages.Locate(ref.Name)
			switch {
			case err != nil:
				fmt.Fprintf(w, "  [FAIL] package %s: %v\n", ref.Name, err)
				failures++
			case len(dirs) == 0:
				fmt.Fprintf(w, "  [MISS] package %s@%s is not installed\n", ref.Name, ref.Version)
				failures++
			default:
				fmt.Fprintf(w, "  [ OK ] package %s@%s\n", ref.Name, ref.Version)
			}
		}
	}
	return failures
}

func checkGit(w io.Writer, binary string) int {
	if binary == "" {
		binary = "git"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found on PATH; install requires it\n", binary)
		return 1
	}
	fmt.Fprintf(w, "  [ OK ] git at %s\n", path)
	return 0
}

func checkHookInterpreter(w io.Writer, line string) {
	c, err := hook.Parse(line)
	if err != nil {
		fmt.Fprintf(w, "  [WARN] no hook interpreter: %v\n", err)
		fmt.Fprintln(w, "         Packages with pre/post hooks cannot be applied")
		return
	}
	fmt.Fprintf(w, "  [ OK ] hook interpreter %v\n", c.Interpreter)
}

func checkProject(w io.Writer, file string) (*manifest.Project, int) {
	if _, err := os.Stat(file); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", file)
		fmt.Fprintln(w, "         Run 'fppm init' to create")
		return nil, 1
	}

	res, err := manifest.ValidateFile(manifest.KindProject, file)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", file, err)
		return nil, 1
	}
	if !res.Valid {
		fmt.Fprintf(w, "  [FAIL] %s: %s\n", file, res.String())
		return nil, 1
	}

	project, err := manifest.LoadProject(file)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", file, err)
		return nil, 1
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", file)
	return project, 0
}
