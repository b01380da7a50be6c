package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fprime-community/fprime-fppm/internal/fault"
	"github.com/fprime-community/fprime-fppm/internal/fillable"
	"github.com/fprime-community/fprime-fppm/internal/logging"
	"github.com/fprime-community/fprime-fppm/internal/manifest"
	"github.com/fprime-community/fprime-fppm/internal/prompt"
	"github.com/fprime-community/fprime-fppm/internal/registry"
	"github.com/fprime-community/fprime-fppm/internal/ui"
	"github.com/fprime-community/fprime-fppm/internal/vcs"
)

// DefaultPackagesDir is the packages directory relative to the project root.
const DefaultPackagesDir = ".fprime.packages"

// VersionSeparator joins a package folder and its installed version.
const VersionSeparator = "@"

// Resolver maps a shortname to a package source.
type Resolver interface {
	Resolve(ctx context.Context, shortname string, registries []string) (*registry.Match, error)
}

// Installer installs and removes packages for one project.
type Installer struct {
	// ProjectFile is the path to project.yaml; its directory is the project root.
	ProjectFile string
	// PackagesDir is relative to the project root.
	PackagesDir string

	Resolver Resolver
	VCS      vcs.Client
	Asker    prompt.Asker
	UI       *ui.Printer
	Logger   *zap.Logger
}

// Result describes a completed install.
type Result struct {
	Dir     string
	Ref     vcs.Ref
	Match   *registry.Match
	Switch  bool // an existing install changed version
	Updated bool // project.yaml already listed the package
}

// Root returns the project root.
func (in *Installer) Root() string {
	return filepath.Dir(in.ProjectFile)
}

// PackagesRoot returns the absolute packages directory.
func (in *Installer) PackagesRoot() string {
	dir := in.PackagesDir
	if dir == "" {
		dir = DefaultPackagesDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(in.Root(), dir)
}

// Locate returns the installed directories of shortname, sorted.
func (in *Installer) Locate(shortname string) ([]string, error) {
	folder := manifest.FolderName(shortname)
	var dirs []string
	for _, pattern := range []string{folder, folder + VersionSeparator + "*"} {
		matches, err := filepath.Glob(filepath.Join(in.PackagesRoot(), pattern))
		if err != nil {
			return nil, fmt.Errorf("checking for installed package %s: %w", shortname, err)
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				dirs = append(dirs, m)
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// PackageDir returns the single installed directory of shortname.
func (in *Installer) PackageDir(shortname string) (string, error) {
	dirs, err := in.Locate(shortname)
	if err != nil {
		return "", err
	}
	if len(dirs) == 0 {
		return "", fault.New(fault.MissingPackage, shortname, "package is not installed; run install first")
	}
	if len(dirs) > 1 {
		in.logger().Warn("several installs found, using the first", zap.String("package", shortname), zap.Strings("dirs", dirs))
	}
	return dirs[0], nil
}

// Install resolves shortname through the project's registries and places it
// at version, or at the registry's stable version when version is empty.
// An already installed package is fetched and switched to the version.
func (in *Installer) Install(ctx context.Context, shortname, version string) (*Result, error) {
	if _, err := registry.ParseShortname(shortname); err != nil {
		return nil, err
	}
	project, err := manifest.LoadProject(in.ProjectFile)
	if err != nil {
		return nil, err
	}

	in.ui().Info("Checking registries for package [%s]...", shortname)
	match, err := in.Resolver.Resolve(ctx, shortname, project.Registries)
	if err != nil {
		return nil, err
	}
	in.ui().Info("Located package in %s (published by: %s)", match.Registry, match.Publisher)

	if version == "" {
		version = match.Info.Stable
	}
	if version == "" {
		return nil, fmt.Errorf("no stable version found for package [%s]; pass --version", shortname)
	}
	ref := vcs.ParseRef(version)
	if ref.IsTag() && ref.Semver == nil {
		in.logger().Warn("tag is not a semantic version", zap.String("version", version))
	}

	if err := in.setupPackagesRoot(); err != nil {
		return nil, err
	}

	existing, err := in.Locate(shortname)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(in.PackagesRoot(), manifest.FolderName(shortname))
	if len(existing) > 0 {
		dir = existing[0]
	}
	target := filepath.Join(in.PackagesRoot(), manifest.FolderName(shortname)+VersionSeparator+version)
	if dir != target {
		if _, err := os.Stat(target); err == nil {
			return nil, fmt.Errorf("cannot rename %s: %s already exists", dir, target)
		}
	}

	res := &Result{Ref: ref, Match: match}
	if len(existing) > 0 {
		res.Switch = true
		in.ui().Info("Package [%s] already installed. Changing version...", shortname)
		if err := in.VCS.Fetch(ctx, dir); err != nil {
			return nil, err
		}
		if err := in.VCS.Checkout(ctx, dir, ref, match.Info.Branch); err != nil {
			return nil, err
		}
	} else {
		in.ui().Info("Cloning package [%s]...", shortname)
		if err := in.VCS.Clone(ctx, match.Info.Git, dir); err != nil {
			return nil, err
		}
		if err := in.VCS.Checkout(ctx, dir, ref, match.Info.Branch); err != nil {
			_ = os.RemoveAll(dir)
			return nil, err
		}
	}

	if dir != target {
		if err := os.Rename(dir, target); err != nil {
			return nil, fmt.Errorf("renaming package folder: %w", err)
		}
	}
	res.Dir = target

	res.Updated = project.SetPackage(shortname, version)
	if err := manifest.SaveProject(in.ProjectFile, project); err != nil {
		return nil, err
	}
	return res, nil
}

// Remove deletes every installed copy of shortname, prunes it from the
// packages CMakeLists.txt, offers to delete its fillables and drops it from
// project.yaml.
func (in *Installer) Remove(ctx context.Context, shortname string) error {
	if _, err := registry.ParseShortname(shortname); err != nil {
		return err
	}
	project, err := manifest.LoadProject(in.ProjectFile)
	if err != nil {
		return err
	}
	if _, ok := project.FindPackage(shortname); !ok {
		return fault.New(fault.MissingPackage, in.ProjectFile, "package [%s] is not listed in the project", shortname)
	}

	dirs, err := in.Locate(shortname)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
		in.logger().Debug("removed package directory", zap.String("dir", dir))
	}

	folder := manifest.FolderName(shortname)
	if n, err := pruneCMakeLists(filepath.Join(in.PackagesRoot(), CMakeListsFile), folder); err != nil {
		return err
	} else if n > 0 {
		in.ui().Info("Removed %d line(s) for [%s] from %s", n, shortname, CMakeListsFile)
	}

	store := fillable.NewStore(in.Root(), folder)
	if store.Exists() && in.Asker != nil {
		q := in.ui().Question("Remove the fillables directory for package [%s]?", shortname)
		answer, err := in.Asker.Ask(q, []string{"y", "n"})
		if err != nil {
			return err
		}
		if answer == "y" {
			if err := os.RemoveAll(store.Dir); err != nil {
				return fmt.Errorf("removing fillables directory: %w", err)
			}
		}
	}

	project.RemovePackage(shortname)
	return manifest.SaveProject(in.ProjectFile, project)
}

func (in *Installer) setupPackagesRoot() error {
	if err := os.MkdirAll(in.PackagesRoot(), 0755); err != nil {
		return fmt.Errorf("creating packages directory: %w", err)
	}
	rel, err := filepath.Rel(in.Root(), in.PackagesRoot())
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	if err := ignorePackagesDir(in.Root(), rel); err != nil {
		return fmt.Errorf("adding %s to .gitignore: %w", rel, err)
	}
	return nil
}

func (in *Installer) ui() *ui.Printer {
	if in.UI == nil {
		return ui.New(io.Discard)
	}
	return in.UI
}

func (in *Installer) logger() *zap.Logger {
	return logging.OrNop(in.Logger)
}
