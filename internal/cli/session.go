package cli

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fprime-community/fprime-fppm/internal/applier"
	"github.com/fprime-community/fprime-fppm/internal/config"
	"github.com/fprime-community/fprime-fppm/internal/hook"
	"github.com/fprime-community/fprime-fppm/internal/installer"
	"github.com/fprime-community/fprime-fppm/internal/logging"
	"github.com/fprime-community/fprime-fppm/internal/manifest"
	"github.com/fprime-community/fprime-fppm/internal/prompt"
	"github.com/fprime-community/fprime-fppm/internal/registry"
	"github.com/fprime-community/fprime-fppm/internal/render"
	"github.com/fprime-community/fprime-fppm/internal/ui"
	"github.com/fprime-community/fprime-fppm/internal/vcs"
)

// session wires the collaborators one command invocation needs.
type session struct {
	ui    *ui.Printer
	log   *zap.Logger
	asker prompt.Asker
}

func newSession(cmd *cobra.Command) *session {
	return &session{
		ui:    ui.New(cmd.OutOrStdout()),
		log:   logging.New(cmd.ErrOrStderr(), verbose),
		asker: prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()),
	}
}

// projectFile returns the absolute path of project.yaml.
func (s *session) projectFile() (string, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("resolving project file %s: %w", projectPath, err)
	}
	return abs, nil
}

func (s *session) project() (string, *manifest.Project, error) {
	file, err := s.projectFile()
	if err != nil {
		return "", nil, err
	}
	s.ui.Info("Opening project.yaml file at %s", file)
	p, err := manifest.LoadProject(file)
	if err != nil {
		return "", nil, err
	}
	return file, p, nil
}

func (s *session) resolver(projectFile string) *registry.Resolver {
	return registry.New(
		registry.WithHTTPClient(&http.Client{Timeout: config.RegistryTimeout()}),
		registry.WithBaseDir(filepath.Dir(projectFile)),
		registry.WithPrompt(s.asker, s.ui.Writer()),
		registry.WithLogger(s.log),
	)
}

func (s *session) installer() (*installer.Installer, error) {
	file, err := s.projectFile()
	if err != nil {
		return nil, err
	}
	return &installer.Installer{
		ProjectFile: file,
		PackagesDir: config.PackagesDir(),
		Resolver:    s.resolver(file),
		VCS:         vcs.Git{},
		Asker:       s.asker,
		UI:          s.ui,
		Logger:      s.log,
	}, nil
}

// activePackage locates the installed copy of shortname and its manifest.
func (s *session) activePackage(shortname string) (applier.Package, *manifest.Package, error) {
	in, err := s.installer()
	if err != nil {
		return applier.Package{}, nil, err
	}
	dir, err := in.PackageDir(shortname)
	if err != nil {
		return applier.Package{}, nil, err
	}
	m, err := manifest.LoadPackage(dir)
	if err != nil {
		return applier.Package{}, nil, err
	}
	pkg, err := applier.NewPackage(in.Root(), dir, manifest.FolderName(shortname))
	if err != nil {
		return applier.Package{}, nil, err
	}
	return pkg, m, nil
}

// hooks returns the configured hook interpreter, or nil when none is
// available. Fillables that declare hooks then fail when applied.
func (s *session) hooks() hook.Executor {
	c, err := hook.Parse(config.HookInterpreter())
	if err != nil {
		s.log.Debug("no hook interpreter", zap.Error(err))
		return nil
	}
	return c
}

func (s *session) applier(pkg applier.Package) *applier.Applier {
	return &applier.Applier{
		Package: pkg,
		Hooks:   s.hooks(),
		Engine:  render.TextTemplate{},
		Asker:   s.asker,
		UI:      s.ui,
		Logger:  s.log,
	}
}

func (s *session) generator(pkg applier.Package) *applier.Generator {
	return &applier.Generator{Package: pkg, Asker: s.asker, UI: s.ui, Logger: s.log}
}
