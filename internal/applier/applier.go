package applier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fprime-community/fprime-fppm/internal/fault"
	"github.com/fprime-community/fprime-fppm/internal/fillable"
	"github.com/fprime-community/fprime-fppm/internal/hook"
	"github.com/fprime-community/fprime-fppm/internal/logging"
	"github.com/fprime-community/fprime-fppm/internal/prompt"
	"github.com/fprime-community/fprime-fppm/internal/render"
	"github.com/fprime-community/fprime-fppm/internal/scanner"
	"github.com/fprime-community/fprime-fppm/internal/ui"
)

// Package identifies the installed package fillables are applied against.
type Package struct {
	// Root is the project root.
	Root string
	// Dir is the absolute installed package directory.
	Dir string
	// Path is Dir relative to Root in slash form; descriptors must carry it.
	Path string
	// Folder is the "<namespace>.<package>" prefix for fillables and fallback output.
	Folder string
}

// NewPackage describes the package installed at dir within the project at root.
func NewPackage(root, dir, folder string) (Package, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return Package{}, fmt.Errorf("locating package %s: %w", dir, err)
	}
	return Package{Root: root, Dir: dir, Path: filepath.ToSlash(rel), Folder: folder}, nil
}

// Store returns the fillables store of the package.
func (p Package) Store() *fillable.Store {
	return fillable.NewStore(p.Root, p.Folder)
}

// FallbackDir is where files without a declared output are placed.
func (p Package) FallbackDir() string {
	return filepath.Join(p.Root, p.Folder+FallbackDirSuffix)
}

// Options control a batch.
type Options struct {
	// KeepGoing applies every fillable and joins the errors instead of
	// stopping at the first one.
	KeepGoing bool
	// Archive moves applied fillables under .applied/ instead of deleting them.
	Archive bool
}

// Outcome is the result of applying one fillable.
type Outcome struct {
	Fillable     string
	ConfigObject string
	State        State
	Placed       []string
	// Declined lists existing files the user chose to keep.
	Declined []string
	Err      error
}

// Applier renders the fillables of one package into the project.
type Applier struct {
	Package Package
	Hooks   hook.Executor
	Engine  render.Engine
	Asker   prompt.Asker
	UI      *ui.Printer
	Logger  *zap.Logger
	// StagingDir is the parent of the per-run staging root; empty means os.TempDir().
	StagingDir string
}

// Apply applies every fillable in the package store in sorted order.
func (a *Applier) Apply(ctx context.Context, opts Options) ([]Outcome, error) {
	store := a.Package.Store()
	paths, err := store.List()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		a.ui().Info("No fillables found in %s", store.Dir)
		return nil, nil
	}

	base := a.StagingDir
	if base == "" {
		base = os.TempDir()
	}
	stagingRoot := filepath.Join(base, "fppm-staging-"+uuid.NewString())
	defer os.RemoveAll(stagingRoot)

	var outcomes []Outcome
	var errs []error
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		out := a.applyOne(ctx, p, stagingRoot)
		outcomes = append(outcomes, out)
		if out.Err != nil {
			a.ui().Error("%s: %v", filepath.Base(p), out.Err)
			errs = append(errs, out.Err)
			if !opts.KeepGoing {
				break
			}
			continue
		}

		if len(out.Declined) > 0 {
			a.ui().Warn("%s kept for a later apply: %s", filepath.Base(p), fault.UserAbortedOverwrite)
			continue
		}
		if err := store.Retire(p, opts.Archive); err != nil {
			errs = append(errs, err)
			if !opts.KeepGoing {
				break
			}
		}
	}
	return outcomes, errors.Join(errs...)
}

func (a *Applier) applyOne(ctx context.Context, fillablePath, stagingRoot string) (out Outcome) {
	out.Fillable = fillablePath
	log := a.logger().With(zap.String("fillable", filepath.Base(fillablePath)))
	advance := func(s State) {
		out.State = s
		log.Debug("state", zap.Stringer("state", s))
	}

	d, err := a.load(fillablePath)
	if err != nil {
		out.Err = err
		return out
	}
	out.ConfigObject = d.ConfigObject
	advance(StateLoaded)

	if d.Metadata.PreHook != "" {
		if err := a.runHook(ctx, d.Metadata.PreHook, hook.FlagFillable, fillablePath); err != nil {
			out.Err = err
			return out
		}
		// The hook may have filled values in.
		if d, err = a.load(fillablePath); err != nil {
			out.Err = err
			return out
		}
		advance(StatePreHooked)
	}
	if unfilled := d.Unfilled(); len(unfilled) > 0 {
		out.Err = fault.New(fault.InvalidFillable, fillablePath, "values still hold %s: %s", fillable.Placeholder, strings.Join(unfilled, ", "))
		return out
	}

	ns := filepath.Join(stagingRoot, stagingLeaf(d.ConfigObject))
	defer func() {
		if err := os.RemoveAll(ns); err != nil {
			log.Warn("removing staging directory", zap.Error(err))
		}
		if out.Err == nil {
			advance(StateCleaned)
		}
	}()

	outDir, err := a.render(d, ns)
	if err != nil {
		out.Err = err
		return out
	}
	advance(StateRendered)

	files, err := listFiles(outDir)
	if err != nil {
		out.Err = fault.Wrap(fault.TemplateRender, outDir, err, "listing rendered files")
		return out
	}
	if err := stripAll(outDir, files); err != nil {
		out.Err = err
		return out
	}
	advance(StateStripped)

	if d.Metadata.PostHook != "" {
		for _, f := range files {
			if err := a.runHook(ctx, d.Metadata.PostHook, hook.FlagGenerated, filepath.Join(outDir, f)); err != nil {
				out.Err = err
				return out
			}
		}
		advance(StatePostHooked)
	}

	pl := a.placer()
	dest := pl.destDir(d.Metadata.Output)
	for _, f := range files {
		dst := filepath.Join(dest, f)
		placed, err := pl.place(filepath.Join(outDir, f), dst, true)
		if err != nil {
			out.Err = err
			return out
		}
		if placed {
			out.Placed = append(out.Placed, dst)
			a.ui().Done("Placed %s", pl.rel(dst))
		} else {
			out.Declined = append(out.Declined, dst)
			a.ui().Info("Kept existing %s", pl.rel(dst))
		}
	}
	advance(StatePlaced)
	return out
}

// load decodes a descriptor and checks it belongs to the active package.
func (a *Applier) load(fillablePath string) (*fillable.Descriptor, error) {
	d, err := a.Package.Store().Read(fillablePath)
	if err != nil {
		if fault.KindOf(err) == 0 {
			return nil, fault.Wrap(fault.InvalidFillable, fillablePath, err, "reading fillable")
		}
		return nil, err
	}
	if path.Clean(d.PackagePath) != path.Clean(a.Package.Path) {
		return nil, fault.New(fault.InvalidFillable, fillablePath,
			"fillable belongs to package %s, not %s", d.PackagePath, a.Package.Path)
	}
	return d, nil
}

// runHook resolves script under the package root and runs it.
func (a *Applier) runHook(ctx context.Context, script, flag, target string) error {
	abs := filepath.Join(a.Package.Dir, filepath.FromSlash(script))
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return fault.New(fault.HookNotFound, abs, "hook script not found")
	}
	if a.Hooks == nil {
		return fault.New(fault.HookExecution, abs, "no hook interpreter configured")
	}

	target, err := filepath.Abs(target)
	if err != nil {
		return fault.Wrap(fault.HookExecution, abs, err, "resolving hook target")
	}
	stdout, code, err := a.Hooks.Run(ctx, abs, flag, target)
	if err != nil {
		return fault.Wrap(fault.HookExecution, abs, err, "running hook")
	}
	if code != 0 {
		return fault.New(fault.HookExecution, abs, "hook exited with status %d: %s", code, strings.TrimSpace(stdout))
	}
	if s := strings.TrimSpace(stdout); s != "" {
		a.ui().Info("%s", s)
	}
	return nil
}

// render copies the config object into the staging namespace ns and renders
// it into ns/out.
func (a *Applier) render(d *fillable.Descriptor, ns string) (string, error) {
	if _, err := os.Stat(ns); err == nil {
		return "", fault.New(fault.TemplateRender, ns, "staging directory already exists")
	}

	src := filepath.Join(a.Package.Dir, filepath.FromSlash(d.ConfigObject))
	if _, err := os.Stat(src); err != nil {
		return "", fault.Wrap(fault.MissingPackage, src, err, "config object not found in package")
	}

	tmplDir := filepath.Join(ns, "template")
	if err := os.MkdirAll(tmplDir, 0755); err != nil {
		return "", fault.Wrap(fault.TemplateRender, tmplDir, err, "creating staging directory")
	}
	if err := copyFile(src, filepath.Join(tmplDir, filepath.Base(src))); err != nil {
		return "", fault.Wrap(fault.TemplateRender, src, err, "staging config object")
	}

	outDir := filepath.Join(ns, "out")
	if err := a.Engine.RenderTree(tmplDir, outDir, d.Values); err != nil {
		if fault.Is(err, fault.TemplateRender) {
			return "", err
		}
		return "", fault.Wrap(fault.TemplateRender, src, err, "rendering config object")
	}
	return outDir, nil
}

// stripAll removes directive lines from every rendered file.
func stripAll(dir string, files []string) error {
	for _, f := range files {
		p := filepath.Join(dir, f)
		data, err := os.ReadFile(p)
		if err != nil {
			return fault.Wrap(fault.TemplateRender, p, err, "reading rendered file")
		}
		stripped := scanner.Strip(string(data))
		if stripped == string(data) {
			continue
		}
		if err := os.WriteFile(p, []byte(stripped), 0644); err != nil {
			return fault.Wrap(fault.TemplateRender, p, err, "writing rendered file")
		}
	}
	return nil
}

// stagingLeaf names the staging namespace of a config object: the variable
// names of its file name markers when present, else its file name.
func stagingLeaf(configObject string) string {
	base := path.Base(configObject)
	res, err := scanner.Scan("./"+base, "")
	if err == nil && len(res.Variables) > 0 {
		names := make([]string, len(res.Variables))
		for i, v := range res.Variables {
			names[i] = v.Name
		}
		return fillable.SanitizeName(strings.Join(names, "_"))
	}
	return fillable.SanitizeName(base)
}

func (a *Applier) placer() *placer {
	return &placer{root: a.Package.Root, fallback: a.Package.FallbackDir(), asker: a.Asker, ui: a.ui()}
}

func (a *Applier) ui() *ui.Printer {
	if a.UI == nil {
		return ui.New(io.Discard)
	}
	return a.UI
}

func (a *Applier) logger() *zap.Logger {
	return logging.OrNop(a.Logger)
}
