package applier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fprime-community/fprime-fppm/internal/fault"
	"github.com/fprime-community/fprime-fppm/internal/fillable"
	"github.com/fprime-community/fprime-fppm/internal/logging"
	"github.com/fprime-community/fprime-fppm/internal/prompt"
	"github.com/fprime-community/fprime-fppm/internal/scanner"
	"github.com/fprime-community/fprime-fppm/internal/ui"
)

// Generated reports what Generate did with one config object.
type Generated struct {
	ConfigObject string
	// Fillable is set when a descriptor was written or already existed.
	Fillable string
	// Existing is set when the descriptor was kept because it already existed.
	Existing bool
	// Copied is set when the config object had nothing to fill and was
	// placed into the project as is.
	Copied string
}

// Generator writes fillables for the config objects of one package.
type Generator struct {
	Package Package
	Asker   prompt.Asker
	UI      *ui.Printer
	Logger  *zap.Logger
}

// Generate scans every config object and writes its fillable. Config objects
// with nothing to fill are copied through to their output directory.
// Existing fillables are kept unless force is set.
func (g *Generator) Generate(ctx context.Context, configObjects []string, force bool) ([]Generated, error) {
	store := g.Package.Store()
	var results []Generated

	for _, obj := range configObjects {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if err := scanner.CheckPath(obj); err != nil {
			return results, err
		}

		src := filepath.Join(g.Package.Dir, filepath.FromSlash(obj))
		data, err := os.ReadFile(src)
		if err != nil {
			return results, fault.Wrap(fault.MissingPackage, src, err, "config object not found in package")
		}

		g.ui().Info("Generating fillable for config object [%s]...", obj)
		res, err := scanner.Scan(obj, string(data))
		if err != nil {
			return results, err
		}
		for _, w := range res.Warnings {
			g.logger().Warn(w, zap.String("config_object", obj))
		}

		gen := Generated{ConfigObject: obj}
		written, err := store.Write(fillable.FromScan(g.Package.Path, res), force)
		switch {
		case errors.Is(err, fillable.ErrNothingToFill):
			dst, err := g.copyThrough(src)
			if err != nil {
				return results, err
			}
			gen.Copied = dst
		case errors.Is(err, fillable.ErrExists):
			gen.Fillable, gen.Existing = written, true
			g.ui().Warn("Fillable %s already exists; pass --force to regenerate it", g.rel(written))
		case err != nil:
			return results, fmt.Errorf("writing fillable for %s: %w", obj, err)
		default:
			gen.Fillable = written
		}
		results = append(results, gen)
	}
	return results, nil
}

// copyThrough places a config object with nothing to fill into the fallback
// output directory.
func (g *Generator) copyThrough(src string) (string, error) {
	pl := &placer{root: g.Package.Root, fallback: g.Package.FallbackDir(), asker: g.Asker, ui: g.ui()}
	dst := filepath.Join(pl.destDir(""), path.Base(filepath.ToSlash(src)))
	placed, err := pl.place(src, dst, false)
	if err != nil {
		return "", err
	}
	if !placed {
		g.ui().Info("Kept existing %s", pl.rel(dst))
		return "", nil
	}
	g.ui().Done("Copied config object to %s", pl.rel(dst))
	return dst, nil
}

func (g *Generator) rel(p string) string {
	return (&placer{root: g.Package.Root}).rel(p)
}

func (g *Generator) ui() *ui.Printer {
	if g.UI == nil {
		return ui.New(io.Discard)
	}
	return g.UI
}

func (g *Generator) logger() *zap.Logger {
	return logging.OrNop(g.Logger)
}
