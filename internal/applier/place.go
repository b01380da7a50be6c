package applier

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fprime-community/fprime-fppm/internal/fault"
	"github.com/fprime-community/fprime-fppm/internal/prompt"
	"github.com/fprime-community/fprime-fppm/internal/ui"
)

// FallbackDirSuffix is appended to the package folder name to form the
// output directory used when a config object declares none.
const FallbackDirSuffix = ".config"

// SourceExtensions are file types that must be listed in the build's
// CMakeLists.txt once placed.
var SourceExtensions = map[string]bool{
	".fpp": true,
	".cpp": true,
	".hpp": true,
	".c":   true,
	".h":   true,
	".cc":  true,
	".hh":  true,
}

// placer moves rendered files into the project, asking before it replaces
// an existing file.
type placer struct {
	root     string
	fallback string
	asker    prompt.Asker
	ui       *ui.Printer
}

// destDir returns the directory output resolves to.
func (p *placer) destDir(output string) string {
	if output == "" {
		return p.fallback
	}
	if filepath.IsAbs(output) {
		return output
	}
	return filepath.Join(p.root, filepath.FromSlash(output))
}

// place puts src at dst. When dst exists the user sees a diff and decides;
// declining leaves dst untouched and reports placed=false. The source is
// moved when move is set, copied otherwise. An accepted overwrite replaces dst
// in a single rename, so a failure keeps the old file.
func (p *placer) place(src, dst string, move bool) (bool, error) {
	if info, err := os.Stat(dst); err == nil {
		if info.IsDir() {
			return false, fmt.Errorf("cannot place %s: %s is a directory", src, dst)
		}
		ok, err := p.confirmOverwrite(src, dst)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, fmt.Errorf("creating output directory: %w", err)
	}
	if move {
		if err := moveFile(src, dst); err != nil {
			return false, err
		}
	} else if err := copyFile(src, dst); err != nil {
		return false, fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}

	p.remind(dst)
	return true, nil
}

func (p *placer) confirmOverwrite(src, dst string) (bool, error) {
	oldData, err := os.ReadFile(dst)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", dst, err)
	}
	newData, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", src, err)
	}

	rel := p.rel(dst)
	p.ui.Warn("%s already exists. Changes from the new render:", rel)
	fmt.Fprint(p.ui.Writer(), lineDiff(string(oldData), string(newData)))

	if p.asker == nil {
		return false, nil
	}
	answer, err := p.asker.Ask(p.ui.Question("Overwrite %s?", rel), []string{"y", "n"})
	if err != nil {
		return false, fault.Wrap(fault.UserAbortedOverwrite, dst, err, "no answer to overwrite prompt")
	}
	return answer == "y", nil
}

func (p *placer) remind(dst string) {
	if SourceExtensions[strings.ToLower(filepath.Ext(dst))] {
		p.ui.Info("Remember to add %s to the source list in CMakeLists.txt.", p.rel(dst))
	}
}

func (p *placer) rel(path string) string {
	if rel, err := filepath.Rel(p.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}
