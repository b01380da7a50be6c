// Package render instantiates template trees by substituting
// {{ scope.name }} markers in file contents and path components.
package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/fprime-community/fprime-fppm/internal/fault"
)

// Engine renders a template tree into a new directory.
type Engine interface {
	RenderTree(src, dst string, values map[string]string) error
}

var (
	scopePattern = regexp.MustCompile(`\{\{-?\s*([A-Za-z_][A-Za-z0-9_]*)\.`)

	// chainPattern matches a marker path with more than one segment after the scope.
	chainPattern = regexp.MustCompile(`(\{\{-?\s*[A-Za-z_][A-Za-z0-9_]*)((?:\.[A-Za-z_][A-Za-z0-9_]*){2,})`)
)

// TextTemplate renders with text/template. Every scope that appears in a
// marker is bound to a function returning the value map, so
// {{ cookiecutter.name }} reads values["name"] and {{ cookiecutter.group.name }}
// reads the same key. Missing keys are errors.
type TextTemplate struct{}

// RenderTree implements Engine. dst must not exist.
func (TextTemplate) RenderTree(src, dst string, values map[string]string) error {
	if _, err := os.Stat(dst); err == nil {
		return fault.New(fault.TemplateRender, dst, "render destination already exists")
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fault.Wrap(fault.TemplateRender, path, err, "walking template")
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fault.Wrap(fault.TemplateRender, path, err, "resolving template path")
		}

		name, err := String(filepath.ToSlash(rel), values)
		if err != nil {
			return fault.Wrap(fault.TemplateRender, path, err, "rendering path")
		}
		target := filepath.Join(dst, filepath.FromSlash(name))

		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fault.Wrap(fault.TemplateRender, target, err, "creating directory")
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fault.Wrap(fault.TemplateRender, path, err, "reading template info")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fault.Wrap(fault.TemplateRender, path, err, "reading template")
		}
		if bytes.Contains(data, []byte("{{")) {
			out, err := String(string(data), values)
			if err != nil {
				return fault.Wrap(fault.TemplateRender, path, err, "rendering template")
			}
			data = []byte(out)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fault.Wrap(fault.TemplateRender, target, err, "creating directory")
		}
		if err := os.WriteFile(target, data, info.Mode().Perm()); err != nil {
			return fault.Wrap(fault.TemplateRender, target, err, "writing rendered file")
		}
		return nil
	})
}

// String renders a single template text.
func String(text string, values map[string]string) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	text = collapseChains(text)

	funcs := template.FuncMap{}
	for _, m := range scopePattern.FindAllStringSubmatch(text, -1) {
		funcs[m[1]] = func() map[string]string { return values }
	}

	tmpl, err := template.New("config").Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, nil); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// collapseChains rewrites {{ scope.a.b }} to {{ scope.b }}, keying a marker by
// its trailing segment.
func collapseChains(text string) string {
	return chainPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := chainPattern.FindStringSubmatch(m)
		chain := sub[2]
		return sub[1] + chain[strings.LastIndex(chain, "."):]
	})
}
