package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/fprime-community/fprime-fppm/internal/manifest"
)

//go:embed scaffolds
var scaffoldFS embed.FS

// InvalidNameChars may not appear in package names.
const InvalidNameChars = "#%&{}/\\<>*? $!'\":@+`|="

// ErrInvalidName is returned for names containing InvalidNameChars.
var ErrInvalidName = errors.New("name contains spaces or special characters")

// ProjectData holds the template variables of a project manifest.
type ProjectData struct {
	Name        string
	Description string
	Registries  []string
}

// PackageData holds the template variables of a new package.
type PackageData struct {
	Name        string
	Namespace   string
	Description string
	Author      string
	Version     string
	Year        int
}

// NewPackageData creates a PackageData with defaults populated.
func NewPackageData(name, namespace string) *PackageData {
	return &PackageData{
		Name:        name,
		Namespace:   namespace,
		Description: fmt.Sprintf("F' package %s", name),
		Version:     "v0.1.0",
		Year:        time.Now().Year(),
	}
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// ValidateName rejects names unusable as package or namespace names.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidName)
	}
	if i := strings.IndexAny(name, InvalidNameChars); i >= 0 {
		return fmt.Errorf("%q (character %q): %w", name, name[i], ErrInvalidName)
	}
	return nil
}

// InitProject writes project.yaml into dir. An existing manifest is never
// overwritten.
func InitProject(dir string, data *ProjectData) (*Result, error) {
	if strings.TrimSpace(data.Name) == "" {
		return nil, errors.New("project name is required")
	}
	res, err := generate("project", data, dir)
	if err != nil {
		return nil, err
	}
	res.Warnings = validate(manifest.KindProject, filepath.Join(dir, manifest.ProjectFile))
	return res, nil
}

// NewPackage creates <parent>/<name>/ holding a package.yaml and README.md.
func NewPackage(parent string, data *PackageData) (*Result, error) {
	if err := ValidateName(data.Name); err != nil {
		return nil, fmt.Errorf("invalid package name %w", err)
	}
	if data.Namespace != "" {
		if err := ValidateName(data.Namespace); err != nil {
			return nil, fmt.Errorf("invalid namespace %w", err)
		}
	}

	outputDir := filepath.Join(parent, data.Name)
	if entries, err := os.ReadDir(outputDir); err == nil && len(entries) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	res, err := generate("package", data, outputDir)
	if err != nil {
		return nil, err
	}
	res.Warnings = validate(manifest.KindPackage, filepath.Join(outputDir, manifest.PackageFile))
	return res, nil
}

// generate renders the template set into outputDir. Nothing is written when
// any target file already exists.
func generate(setName string, data any, outputDir string) (*Result, error) {
	templatesDir := path.Join("scaffolds", setName)
	entries, err := fs.ReadDir(scaffoldFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", setName, err)
	}

	rendered := make(map[string][]byte, len(entries))
	result := &Result{OutputDir: outputDir}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		if _, err := os.Stat(filepath.Join(outputDir, outName)); err == nil {
			return nil, fmt.Errorf("%s already exists in %s", outName, outputDir)
		}

		tmplPath := path.Join(templatesDir, entry.Name())
		tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}
		tmpl, err := template.New(entry.Name()).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}
		rendered[outName] = buf.Bytes()
		result.Files = append(result.Files, outName)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	for _, name := range result.Files {
		outPath := filepath.Join(outputDir, name)
		if err := os.WriteFile(outPath, rendered[name], 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
	}
	return result, nil
}

// validate checks a generated manifest against its JSON Schema and returns
// the issues as warnings.
func validate(kind manifest.Kind, file string) []string {
	valResult, err := manifest.ValidateFile(kind, file)
	if err != nil {
		return []string{fmt.Sprintf("Could not validate manifest: %v", err)}
	}
	var warnings []string
	for _, issue := range valResult.Issues {
		msg := issue.Message
		if issue.Path != "" {
			msg = issue.Path + ": " + msg
		}
		warnings = append(warnings, msg)
	}
	return warnings
}
