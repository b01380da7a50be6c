package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/fprime-community/fprime-fppm/internal/fault"
)

// LoadProject reads the project manifest at path.
func LoadProject(path string) (*Project, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project manifest %s: %w", path, err)
	}
	return &p, nil
}

// SaveProject writes the project manifest to path, replacing it atomically.
func SaveProject(path string, p *Project) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encoding project manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding project manifest: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// LoadPackage reads package.yaml from an installed package directory.
func LoadPackage(dir string) (*Package, error) {
	path := filepath.Join(dir, PackageFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.Wrap(fault.MissingPackage, path, err, "package manifest not found")
		}
		return nil, fmt.Errorf("reading package manifest %s: %w", path, err)
	}

	var p Package
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing package manifest %s: %w", path, err)
	}
	return &p, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
