package manifest

import (
	"fmt"
	"strings"
)

// File names of the manifests.
const (
	ProjectFile = "project.yaml"
	PackageFile = "package.yaml"
)

// Project is the consumer's project manifest.
type Project struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Registries  []string     `yaml:"registries" json:"registries"`
	Packages    []PackageRef `yaml:"packages" json:"packages"`
}

// PackageRef is one installed package entry in the project manifest.
type PackageRef struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Package is a package's own manifest.
type Package struct {
	Name          string   `yaml:"name" json:"name"`
	Namespace     string   `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
	Author        string   `yaml:"author,omitempty" json:"author,omitempty"`
	Version       string   `yaml:"version,omitempty" json:"version,omitempty"`
	Git           string   `yaml:"git,omitempty" json:"git,omitempty"`
	ConfigObjects []string `yaml:"config_objects" json:"config_objects"`
}

// AddRegistry appends a registry identifier. Duplicates are rejected.
func (p *Project) AddRegistry(id string) error {
	for _, r := range p.Registries {
		if r == id {
			return fmt.Errorf("registry %s is already listed", id)
		}
	}
	p.Registries = append(p.Registries, id)
	return nil
}

// SetPackage records name at version, inserting a new entry or updating the
// existing one. It reports whether an entry was updated.
func (p *Project) SetPackage(name, version string) bool {
	for i := range p.Packages {
		if p.Packages[i].Name == name {
			p.Packages[i].Version = version
			return true
		}
	}
	p.Packages = append(p.Packages, PackageRef{Name: name, Version: version})
	return false
}

// RemovePackage drops the entry for name and reports whether one existed.
func (p *Project) RemovePackage(name string) bool {
	for i, ref := range p.Packages {
		if ref.Name == name {
			p.Packages = append(p.Packages[:i], p.Packages[i+1:]...)
			return true
		}
	}
	return false
}

// FindPackage returns the entry for name.
func (p *Project) FindPackage(name string) (PackageRef, bool) {
	for _, ref := range p.Packages {
		if ref.Name == name {
			return ref, true
		}
	}
	return PackageRef{}, false
}

// FolderName converts a "namespace/package" shortname to the on-disk folder
// prefix "namespace.package".
func FolderName(shortname string) string {
	return strings.ReplaceAll(shortname, "/", ".")
}
