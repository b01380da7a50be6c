package registry

import (
	"fmt"
	"strings"

	"github.com/fprime-community/fprime-fppm/internal/fault"
)

// Document is a parsed registry document.
type Document struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Publisher   string `yaml:"publisher"`
	UpdatedOn   string `yaml:"updated-on"`
	// Namespaces maps a namespace to a list of single-entry package mappings.
	Namespaces map[string][]map[string]PackageInfo `yaml:"namespaces"`
}

// PackageInfo locates a package's source.
type PackageInfo struct {
	Git    string `yaml:"git"`
	Branch string `yaml:"branch"`
	Stable string `yaml:"stable"`
}

// Match is one hit for a shortname in one registry.
type Match struct {
	Registry  string
	Publisher string
	Info      PackageInfo
}

// Shortname is a parsed "namespace/package" identifier.
type Shortname struct {
	Namespace string
	Package   string
}

// ParseShortname parses s, which must contain exactly one "/" with text on
// both sides.
func ParseShortname(s string) (Shortname, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return Shortname{}, fault.New(fault.PathFormat, s, "package must be given as namespace/package")
	}
	return Shortname{Namespace: parts[0], Package: parts[1]}, nil
}

func (s Shortname) String() string {
	return s.Namespace + "/" + s.Package
}

// Summary is a one-line description of the document.
func (d *Document) Summary() string {
	return fmt.Sprintf("%s (published by %s, updated %s)", d.Name, d.Publisher, d.UpdatedOn)
}

// Lookup returns every entry for sn in the document, in document order.
func (d *Document) Lookup(sn Shortname) []PackageInfo {
	var hits []PackageInfo
	for _, entry := range d.Namespaces[sn.Namespace] {
		if info, ok := entry[sn.Package]; ok {
			hits = append(hits, info)
		}
	}
	return hits
}

// Packages lists "namespace/package" names in the document.
func (d *Document) Packages() []string {
	var names []string
	for ns, entries := range d.Namespaces {
		for _, entry := range entries {
			for pkg := range entry {
				names = append(names, fmt.Sprintf("%s/%s", ns, pkg))
			}
		}
	}
	return names
}
