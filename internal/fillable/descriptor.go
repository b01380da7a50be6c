package fillable

import (
	"sort"

	"github.com/fprime-community/fprime-fppm/internal/scanner"
)

// Placeholder is the value every variable starts with until the consumer edits it.
const Placeholder = "<< FILL IN >>"

// Protected descriptor keys. They are managed by fppm and must not be edited.
const (
	KeyPackagePath  = "__package_path"
	KeyConfigObject = "__config_object"
	KeyOutput       = "__output"
	KeyPreHook      = "__pre_hook"
	KeyPostHook     = "__post_hook"
	KeyDescription  = "__description"
)

// Descriptor is the editable unit persisted for one config object.
type Descriptor struct {
	// PackagePath is the installed package directory relative to the project root.
	PackagePath string
	// ConfigObject is the template path relative to the package root ("./...").
	ConfigObject string
	Metadata     scanner.Metadata
	Description  string
	// Variables records entry order and provenance.
	Variables []scanner.Variable
	// Values maps variable name to its fill value.
	Values map[string]string
}

// FromScan builds a fresh descriptor with every value set to Placeholder.
func FromScan(packagePath string, res *scanner.Result) *Descriptor {
	d := &Descriptor{
		PackagePath:  packagePath,
		ConfigObject: res.ConfigObject,
		Metadata:     res.Metadata,
		Description:  res.Description,
		Variables:    append([]scanner.Variable(nil), res.Variables...),
		Values:       make(map[string]string, len(res.Variables)),
	}
	for _, v := range res.Variables {
		d.Values[v.Name] = Placeholder
	}
	return d
}

// Empty reports whether there is nothing for the consumer to fill.
func (d *Descriptor) Empty() bool {
	return len(d.Values) == 0 && len(d.Variables) == 0 && d.Description == "" && d.Metadata.IsZero()
}

// Unfilled returns the names still holding Placeholder, sorted.
func (d *Descriptor) Unfilled() []string {
	var names []string
	for name, v := range d.Values {
		if v == Placeholder {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// names returns variable names in entry order. Values without a Variable
// record follow in sorted order.
func (d *Descriptor) names() []string {
	seen := make(map[string]bool, len(d.Values))
	var names []string
	for _, v := range d.Variables {
		if !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}
	}
	var extra []string
	for name := range d.Values {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// variable returns the provenance record for name, if any.
func (d *Descriptor) variable(name string) (scanner.Variable, bool) {
	for _, v := range d.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return scanner.Variable{}, false
}
