package fillable

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/fprime-community/fprime-fppm/internal/fault"
	"github.com/fprime-community/fprime-fppm/internal/scanner"
)

// ErrNothingToFill is returned by Encode when a descriptor has no variables,
// no description and no metadata. Callers copy the config object through instead.
var ErrNothingToFill = errors.New("config object has nothing to fill")

const header = "# Fill in every value marked " + Placeholder + ".\n" +
	"# Keys starting with __ are managed by fppm; do not edit them."

// provenancePattern parses the comment written above each variable.
var provenancePattern = regexp.MustCompile(`^#?\s*line (\d+): ?(.*)$`)

// Encode serializes a descriptor to YAML text.
func Encode(d *Descriptor) ([]byte, error) {
	if d.Empty() {
		return nil, ErrNothingToFill
	}

	m := &yaml.Node{Kind: yaml.MappingNode}
	addPair(m, KeyPackagePath, d.PackagePath, "")
	addPair(m, KeyConfigObject, d.ConfigObject, "")
	if d.Metadata.Output != "" {
		addPair(m, KeyOutput, d.Metadata.Output, "")
	}
	if d.Metadata.PreHook != "" {
		addPair(m, KeyPreHook, d.Metadata.PreHook, "")
	}
	if d.Metadata.PostHook != "" {
		addPair(m, KeyPostHook, d.Metadata.PostHook, "")
	}
	if d.Description != "" {
		addPair(m, KeyDescription, d.Description, "")
		m.Content[len(m.Content)-1].Style = yaml.LiteralStyle
	}

	for _, name := range d.names() {
		value, ok := d.Values[name]
		if !ok {
			value = Placeholder
		}
		comment := ""
		if v, ok := d.variable(name); ok {
			comment = provenance(v)
		}
		addPair(m, name, value, comment)
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, HeadComment: header, Content: []*yaml.Node{m}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding fillable for %s: %w", d.ConfigObject, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding fillable for %s: %w", d.ConfigObject, err)
	}
	return buf.Bytes(), nil
}

// Decode parses a descriptor produced by Encode and edited by the consumer.
func Decode(data []byte) (*Descriptor, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fault.Wrap(fault.InvalidFillable, "", err, "parsing fillable")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fault.New(fault.InvalidFillable, "", "fillable must be a YAML mapping")
	}

	m := doc.Content[0]
	d := &Descriptor{Values: make(map[string]string)}
	seen := make(map[string]bool)

	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fault.New(fault.InvalidFillable, "", "line %d: keys must be scalars", key.Line)
		}
		if seen[key.Value] {
			return nil, fault.New(fault.InvalidFillable, "", "line %d: duplicate key %q", key.Line, key.Value)
		}
		seen[key.Value] = true
		if val.Kind != yaml.ScalarNode {
			return nil, fault.New(fault.InvalidFillable, "", "line %d: value of %q must be a scalar", val.Line, key.Value)
		}

		switch key.Value {
		case KeyPackagePath:
			d.PackagePath = val.Value
		case KeyConfigObject:
			d.ConfigObject = val.Value
		case KeyOutput:
			d.Metadata.Output = val.Value
		case KeyPreHook:
			d.Metadata.PreHook = val.Value
		case KeyPostHook:
			d.Metadata.PostHook = val.Value
		case KeyDescription:
			d.Description = val.Value
		default:
			if strings.HasPrefix(key.Value, scanner.ReservedPrefix) {
				return nil, fault.New(fault.InvalidFillable, "", "line %d: unknown protected key %q", key.Line, key.Value)
			}
			d.Values[key.Value] = scalarText(val)
			d.Variables = append(d.Variables, parseProvenance(key.Value, key.HeadComment))
		}
	}

	if d.PackagePath == "" {
		return nil, fault.New(fault.InvalidFillable, "", "missing %s", KeyPackagePath)
	}
	if d.ConfigObject == "" {
		return nil, fault.New(fault.InvalidFillable, "", "missing %s", KeyConfigObject)
	}
	return d, nil
}

func addPair(m *yaml.Node, key, value, comment string) {
	k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key, HeadComment: comment}
	v := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	m.Content = append(m.Content, k, v)
}

// provenance renders the comment written above a variable entry.
func provenance(v scanner.Variable) string {
	if v.Line == 0 {
		return "# " + scanner.FileNameContext
	}
	return fmt.Sprintf("# line %d: %s", v.Line, v.Context)
}

// parseProvenance recovers a Variable from the comment above its key. Comments
// edited beyond recognition yield a record with the name only.
func parseProvenance(name, comment string) scanner.Variable {
	v := scanner.Variable{Name: name}
	lines := strings.Split(strings.TrimSpace(comment), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if strings.TrimSpace(strings.TrimPrefix(last, "#")) == scanner.FileNameContext {
		v.Context = scanner.FileNameContext
		return v
	}
	m := provenancePattern.FindStringSubmatch(last)
	if m == nil {
		return v
	}
	v.Line, _ = strconv.Atoi(m[1])
	v.Context = m[2]
	return v
}

// scalarText returns the literal text of a scalar. Nulls read as empty.
func scalarText(n *yaml.Node) string {
	if n.Tag == "!!null" {
		return ""
	}
	return n.Value
}
