package scanner

import (
	"fmt"
	"path"
	"strings"

	"github.com/fprime-community/fprime-fppm/internal/fault"
)

// RelativeMarker is the prefix every config object path must carry.
const RelativeMarker = "./"

// FileNameContext is the context recorded for variables found in a file name.
const FileNameContext = "FILE NAME"

// HookExtension is the only script extension accepted for hooks.
const HookExtension = ".py"

// ReservedPrefix starts the protected keys of a fillable descriptor. Variable
// names may not use it.
const ReservedPrefix = "__"

// Variable is a fillable placeholder discovered in a config object.
type Variable struct {
	Context string `yaml:"context"`
	Name    string `yaml:"name"`
	Line    int    `yaml:"line"`
}

// Metadata holds the declarations controlling how a config object is rendered.
type Metadata struct {
	Output   string `yaml:"output,omitempty"`
	PreHook  string `yaml:"pre_hook,omitempty"`
	PostHook string `yaml:"post_hook,omitempty"`
}

// IsZero reports whether no declaration was made.
func (m Metadata) IsZero() bool {
	return m.Output == "" && m.PreHook == "" && m.PostHook == ""
}

// Result is the outcome of scanning one config object.
type Result struct {
	// ConfigObject is the scanned path, relative to the package root.
	ConfigObject string
	Variables    []Variable
	// Description is the comment-prefixed text of the description block.
	Description string
	Metadata    Metadata
	// Warnings lists declarations that were ignored.
	Warnings []string
}

// Empty reports whether the config object has nothing to fill.
func (r *Result) Empty() bool {
	return len(r.Variables) == 0 && r.Description == "" && r.Metadata.IsZero()
}

// Scan extracts variables, description and metadata from a config object.
// configObject is the path relative to the package root and must start with "./";
// its file name may itself carry variable markers.
func Scan(configObject, text string) (*Result, error) {
	if err := CheckPath(configObject); err != nil {
		return nil, err
	}

	a := newAssembler(configObject)
	for _, tok := range lexLine(path.Base(configObject), 0) {
		if tok.Kind == TokenVariable {
			a.addVariable(FileNameContext, tok.Name, 0)
		}
	}
	for _, tok := range Lex(text) {
		a.consume(tok)
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

// CheckPath validates that a config object path carries the relative marker.
func CheckPath(configObject string) error {
	if !strings.HasPrefix(configObject, RelativeMarker) {
		return fault.New(fault.PathFormat, configObject,
			"config object path must start with %q", RelativeMarker)
	}
	return nil
}

// assembler builds a Result from a token stream.
type assembler struct {
	result        *Result
	seen          map[string]bool
	inDescription bool
	desc          strings.Builder
	err           error
}

func newAssembler(configObject string) *assembler {
	return &assembler{
		result: &Result{ConfigObject: configObject},
		seen:   make(map[string]bool),
	}
}

func (a *assembler) consume(tok Token) {
	switch tok.Kind {
	case TokenDescriptionOpen:
		a.inDescription = true
	case TokenDescriptionClose:
		a.inDescription = false
		a.result.Description = a.desc.String()
	case TokenText:
		if a.inDescription && !isDirectiveLine(tok.Text) {
			a.desc.WriteString(commentLine(tok.Text))
			// Unterminated blocks run to end of input.
			a.result.Description = a.desc.String()
		}
	case TokenDeclaration:
		a.declare(tok)
	case TokenVariable:
		a.addVariable(strings.TrimSpace(tok.Text), tok.Name, tok.Line)
	}
}

// addVariable records a variable unless one with the exact same name exists.
func (a *assembler) addVariable(context, name string, line int) {
	if strings.HasPrefix(name, ReservedPrefix) {
		if a.err == nil {
			a.err = fault.New(fault.InvalidFillable, a.result.ConfigObject,
				"line %d: variable %q uses the reserved prefix %q", line, name, ReservedPrefix)
		}
		return
	}
	if a.seen[name] {
		return
	}
	a.seen[name] = true
	a.result.Variables = append(a.result.Variables, Variable{
		Context: context,
		Name:    name,
		Line:    line,
	})
}

func (a *assembler) declare(tok Token) {
	switch tok.Key {
	case KeyOutput:
		a.result.Metadata.Output = tok.Value
	case KeyPreHook, KeyPostHook:
		if path.Ext(tok.Value) != HookExtension {
			a.result.Warnings = append(a.result.Warnings,
				fmt.Sprintf("line %d: %s %q is not a %s script, ignoring", tok.Line, tok.Key, tok.Value, HookExtension))
			return
		}
		if tok.Key == KeyPreHook {
			a.result.Metadata.PreHook = tok.Value
		} else {
			a.result.Metadata.PostHook = tok.Value
		}
	}
}

// commentLine turns a description line into a "# "-prefixed line.
func commentLine(line string) string {
	text := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(text, "//"):
		text = strings.TrimSpace(text[2:])
	case strings.HasPrefix(text, "#"):
		text = strings.TrimSpace(text[1:])
	}
	if text == "" {
		return "#\n"
	}
	return "# " + text + "\n"
}

// isDirectiveLine reports whether a line carries a description marker.
func isDirectiveLine(line string) bool {
	return strings.Contains(line, DescriptionBegin) || strings.Contains(line, DescriptionEnd)
}
