package manifest

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind selects the schema a document is validated against.
type Kind string

const (
	KindProject  Kind = "project"
	KindPackage  Kind = "package"
	KindRegistry Kind = "registry"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

var (
	compiledSchemas = make(map[Kind]*jsonschema.Schema)
	compileOnce     sync.Once
	compileErr      error
	printer         = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/name", "/namespaces/fprime")
	Message string // Human-readable error message
	Keyword string // Schema keyword location that failed
}

// getSchema compiles the embedded JSON schemas once and returns the one for kind.
func getSchema(kind Kind) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for _, k := range []Kind{KindProject, KindPackage, KindRegistry} {
			name := string(k) + ".schema.json"
			data, err := schemaFS.ReadFile("schema/" + name)
			if err != nil {
				compileErr = fmt.Errorf("reading schema %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("unmarshaling schema %s: %w", name, err)
				return
			}
			if err := c.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("adding schema resource %s: %w", name, err)
				return
			}
			sch, err := c.Compile(name)
			if err != nil {
				compileErr = fmt.Errorf("compiling schema %s: %w", name, err)
				return
			}
			compiledSchemas[k] = sch
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	sch, ok := compiledSchemas[kind]
	if !ok {
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}
	return sch, nil
}

// Validate validates raw YAML bytes against the schema for kind.
// The error return is for parse or schema compilation failures.
// Validation issues are returned in the ValidationResult.
func Validate(kind Kind, data []byte) (*ValidationResult, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return ValidateValue(kind, raw)
}

// ValidateValue validates an already decoded YAML value against the schema for kind.
func ValidateValue(kind Kind, raw interface{}) (*ValidationResult, error) {
	schema, err := getSchema(kind)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	// Convert YAML maps to JSON-compatible types and marshal to JSON,
	// then unmarshal with json.Number support for the schema validator.
	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// ValidateFile reads a file and validates it against the schema for kind.
func ValidateFile(kind Kind, path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(kind, data)
}

// String joins the issues into a single line.
func (r *ValidationResult) String() string {
	var lines []string
	for _, issue := range r.Issues {
		if issue.Path != "" {
			lines = append(lines, issue.Path+": "+issue.Message)
		} else {
			lines = append(lines, issue.Message)
		}
	}
	return strings.Join(lines, "; ")
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
// For oneOf schemas (discriminated unions), we walk all branches to collect
// specific property-level errors rather than just "oneOf failed".
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	// Deduplicate: oneOf branches produce many overlapping errors.
	if len(issues) == 0 {
		return []ValidationIssue{{
			Message: ve.Error(),
		}}
	}
	return deduplicateIssues(issues)
}

// collectValidationIssues recursively walks the error tree to find leaf errors
// with specific property information.
func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		// Leaf error.
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
		}

		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Skip generic container errors that aren't informative.
		if keyword == "oneOf" || keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{
			Path:    path,
			Message: msg,
			Keyword: keyword,
		})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

// deduplicateIssues removes duplicate issues (same path + keyword + message).
func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

// normalizeYAML recursively converts YAML-decoded values to JSON-compatible
// types. Non-string map keys are formatted as strings.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}
