package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fprime-community/fprime-fppm/internal/fault"
)

func TestScanSpecExample(t *testing.T) {
	input := "Hello {{ cookiecutter.name }}, @! output = out/\n" +
		"@! begin config description\n" +
		"desc line\n" +
		"@! end config description\n"

	res, err := Scan("./Hello.fpp", input)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(res.Variables) != 1 {
		t.Fatalf("len(Variables) = %d, want 1: %+v", len(res.Variables), res.Variables)
	}
	v := res.Variables[0]
	if v.Name != "name" || v.Line != 1 {
		t.Errorf("Variable = %+v, want name=name line=1", v)
	}
	if res.Metadata.Output != "out/" {
		t.Errorf("Output = %q, want %q", res.Metadata.Output, "out/")
	}
	if res.Description != "# desc line\n" {
		t.Errorf("Description = %q, want %q", res.Description, "# desc line\n")
	}
}

func TestScanDistinctNamesInLineOrder(t *testing.T) {
	for _, n := range []int{0, 1, 5, 40} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var b strings.Builder
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, "constant C%d = {{ cookiecutter.var_%d }}\n", i, i)
			}

			res, err := Scan("./Cfg.fpp", b.String())
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(res.Variables) != n {
				t.Fatalf("len(Variables) = %d, want %d", len(res.Variables), n)
			}
			for i, v := range res.Variables {
				if v.Name != fmt.Sprintf("var_%d", i) {
					t.Errorf("Variables[%d].Name = %q, want var_%d", i, v.Name, i)
				}
				if v.Line != i+1 {
					t.Errorf("Variables[%d].Line = %d, want %d", i, v.Line, i+1)
				}
			}
		})
	}
}

func TestScanDedupByExactName(t *testing.T) {
	input := "a = {{ cookiecutter.identifier }}\n" +
		"b = {{ cookiecutter.id }}\n" +
		"c = {{ cookiecutter.identifier }}\n"

	res, err := Scan("./Cfg.fpp", input)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	var names []string
	for _, v := range res.Variables {
		names = append(names, v.Name)
	}
	if strings.Join(names, ",") != "identifier,id" {
		t.Errorf("names = %v, want [identifier id]", names)
	}
	if res.Variables[0].Line != 1 {
		t.Errorf("first occurrence should win, got line %d", res.Variables[0].Line)
	}
}

func TestScanTrailingSegmentAndContext(t *testing.T) {
	res, err := Scan("./Cfg.fpp", "   x = {{cookiecutter.deep.queue_depth}}   \n")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Variables) != 1 {
		t.Fatalf("len(Variables) = %d, want 1", len(res.Variables))
	}
	v := res.Variables[0]
	if v.Name != "queue_depth" {
		t.Errorf("Name = %q, want queue_depth", v.Name)
	}
	if v.Context != "x = {{cookiecutter.deep.queue_depth}}" {
		t.Errorf("Context = %q", v.Context)
	}
}

func TestScanFileNameMarker(t *testing.T) {
	res, err := Scan("./config/{{ cookiecutter.component }}Cfg.fpp", "x = {{ cookiecutter.size }}\n")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Variables) != 2 {
		t.Fatalf("len(Variables) = %d, want 2", len(res.Variables))
	}
	first := res.Variables[0]
	if first.Name != "component" || first.Context != FileNameContext || first.Line != 0 {
		t.Errorf("file name variable = %+v", first)
	}
}

func TestScanDescriptionStrictlyBetweenMarkers(t *testing.T) {
	input := strings.Join([]string{
		"module Foo {",
		"  # @! begin config description",
		"  # Sets the queue depth.",
		"  #",
		"  // Must be a power of two.",
		"  # @! end config description",
		"  # trailing comment",
		"}",
	}, "\n") + "\n"

	res, err := Scan("./Foo.fpp", input)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := "# Sets the queue depth.\n#\n# Must be a power of two.\n"
	if res.Description != want {
		t.Errorf("Description = %q, want %q", res.Description, want)
	}
}

func TestScanUnterminatedDescription(t *testing.T) {
	res, err := Scan("./Foo.fpp", "@! begin config description\none\ntwo")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.Description != "# one\n# two\n" {
		t.Errorf("Description = %q", res.Description)
	}
}

func TestScanHooks(t *testing.T) {
	input := "# @! pre_hook = hooks/pre.py\n" +
		"# @! post_hook = hooks/post.sh\n"

	res, err := Scan("./Foo.fpp", input)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.Metadata.PreHook != "hooks/pre.py" {
		t.Errorf("PreHook = %q", res.Metadata.PreHook)
	}
	if res.Metadata.PostHook != "" {
		t.Errorf("PostHook = %q, want empty for non-.py script", res.Metadata.PostHook)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one warning", res.Warnings)
	}
}

func TestScanEmpty(t *testing.T) {
	res, err := Scan("./Plain.fpp", "constant X = 3\n")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !res.Empty() {
		t.Errorf("Empty() = false for %+v", res)
	}
}

func TestScanPathFormatError(t *testing.T) {
	for _, p := range []string{"Cfg.fpp", "config/Cfg.fpp", "/abs/Cfg.fpp", "../Cfg.fpp"} {
		_, err := Scan(p, "")
		if !fault.Is(err, fault.PathFormat) {
			t.Errorf("Scan(%q) err = %v, want PathFormatError", p, err)
		}
	}
}

func TestLexOrdersTokensByColumn(t *testing.T) {
	toks := Lex("{{ a.x }} @! output = {{ a.y }}\n")
	var kinds []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind.String())
	}
	want := "text,variable,declaration,variable"
	if strings.Join(kinds, ",") != want {
		t.Errorf("kinds = %v, want %s", kinds, want)
	}
}

func TestScanRejectsReservedVariableNames(t *testing.T) {
	for name, text := range map[string]string{
		"content":   "x = {{ cookiecutter.__x }}\n",
		"nested":    "x = {{ cookiecutter.group.__package_path }}\n",
		"file name": "",
	} {
		obj := "./Cfg.fpp"
		if name == "file name" {
			obj = "./{{ cookiecutter.__comp }}Cfg.fpp"
		}
		_, err := Scan(obj, text)
		if !fault.Is(err, fault.InvalidFillable) {
			t.Errorf("%s: Scan err = %v, want InvalidFillableError", name, err)
		}
	}

	res, err := Scan("./Cfg.fpp", "x = {{ cookiecutter._x }}\n")
	if err != nil {
		t.Fatalf("single underscore: %v", err)
	}
	if len(res.Variables) != 1 || res.Variables[0].Name != "_x" {
		t.Errorf("Variables = %+v, want [_x]", res.Variables)
	}
}
