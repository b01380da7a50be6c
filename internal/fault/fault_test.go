package fault

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", New(HookNotFound, "", "hook missing"), "hook missing"},
		{"with path", New(PathFormat, "cfg/Foo.fpp", "config object must start with ./"), "config object must start with ./ [cfg/Foo.fpp]"},
		{"with cause", Wrap(RegistryFetch, "r.yaml", errors.New("boom"), "fetching registry"), "fetching registry [r.yaml]: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsThroughWrapping(t *testing.T) {
	base := New(InvalidFillable, "a.yaml", "package path mismatch")
	wrapped := fmt.Errorf("applying a.yaml: %w", base)

	if !Is(wrapped, InvalidFillable) {
		t.Error("Is(wrapped, InvalidFillable) = false, want true")
	}
	if Is(wrapped, HookExecution) {
		t.Error("Is(wrapped, HookExecution) = true, want false")
	}
	if KindOf(wrapped) != InvalidFillable {
		t.Errorf("KindOf = %v, want %v", KindOf(wrapped), InvalidFillable)
	}
}

func TestIsFindsNestedCause(t *testing.T) {
	inner := New(RegistryValidation, "r.yaml", "missing fields")
	outer := Wrap(ResolutionNotFound, "acme/widget", inner, "no usable registry")

	if !Is(outer, RegistryValidation) {
		t.Error("expected nested RegistryValidation to be found")
	}
}

func TestIsJoined(t *testing.T) {
	joined := errors.Join(
		New(HookNotFound, "", "a"),
		fmt.Errorf("b: %w", New(TemplateRender, "", "b")),
	)
	if !Is(joined, TemplateRender) {
		t.Error("expected TemplateRender in joined error")
	}
	if Is(joined, PathFormat) {
		t.Error("unexpected PathFormat in joined error")
	}
	if Is(nil, PathFormat) {
		t.Error("Is(nil) should be false")
	}
}

func TestKindString(t *testing.T) {
	for k := PathFormat; k <= UserAbortedOverwrite; k++ {
		if s := k.String(); !strings.HasSuffix(s, "Error") && k != UserAbortedOverwrite {
			t.Errorf("Kind(%d).String() = %q, want *Error suffix", k, s)
		}
	}
	if Kind(0).String() != "UnknownError" {
		t.Errorf("Kind(0).String() = %q", Kind(0).String())
	}
}
