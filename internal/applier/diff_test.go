package applier

import (
	"strings"
	"testing"
)

func TestLineDiff(t *testing.T) {
	oldText := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\n"
	newText := "a\nb\nc\nd\nE\nf\ng\nh\ni\nj\n"

	got := lineDiff(oldText, newText)
	want := "...\n c\n d\n-e\n+E\n f\n g\n...\n"
	if got != want {
		t.Errorf("lineDiff() =\n%s\nwant\n%s", got, want)
	}
}

func TestLineDiffShortContextKept(t *testing.T) {
	got := lineDiff("a\nb\nc\n", "a\nB\nc\n")
	want := " a\n-b\n+B\n c\n"
	if got != want {
		t.Errorf("lineDiff() = %q, want %q", got, want)
	}
}

func TestLineDiffIdentical(t *testing.T) {
	got := lineDiff("x\n", "x\n")
	if strings.ContainsAny(got, "+-") {
		t.Errorf("identical texts produced changes: %q", got)
	}
}
