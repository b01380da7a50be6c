package ui

import (
	"bytes"
	"testing"
)

func TestPrefixes(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	p := New(&buf)
	p.Info("cloning %s", "acme/widget")
	p.Warn("skipping")
	p.Error("failed: %d", 2)
	p.Done("installed")

	want := "[INFO] cloning acme/widget\n[WARN] skipping\n[ERR] failed: 2\n[DONE] installed\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if got := p.Question("Overwrite %s?", "a.fpp"); got != "[???] Overwrite a.fpp?" {
		t.Errorf("Question = %q", got)
	}
}
