package applier

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is how many unchanged lines are kept around each change.
const contextLines = 2

// lineDiff renders a line-oriented diff of oldText against newText with
// "-", "+" and " " prefixes. Long unchanged runs are collapsed to "...".
func lineDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out strings.Builder
	for i, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		chunk := strings.Split(text, "\n")

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writePrefixed(&out, "-", chunk)
		case diffmatchpatch.DiffInsert:
			writePrefixed(&out, "+", chunk)
		case diffmatchpatch.DiffEqual:
			head, tail := contextLines, contextLines
			if i == 0 {
				head = 0
			}
			if i == len(diffs)-1 {
				tail = 0
			}
			if len(chunk) <= head+tail+1 {
				writePrefixed(&out, " ", chunk)
				continue
			}
			writePrefixed(&out, " ", chunk[:head])
			out.WriteString("...\n")
			writePrefixed(&out, " ", chunk[len(chunk)-tail:])
		}
	}
	return out.String()
}

func writePrefixed(b *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		b.WriteString(prefix)
		b.WriteString(l)
		b.WriteString("\n")
	}
}
