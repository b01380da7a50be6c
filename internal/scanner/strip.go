package scanner

import "strings"

// Strip removes directive artefacts from rendered text: the description block
// (markers included) and every metadata declaration. A declaration sharing its
// line with other content is cut off and the content kept.
func Strip(text string) string {
	var b strings.Builder
	inDescription := false

	for _, tok := range Lex(text) {
		switch tok.Kind {
		case TokenDescriptionOpen:
			inDescription = true
		case TokenDescriptionClose:
			inDescription = false
		case TokenText:
			if inDescription || isDirectiveLine(tok.Text) {
				continue
			}
			line, keep := stripDeclaration(tok.Text)
			if keep {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}

	out := b.String()
	if !strings.HasSuffix(text, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

// stripDeclaration cuts an "@! key = value" declaration from a line. It reports
// false when nothing but whitespace or a comment leader remains.
func stripDeclaration(line string) (string, bool) {
	m := declarationPattern.FindStringIndex(line)
	if m == nil {
		return line, true
	}
	rest := strings.TrimRight(line[:m[0]], " \t")
	if isBlankComment(rest) {
		return "", false
	}
	return rest, true
}

func isBlankComment(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "#/*@")
	return strings.TrimSpace(s) == ""
}
