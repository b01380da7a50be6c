package scanner

import (
	"regexp"
	"sort"
	"strings"
)

// Directive tokens recognized in config objects.
const (
	DescriptionBegin = "@! begin config description"
	DescriptionEnd   = "@! end config description"

	KeyOutput   = "output"
	KeyPreHook  = "pre_hook"
	KeyPostHook = "post_hook"
)

// TokenKind identifies a lexical element of a config object.
type TokenKind int

const (
	// TokenText is a whole source line, emitted before any tokens found on it.
	TokenText TokenKind = iota
	// TokenDescriptionOpen is the "@! begin config description" marker.
	TokenDescriptionOpen
	// TokenDescriptionClose is the "@! end config description" marker.
	TokenDescriptionClose
	// TokenDeclaration is an "@! <key> = <value>" metadata declaration.
	TokenDeclaration
	// TokenVariable is an inline "{{ scope.name }}" marker.
	TokenVariable
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenDescriptionOpen:
		return "description-open"
	case TokenDescriptionClose:
		return "description-close"
	case TokenDeclaration:
		return "declaration"
	case TokenVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Token is one lexical element.
type Token struct {
	Kind TokenKind
	// Line is the 1-based source line, 0 for tokens lexed from a file name.
	Line int
	// Text is the raw source line the token was found on.
	Text string
	// Key and Value are set for declarations.
	Key   string
	Value string
	// Scope and Name are set for variables; Name is the trailing dotted segment.
	Scope string
	Name  string

	col int
}

var (
	// variablePattern matches {{ scope.name }} and {{ scope.a.b }}.
	variablePattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)+)\s*\}\}`)

	// declarationPattern matches "@! key = value" up to end of line.
	declarationPattern = regexp.MustCompile(`@!\s*(output|pre_hook|post_hook)\s*=(.*)$`)
)

// Lex splits text into tokens in a single pass over its lines. Each line yields
// a TokenText first, then its markers in column order.
func Lex(text string) []Token {
	var tokens []Token
	lines := splitLines(text)
	for i, line := range lines {
		tokens = append(tokens, Token{Kind: TokenText, Line: i + 1, Text: line})
		tokens = append(tokens, lexLine(line, i+1)...)
	}
	return tokens
}

// lexLine returns the marker tokens on a single line, ordered by column.
func lexLine(line string, lineNo int) []Token {
	var tokens []Token

	if col := strings.Index(line, DescriptionBegin); col >= 0 {
		tokens = append(tokens, Token{Kind: TokenDescriptionOpen, Line: lineNo, Text: line, col: col})
	}
	if col := strings.Index(line, DescriptionEnd); col >= 0 {
		tokens = append(tokens, Token{Kind: TokenDescriptionClose, Line: lineNo, Text: line, col: col})
	}
	if m := declarationPattern.FindStringSubmatchIndex(line); m != nil {
		tokens = append(tokens, Token{
			Kind:  TokenDeclaration,
			Line:  lineNo,
			Text:  line,
			Key:   line[m[2]:m[3]],
			Value: strings.TrimSpace(line[m[4]:m[5]]),
			col:   m[0],
		})
	}
	for _, m := range variablePattern.FindAllStringSubmatchIndex(line, -1) {
		path := line[m[2]:m[3]]
		segments := strings.Split(path, ".")
		tokens = append(tokens, Token{
			Kind:  TokenVariable,
			Line:  lineNo,
			Text:  line,
			Scope: segments[0],
			Name:  segments[len(segments)-1],
			col:   m[0],
		})
	}

	sort.SliceStable(tokens, func(a, b int) bool { return tokens[a].col < tokens[b].col })
	return tokens
}

// splitLines splits on "\n", dropping a single trailing empty line and any "\r".
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
