// Package scanner extracts template variables and "@!" directives from config
// objects. Lex turns text into tokens in one pass; Scan assembles the tokens
// into a Result; Strip removes the directive lines from rendered output.
package scanner
