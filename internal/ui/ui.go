// Package ui prints prefixed, colored status messages for the user.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes status lines to an output stream.
type Printer struct {
	w io.Writer
}

var (
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed, color.Bold)
	doneColor    = color.New(color.FgGreen)
	questionText = color.New(color.FgMagenta)
)

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// DisableColor turns off coloring for every Printer.
func DisableColor() {
	color.NoColor = true
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...interface{}) {
	p.line(infoColor, "[INFO]", format, args...)
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...interface{}) {
	p.line(warnColor, "[WARN]", format, args...)
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...interface{}) {
	p.line(errColor, "[ERR]", format, args...)
}

// Done prints a success line.
func (p *Printer) Done(format string, args ...interface{}) {
	p.line(doneColor, "[DONE]", format, args...)
}

// Question returns a question text with its prefix, for use with a prompt.
func (p *Printer) Question(format string, args ...interface{}) string {
	return questionText.Sprint("[???]") + " " + fmt.Sprintf(format, args...)
}

// Writer returns the underlying stream.
func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) line(c *color.Color, prefix, format string, args ...interface{}) {
	c.Fprint(p.w, prefix)
	fmt.Fprintf(p.w, " "+format+"\n", args...)
}
