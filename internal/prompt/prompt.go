// Package prompt asks the user single questions, either on a terminal
// through survey or over plain line-oriented streams.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// ErrNoAnswer is returned when the input ends before an answer is given.
var ErrNoAnswer = errors.New("no answer: input closed")

// Asker asks one question. When allowed is non-empty the answer must match
// one of its entries (case-insensitive) and is returned in that spelling;
// invalid answers are asked again. An empty allowed list accepts free text.
type Asker interface {
	Ask(question string, allowed []string) (string, error)
}

// New returns a Survey asker when in is a terminal, otherwise a Lines asker.
func New(in io.Reader, out io.Writer) Asker {
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return Survey{}
	}
	return NewLines(in, out)
}

// Survey asks on the controlling terminal.
type Survey struct{}

// Ask implements Asker.
func (Survey) Ask(question string, allowed []string) (string, error) {
	var answer string
	q := &survey.Input{Message: question}
	if len(allowed) > 0 {
		q.Message = fmt.Sprintf("%s [%s]", question, strings.Join(allowed, "/"))
	}

	var opts []survey.AskOpt
	if len(allowed) > 0 {
		opts = append(opts, survey.WithValidator(oneOf(allowed)))
	}
	if err := survey.AskOne(q, &answer, opts...); err != nil {
		return "", fmt.Errorf("prompting: %w", err)
	}
	if len(allowed) > 0 {
		answer, _ = match(answer, allowed)
	}
	return strings.TrimSpace(answer), nil
}

func oneOf(allowed []string) survey.Validator {
	return func(val interface{}) error {
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", val)
		}
		if _, ok := match(s, allowed); !ok {
			return fmt.Errorf("answer must be one of: %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}

// Lines asks over a reader and writer, one answer per line.
type Lines struct {
	r *bufio.Reader
	w io.Writer
}

// NewLines returns a Lines asker.
func NewLines(r io.Reader, w io.Writer) *Lines {
	return &Lines{r: bufio.NewReader(r), w: w}
}

// Ask implements Asker.
func (l *Lines) Ask(question string, allowed []string) (string, error) {
	for {
		if len(allowed) > 0 {
			fmt.Fprintf(l.w, "%s [%s]: ", question, strings.Join(allowed, "/"))
		} else {
			fmt.Fprintf(l.w, "%s: ", question)
		}

		line, err := l.r.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			if errors.Is(err, io.EOF) {
				return "", ErrNoAnswer
			}
			return "", fmt.Errorf("reading answer: %w", err)
		}
		answer := strings.TrimSpace(line)

		if len(allowed) == 0 {
			return answer, nil
		}
		if m, ok := match(answer, allowed); ok {
			return m, nil
		}
		fmt.Fprintf(l.w, "Please answer one of: %s\n", strings.Join(allowed, ", "))
		if err != nil {
			return "", ErrNoAnswer
		}
	}
}

func match(answer string, allowed []string) (string, bool) {
	answer = strings.TrimSpace(answer)
	for _, a := range allowed {
		if strings.EqualFold(answer, a) {
			return a, true
		}
	}
	return "", false
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
