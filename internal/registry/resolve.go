package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fprime-community/fprime-fppm/internal/fault"
	"github.com/fprime-community/fprime-fppm/internal/prompt"
)

// DefaultTimeout bounds a remote registry fetch when no client is supplied.
const DefaultTimeout = 30 * time.Second

// Resolver looks up packages across registries. Registries are fetched on
// every call; nothing is cached.
type Resolver struct {
	client  *http.Client
	logger  *zap.Logger
	asker   prompt.Asker
	out     io.Writer
	baseDir string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the client used for remote registries.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.client = c
	}
}

// WithLogger sets the logger that receives skipped-registry warnings.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithPrompt sets where the multiple-match enumeration is printed and how
// the selection is read.
func WithPrompt(a prompt.Asker, out io.Writer) Option {
	return func(r *Resolver) {
		r.asker = a
		r.out = out
	}
}

// WithBaseDir sets the directory relative local registry paths are read from.
func WithBaseDir(dir string) Option {
	return func(r *Resolver) {
		r.baseDir = dir
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		client: &http.Client{Timeout: DefaultTimeout},
		logger: zap.NewNop(),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps shortname to exactly one package source. Registries that
// cannot be fetched or fail validation are logged and skipped; when the only
// configured registry fails, its error is returned. Several matches are
// enumerated and the user picks one by number.
func (r *Resolver) Resolve(ctx context.Context, shortname string, registries []string) (*Match, error) {
	sn, err := ParseShortname(shortname)
	if err != nil {
		return nil, err
	}
	if len(registries) == 0 {
		return nil, fault.New(fault.ResolutionNotFound, shortname, "no registries configured")
	}

	var matches []Match
	var firstErr error
	for _, id := range registries {
		doc, err := r.Load(ctx, id)
		if err != nil {
			r.logger.Warn("skipping registry", zap.String("registry", id), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, info := range doc.Lookup(sn) {
			matches = append(matches, Match{Registry: id, Publisher: doc.Publisher, Info: info})
		}
	}

	switch len(matches) {
	case 0:
		if len(registries) == 1 && firstErr != nil {
			return nil, firstErr
		}
		return nil, fault.New(fault.ResolutionNotFound, shortname, "package not found in any registry")
	case 1:
		return &matches[0], nil
	default:
		return r.choose(sn, matches)
	}
}

func (r *Resolver) choose(sn Shortname, matches []Match) (*Match, error) {
	if r.asker == nil {
		return nil, fault.New(fault.ResolutionAmbiguous, sn.String(), "package found in %d registries and no selection is possible", len(matches))
	}

	fmt.Fprintf(r.out, "Package [%s] was found in multiple registries:\n", sn)
	for i, m := range matches {
		fmt.Fprintf(r.out, "  %d. %s (published by: %s)\n", i+1, m.Registry, m.Publisher)
	}

	answer, err := r.asker.Ask(fmt.Sprintf("Select a registry [1-%d]", len(matches)), nil)
	if err != nil {
		return nil, fault.Wrap(fault.ResolutionAmbiguous, sn.String(), err, "reading registry selection")
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(matches) {
		return nil, fault.New(fault.ResolutionAmbiguous, sn.String(), "invalid selection %q: expected a number from 1 to %d", answer, len(matches))
	}
	return &matches[n-1], nil
}

// Report is the outcome of validating one registry.
type Report struct {
	Registry string
	Document *Document
	Err      error
}

// Valid reports whether the registry loaded and validated.
func (rep Report) Valid() bool {
	return rep.Err == nil
}

// Validate loads every registry and reports on each, in order.
func (r *Resolver) Validate(ctx context.Context, registries []string) []Report {
	reports := make([]Report, 0, len(registries))
	for _, id := range registries {
		doc, err := r.Load(ctx, id)
		reports = append(reports, Report{Registry: id, Document: doc, Err: err})
	}
	return reports
}
