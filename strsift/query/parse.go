package query

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	DefaultMaxQueryLength = 256
	DefaultParseTimeout   = 250 * time.Millisecond
	DefaultMaxSteps       = 200_000
)

// Options bounds the work a single parse may do.
type Options struct {
	MaxQueryLength int           // in runes, measured after normalization
	ParseTimeout   time.Duration // zero disables the deadline
	MaxSteps       int           // matcher invocations; zero disables the budget
}

// DefaultOptions returns the default parse bounds.
func DefaultOptions() Options {
	return Options{
		MaxQueryLength: DefaultMaxQueryLength,
		ParseTimeout:   DefaultParseTimeout,
		MaxSteps:       DefaultMaxSteps,
	}
}

// Result is the outcome of running the pipeline on one query.
type Result struct {
	Raw          string
	Normalized   string
	NormalizeErr error // swallowed spelled-number conversion error, if any
	Tree         Node
	Condition    Condition
}

// Parser is the compiled grammar plus its Resolver. It holds no per-query
// state and may be shared by any number of goroutines.
type Parser struct {
	opts     Options
	resolver *Resolver
	builder  *Builder
	grammar  *grammar
}

// NewParser compiles the grammar once. A nil resolver uses NewResolver().
func NewParser(r *Resolver, opts Options) *Parser {
	if r == nil {
		r = NewResolver()
	}
	return &Parser{
		opts:     opts,
		resolver: r,
		builder:  NewBuilder(r),
		grammar:  newGrammar(r),
	}
}

// Resolver returns the parser's resolver tables.
func (p *Parser) Resolver() *Resolver {
	return p.resolver
}

// Parse normalizes raw, parses it and builds the condition tree. Failures
// are *ParseError values wrapping ErrUnparsable or ErrParseTimeout.
func (p *Parser) Parse(ctx context.Context, raw string) (*Result, error) {
	normalized, normErr := NormalizeReport(raw)
	res := &Result{Raw: raw, Normalized: normalized, NormalizeErr: normErr}

	if normalized == "" {
		return res, &ParseError{Input: normalized, Err: ErrUnparsable}
	}
	if p.opts.MaxQueryLength > 0 && utf8.RuneCountInString(normalized) > p.opts.MaxQueryLength {
		return res, &ParseError{
			Input: normalized,
			Pos:   p.opts.MaxQueryLength,
			Err:   fmt.Errorf("%w: longer than %d characters", ErrUnparsable, p.opts.MaxQueryLength),
		}
	}

	toks, err := Lex(normalized)
	if err != nil {
		return res, &ParseError{Input: normalized, Err: fmt.Errorf("%w: %v", ErrUnparsable, err)}
	}

	if p.opts.ParseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.ParseTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return res, &ParseError{Input: normalized, Err: fmt.Errorf("%w: %w", ErrParseTimeout, err)}
	}

	st := &parseState{
		ctx:      ctx,
		toks:     toks,
		maxSteps: p.opts.MaxSteps,
		memo:     make(map[int]*chain),
	}
	tree, err := p.grammar.parse(st)
	if err != nil {
		pe := &ParseError{Input: normalized, Pos: toks[st.furthest].Pos, Err: err}
		if !errors.Is(err, ErrUnparsable) {
			pe.Err = fmt.Errorf("%w: %w", ErrParseTimeout, err)
		}
		return res, pe
	}
	res.Tree = tree

	cond, err := p.builder.Build(tree)
	if err == nil {
		err = Validate(cond)
	}
	if err != nil {
		return res, &ParseError{Input: normalized, Err: fmt.Errorf("%w: %v", ErrUnparsable, err)}
	}
	res.Condition = cond
	return res, nil
}
