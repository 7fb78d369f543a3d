package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// capture is a labelled token value collected while matching an alternative.
type capture struct {
	label string
	text  string
}

// span is one way a matcher can consume input: where it stopped and what it captured.
type span struct {
	end  int
	caps []capture
}

// matcher returns every derivation starting at pos, most preferred first.
type matcher func(st *parseState, pos int, caps []capture) []span

// alternative is one single-condition production.
type alternative struct {
	name  string
	match matcher
	build func(caps []capture) Node
}

var errBudget = errors.New("parse step budget exhausted")

// parseState is the per-call mutable state; the grammar itself is shared.
type parseState struct {
	ctx      context.Context
	toks     []Token
	steps    int
	maxSteps int
	furthest int
	err      error
	memo     map[int]*chain
}

// chain is the parse of "single ((conj | comma) single)* EOF" from a position.
type chain struct {
	ok   bool
	conj string
	node Node
	next *chain
}

func (st *parseState) step() bool {
	if st.err != nil {
		return false
	}
	st.steps++
	if st.maxSteps > 0 && st.steps > st.maxSteps {
		st.err = errBudget
		return false
	}
	if st.steps%64 == 0 {
		if err := st.ctx.Err(); err != nil {
			st.err = err
			return false
		}
	}
	return true
}

func (st *parseState) word(pos int) (string, bool) {
	if pos >= len(st.toks) || st.toks[pos].Kind != TokWord {
		return "", false
	}
	if pos > st.furthest {
		st.furthest = pos
	}
	return st.toks[pos].Value, true
}

func extend(caps []capture, c capture) []capture {
	out := make([]capture, len(caps), len(caps)+1)
	copy(out, caps)
	return append(out, c)
}

// combinators

func wordIn(label string, set map[string]bool) matcher {
	return func(st *parseState, pos int, caps []capture) []span {
		if !st.step() {
			return nil
		}
		w, ok := st.word(pos)
		if !ok || !set[w] {
			return nil
		}
		if label != "" {
			caps = extend(caps, capture{label, w})
		}
		return []span{{pos + 1, caps}}
	}
}

func words(label string, ws ...string) matcher {
	return wordIn(label, setOf(ws...))
}

func tokenOf(label string, kind TokenKind, accept func(string) bool) matcher {
	return func(st *parseState, pos int, caps []capture) []span {
		if !st.step() || pos >= len(st.toks) {
			return nil
		}
		tok := st.toks[pos]
		if tok.Kind != kind || (accept != nil && !accept(tok.Value)) {
			return nil
		}
		if pos > st.furthest {
			st.furthest = pos
		}
		if label != "" {
			caps = extend(caps, capture{label, tok.Value})
		}
		return []span{{pos + 1, caps}}
	}
}

// phrase matches consecutive literal words and records key under label.
func phrase(label, key string, ws ...string) matcher {
	return func(st *parseState, pos int, caps []capture) []span {
		if !st.step() {
			return nil
		}
		for i, want := range ws {
			w, ok := st.word(pos + i)
			if !ok || w != want {
				return nil
			}
		}
		if label != "" {
			caps = extend(caps, capture{label, key})
		}
		return []span{{pos + len(ws), caps}}
	}
}

func seq(ms ...matcher) matcher {
	return func(st *parseState, pos int, caps []capture) []span {
		cur := []span{{pos, caps}}
		for _, m := range ms {
			var next []span
			for _, sp := range cur {
				next = append(next, m(st, sp.end, sp.caps)...)
			}
			if len(next) == 0 {
				return nil
			}
			cur = next
		}
		return cur
	}
}

func alt(ms ...matcher) matcher {
	return func(st *parseState, pos int, caps []capture) []span {
		var out []span
		for _, m := range ms {
			out = append(out, m(st, pos, caps)...)
		}
		return out
	}
}

// opt prefers consuming m and falls back to skipping it.
func opt(m matcher) matcher {
	return func(st *parseState, pos int, caps []capture) []span {
		return append(m(st, pos, caps), span{pos, caps})
	}
}

// many1 matches m one or more times, longest first.
func many1(m matcher) matcher {
	var self matcher
	self = func(st *parseState, pos int, caps []capture) []span {
		var out []span
		for _, sp := range m(st, pos, caps) {
			out = append(out, self(st, sp.end, sp.caps)...)
			out = append(out, sp)
		}
		return out
	}
	return self
}

func setOf(ws ...string) map[string]bool {
	m := make(map[string]bool, len(ws))
	for _, w := range ws {
		m[w] = true
	}
	return m
}

func lookup(caps []capture, label string) (string, bool) {
	for i := len(caps) - 1; i >= 0; i-- {
		if caps[i].label == label {
			return caps[i].text, true
		}
	}
	return "", false
}

func lookupAll(caps []capture, label string) []string {
	var out []string
	for _, c := range caps {
		if c.label == label {
			out = append(out, c.text)
		}
	}
	return out
}

// vocabulary

var (
	detWords     = setOf("all", "any", "each", "every", "the", "a", "an")
	headWords    = setOf("string", "strings", "text", "texts", "phrase", "phrases", "entry", "entries")
	relProWords  = setOf("that", "which", "whose")
	copulaWords  = setOf("is", "are")
	auxWords     = setOf("do", "does")
	verbWords    = setOf("have", "has", "having", "contain", "contains", "containing", "include", "includes", "including")
	prepWords    = setOf("of", "with", "at", "in")
	conjWords    = setOf("and", "or", "but")
	quantityWord = setOf("single", "mono", "monoword", "double", "pair", "couple")
	headAdjWords = setOf("long", "short", "exactly", "just", "only")
	ordinalWords = map[string]int{
		"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
		"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
		"last": PositionLast,
	}
)

var multiWordAdjs = []struct {
	key   string
	words []string
}{
	{"not_longer_than", []string{"not", "longer", "than"}},
	{"not_shorter_than", []string{"not", "shorter", "than"}},
	{"at_least", []string{"at", "least"}},
	{"at_most", []string{"at", "most"}},
	{"longer_than", []string{"longer", "than"}},
	{"shorter_than", []string{"shorter", "than"}},
	{"greater_than", []string{"greater", "than"}},
	{"less_than", []string{"less", "than"}},
	{"more_than", []string{"more", "than"}},
	{"fewer_than", []string{"fewer", "than"}},
	{"equal_to", []string{"equal", "to"}},
}

func isLetter(w string) bool {
	return len(w) == 1 && w[0] >= 'a' && w[0] <= 'z'
}

func isOrdinalWord(w string) bool {
	_, ok := ordinalWords[w]
	return ok
}

// grammar holds the single-condition alternatives in precedence order.
type grammar struct {
	singles []alternative
}

func newGrammar(r *Resolver) *grammar {
	var (
		det    = wordIn("", detWords)
		head   = wordIn("", headWords)
		relPro = wordIn("", relProWords)
		copula = wordIn("", copulaWords)
		verb   = wordIn("", verbWords)
		prep   = wordIn("", prepWords)
		the    = words("", "the")

		unit = func(label string) matcher {
			return tokenOf(label, TokWord, r.isUnit)
		}
		number = func(label string) matcher {
			return alt(
				tokenOf(label, TokNumber, nil),
				wordIn(label, quantityWord),
			)
		}
		class = func(label string) matcher {
			return tokenOf(label, TokWord, r.isClass)
		}
		qual = tokenOf("qual", TokWord, r.isQual)

		letter = seq(opt(words("", "letter", "letters")), tokenOf("letter", TokWord, isLetter))

		ordinal  = alt(tokenOf("ordinal", TokWord, isOrdinalWord), tokenOf("ordinal", TokCardinal, nil))
		position = alt(ordinal, tokenOf("ordinal", TokNumber, nil))
	)

	var mwa []matcher
	for _, m := range multiWordAdjs {
		mwa = append(mwa, phrase("quantity", m.key, m.words...))
	}
	adjQuantity := alt(append(mwa, tokenOf("quantity", TokWord, r.isAdj))...)
	operator := tokenOf("quantity", TokOperator, r.isOperator)

	subject := seq(opt(det), opt(head))
	linking := opt(alt(seq(opt(relPro), alt(copula, verb)), relPro))

	classOrLetter := alt(class("class"), letter)
	positional := alt(
		seq(opt(the), ordinal, classOrLetter),
		seq(opt(det), classOrLetter, words("", "at", "in"), opt(the), opt(words("", "position")), position),
		seq(opt(det), classOrLetter, words("", "at", "in"), opt(the), position, words("", "position")),
	)
	count := seq(number("number"), unit("unit"))
	classTarget := seq(opt(det), class("class"))
	letterTarget := seq(opt(the), letter)
	target := alt(positional, count, classTarget, letterTarget)

	comparison := alt(
		seq(subject, linking, opt(prep), adjQuantity, number("number"), unit("unit")),
		seq(subject, linking, opt(prep), operator, number("number"), opt(unit("unit"))),
		seq(number("number"), unit("unit"), tokenOf("quantity", TokWord, r.isAdj)),
	)

	element := alt(
		seq(subject, opt(relPro), opt(wordIn("", auxWords)), opt(words("neg", "not", "no")), verb, target),
		seq(subject, words("neg", "without", "excluding"), target),
		seq(subject, words("", "with"), opt(words("neg", "no")), target),
	)

	rangeCond := alt(
		seq(subject, linking, opt(prep), words("", "between"), number("min"), words("", "and"), number("max"), opt(unit("unit"))),
		seq(subject, linking, opt(prep), words("", "from"), number("min"), opt(seq(words("", "to"), number("max"))), opt(unit("unit"))),
		seq(subject, linking, opt(prep), phrase("", "", "up", "to"), number("max"), opt(unit("unit"))),
	)

	lengthPhrase := seq(subject, prep, words("", "length"), opt(alt(adjQuantity, operator)), number("number"), opt(unit("unit")))

	quals := many1(qual)
	link := alt(seq(opt(relPro), verb), prep)
	attach := alt(positional, seq(number("number"), opt(unit("unit"))), classTarget, letterTarget)
	qualitative := alt(
		seq(opt(det), number("number"), unit("unit"), quals, opt(head)),
		seq(opt(det), quals, opt(head), link, attach),
		seq(opt(det), quals, link, attach, opt(head)),
		seq(opt(det), number("number"), opt(unit("unit")), quals, opt(head)),
		seq(opt(det), quals, number("number"), opt(unit("unit")), opt(head)),
		seq(opt(det), quals, opt(head)),
	)

	bareCount := seq(opt(det), number("number"), unit("unit"), opt(wordIn("adj", headAdjWords)), opt(head))
	headOnly := seq(opt(det), head)

	return &grammar{singles: []alternative{
		{"comparison", comparison, buildComparisonNode},
		{"element", element, buildElementNode},
		{"range", rangeCond, buildRangeNode},
		{"length_phrase", lengthPhrase, buildLengthPhraseNode},
		{"qualitative", qualitative, buildQualNode},
		{"bare_count", bareCount, buildBareCountNode},
		{"head_only", headOnly, func([]capture) Node { return HeadOnlyNode{} }},
	}}
}

// parse runs the ordered-choice search over the whole token stream.
func (g *grammar) parse(st *parseState) (Node, error) {
	c := g.chainAt(st, 0)
	if st.err != nil {
		return nil, st.err
	}
	if c == nil || !c.ok {
		return nil, ErrUnparsable
	}

	var items []Joined
	for cur := c; cur != nil; cur = cur.next {
		items = append(items, Joined{Conj: cur.conj, Node: cur.node})
	}
	if len(items) == 1 {
		return items[0].Node, nil
	}
	return CompoundNode{Items: items}, nil
}

// chainAt parses one single condition at pos followed by zero or more joined
// conditions up to EOF. For each alternative in precedence order, every
// derivation is tried and the first one whose end lets the rest of the query
// parse wins.
func (g *grammar) chainAt(st *parseState, pos int) *chain {
	if c, ok := st.memo[pos]; ok {
		return c
	}
	st.memo[pos] = &chain{}

	eof := len(st.toks) - 1
	for _, a := range g.singles {
		for _, sp := range a.match(st, pos, nil) {
			if st.err != nil {
				return nil
			}
			if sp.end == pos {
				continue
			}
			node := a.build(sp.caps)
			if sp.end == eof {
				c := &chain{ok: true, node: node}
				st.memo[pos] = c
				return c
			}
			conj, next, ok := joinerAt(st, sp.end)
			if !ok {
				continue
			}
			rest := g.chainAt(st, next)
			if rest == nil || !rest.ok {
				continue
			}
			tail := *rest
			tail.conj = conj
			c := &chain{ok: true, node: node, next: &tail}
			st.memo[pos] = c
			return c
		}
	}
	return st.memo[pos]
}

// joinerAt matches a conjunction, a comma, or a comma followed by a conjunction.
func joinerAt(st *parseState, pos int) (string, int, bool) {
	if pos >= len(st.toks) {
		return "", pos, false
	}
	tok := st.toks[pos]
	switch {
	case tok.Kind == TokComma:
		if w, ok := st.word(pos + 1); ok && conjWords[w] {
			return w, pos + 2, true
		}
		return ",", pos + 1, true
	case tok.Kind == TokWord && conjWords[tok.Value]:
		return tok.Value, pos + 1, true
	}
	return "", pos, false
}

// node constructors

func numberLit(caps []capture, label string) NumberLit {
	v, _ := lookup(caps, label)
	return NumberLit{Text: v}
}

func buildComparisonNode(caps []capture) Node {
	q, _ := lookup(caps, "quantity")
	u, _ := lookup(caps, "unit")
	return ComparisonNode{Quantity: q, Number: numberLit(caps, "number"), Unit: u}
}

func buildTarget(caps []capture) Node {
	if o, ok := lookup(caps, "ordinal"); ok {
		cl, _ := lookup(caps, "class")
		l, _ := lookup(caps, "letter")
		return PositionalNode{Ordinal: OrdinalLit{Text: o}, Class: cl, Letter: l}
	}
	if _, ok := lookup(caps, "number"); ok {
		u, _ := lookup(caps, "unit")
		return CountNode{Number: numberLit(caps, "number"), Unit: u}
	}
	if cl, ok := lookup(caps, "class"); ok {
		return ClassNode{Word: cl}
	}
	l, _ := lookup(caps, "letter")
	return LetterNode{Letter: l}
}

func buildElementNode(caps []capture) Node {
	_, neg := lookup(caps, "neg")
	return ElementNode{Neg: neg, Target: buildTarget(caps)}
}

func buildRangeNode(caps []capture) Node {
	var n RangeNode
	if v, ok := lookup(caps, "min"); ok {
		n.Min = &NumberLit{Text: v}
	}
	if v, ok := lookup(caps, "max"); ok {
		n.Max = &NumberLit{Text: v}
	}
	n.Unit, _ = lookup(caps, "unit")
	return n
}

func buildLengthPhraseNode(caps []capture) Node {
	q, _ := lookup(caps, "quantity")
	u, _ := lookup(caps, "unit")
	return LengthPhraseNode{Quantity: q, Number: numberLit(caps, "number"), Unit: u}
}

func buildQualNode(caps []capture) Node {
	n := QualNode{Words: lookupAll(caps, "qual")}
	_, hasOrdinal := lookup(caps, "ordinal")
	_, hasClass := lookup(caps, "class")
	_, hasLetter := lookup(caps, "letter")
	switch {
	case hasOrdinal || hasClass || hasLetter:
		n.Attached = buildTarget(caps)
	default:
		if _, ok := lookup(caps, "number"); ok {
			u, _ := lookup(caps, "unit")
			n.Count = &CountNode{Number: numberLit(caps, "number"), Unit: u}
		}
	}
	return n
}

func buildBareCountNode(caps []capture) Node {
	u, _ := lookup(caps, "unit")
	adj, _ := lookup(caps, "adj")
	return BareCountNode{Number: numberLit(caps, "number"), Unit: u, Adj: adj}
}

// parseInt resolves a digit string that the lexer already validated.
func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", s, err)
	}
	return n, nil
}
