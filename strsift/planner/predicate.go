package planner

import (
	"fmt"

	"github.com/strsift/strsift/strsift/query"
)

// Pred is a pushdown predicate over stored attributes.
type Pred interface {
	isPred()
	String() string
}

// True matches every record.
type True struct{}

// Cmp compares an integer attribute with a constant.
type Cmp struct {
	Attr  string
	Op    query.Op
	Value int
}

// Between is an inclusive integer range.
type Between struct {
	Attr     string
	Min, Max int
}

// IsTrue tests a boolean attribute.
type IsTrue struct {
	Attr  string
	Value bool
}

// ContainsAny matches when the attribute contains at least one of Chars.
type ContainsAny struct {
	Attr  string
	Chars string
}

// LikeKind selects where a Like pattern is anchored.
type LikeKind int

const (
	LikeContains LikeKind = iota
	LikePrefix
	LikeSuffix
)

// Like matches a literal substring, prefix or suffix of the attribute.
type Like struct {
	Attr string
	Kind LikeKind
	Text string
}

// CharCount compares the stored frequency of one character.
type CharCount struct {
	Attr  string
	Char  string
	Op    query.Op
	Value int
}

type Not struct{ Inner Pred }
type And struct{ Left, Right Pred }
type Or struct{ Left, Right Pred }

func (True) isPred()        {}
func (Cmp) isPred()         {}
func (Between) isPred()     {}
func (IsTrue) isPred()      {}
func (ContainsAny) isPred() {}
func (Like) isPred()        {}
func (CharCount) isPred()   {}
func (Not) isPred()         {}
func (And) isPred()         {}
func (Or) isPred()          {}

func (True) String() string      { return "TRUE" }
func (p Cmp) String() string     { return fmt.Sprintf("%s %s %d", p.Attr, p.Op, p.Value) }
func (p Between) String() string { return fmt.Sprintf("%s BETWEEN %d AND %d", p.Attr, p.Min, p.Max) }
func (p IsTrue) String() string  { return fmt.Sprintf("%s IS %t", p.Attr, p.Value) }
func (p ContainsAny) String() string {
	return fmt.Sprintf("%s CONTAINS ANY %q", p.Attr, p.Chars)
}
func (p Like) String() string {
	kind := [...]string{"CONTAINS", "STARTS WITH", "ENDS WITH"}[p.Kind]
	return fmt.Sprintf("%s %s %q", p.Attr, kind, p.Text)
}
func (p CharCount) String() string {
	return fmt.Sprintf("COUNT(%q IN %s) %s %d", p.Char, p.Attr, p.Op, p.Value)
}
func (p Not) String() string { return "NOT (" + p.Inner.String() + ")" }
func (p And) String() string { return "(" + p.Left.String() + " AND " + p.Right.String() + ")" }
func (p Or) String() string  { return "(" + p.Left.String() + " OR " + p.Right.String() + ")" }

// NewAnd conjoins two predicates, dropping True operands.
func NewAnd(l, r Pred) Pred {
	if isTrue(l) {
		return r
	}
	if isTrue(r) {
		return l
	}
	return And{l, r}
}

// NewOr disjoins two predicates; a True operand makes the whole True.
func NewOr(l, r Pred) Pred {
	if isTrue(l) || isTrue(r) {
		return True{}
	}
	return Or{l, r}
}

// NewNot negates p, removing a double negation.
func NewNot(p Pred) Pred {
	if n, ok := p.(Not); ok {
		return n.Inner
	}
	return Not{p}
}

// AllOf conjoins every predicate in ps; an empty list is True.
func AllOf(ps ...Pred) Pred {
	var out Pred = True{}
	for _, p := range ps {
		out = NewAnd(out, p)
	}
	return out
}

// AnyOf disjoins every predicate in ps; an empty list is True.
func AnyOf(ps ...Pred) Pred {
	if len(ps) == 0 {
		return True{}
	}
	out := ps[0]
	for _, p := range ps[1:] {
		out = NewOr(out, p)
	}
	return out
}

func isTrue(p Pred) bool {
	_, ok := p.(True)
	return ok
}
