package planner

import (
	"errors"
	"fmt"

	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/storage"
)

// ErrUnknownField is matched by UnknownFieldError.
var ErrUnknownField = errors.New("unknown field")

// UnknownFieldError reports a condition attribute the schema lacks.
type UnknownFieldError struct {
	Attr string
}

func (e *UnknownFieldError) Error() string        { return "unknown field: " + e.Attr }
func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// Plan is a compiled condition: the predicate pushed to storage and the
// positional conditions storage cannot answer.
type Plan struct {
	Condition query.Condition
	Pushdown  Pred
	// PostFilter lists every positional leaf of Condition.
	PostFilter []query.Contains
	// NeedsPostFilter is set when candidates must be re-checked with Eval
	// because Pushdown is only a superset of the exact result.
	NeedsPostFilter bool
	ExplainSteps    []string
}

// compiler walks a condition tree and emits pushdown predicates
type compiler struct {
	schema       storage.Schema
	post         []query.Contains
	explainSteps []string
}

// Compile translates cond into a Plan against schema. Positional
// containment is relaxed for storage: a non-negated leaf with a positive
// position becomes "contains any member", every other positional leaf
// becomes True. The relaxed predicate never excludes an exact match.
func Compile(schema storage.Schema, cond query.Condition) (*Plan, error) {
	if err := query.Validate(cond); err != nil {
		return nil, err
	}
	c := &compiler{schema: schema}
	pred, err := c.compile(cond)
	if err != nil {
		return nil, err
	}
	c.step("PUSHDOWN %s", pred)
	return &Plan{
		Condition:       cond,
		Pushdown:        pred,
		PostFilter:      c.post,
		NeedsPostFilter: len(c.post) > 0,
		ExplainSteps:    c.explainSteps,
	}, nil
}

func (c *compiler) step(format string, args ...any) {
	c.explainSteps = append(c.explainSteps, fmt.Sprintf(format, args...))
}

func (c *compiler) attr(name string) (string, error) {
	if !c.schema.HasAttribute(name) {
		return "", &UnknownFieldError{Attr: name}
	}
	return name, nil
}

func (c *compiler) compile(cond query.Condition) (Pred, error) {
	switch n := cond.(type) {
	case query.All:
		return True{}, nil

	case query.Comparison:
		attr, err := c.attr(string(n.Field))
		if err != nil {
			return nil, err
		}
		return Cmp{Attr: attr, Op: n.Op, Value: n.Value}, nil

	case query.Range:
		attr, err := c.attr(string(n.Field))
		if err != nil {
			return nil, err
		}
		return Between{Attr: attr, Min: n.Min, Max: n.Max}, nil

	case query.Contains:
		return c.compileContains(n)

	case query.Qualitative:
		attr, err := c.attr(storage.AttrIsPalindrome)
		if err != nil {
			return nil, err
		}
		preds := []Pred{IsTrue{Attr: attr, Value: true}}
		if n.WordCount != nil {
			wc, err := c.attr(storage.AttrWordCount)
			if err != nil {
				return nil, err
			}
			preds = append(preds, Cmp{Attr: wc, Op: query.OpEq, Value: *n.WordCount})
		}
		if n.Length != nil {
			l, err := c.attr(storage.AttrLength)
			if err != nil {
				return nil, err
			}
			preds = append(preds, Cmp{Attr: l, Op: query.OpEq, Value: *n.Length})
		}
		return AllOf(preds...), nil

	case query.Compound:
		var acc Pred
		for i, cl := range n.Conditions {
			p, err := c.compile(cl.Condition)
			if err != nil {
				return nil, err
			}
			switch {
			case i == 0:
				acc = p
			case cl.Op == query.BoolOr:
				acc = NewOr(acc, p)
			default:
				acc = NewAnd(acc, p)
			}
		}
		return acc, nil

	default:
		return nil, fmt.Errorf("unknown condition type: %T", cond)
	}
}

func (c *compiler) compileContains(n query.Contains) (Pred, error) {
	var p Pred
	switch n.Subtype {
	case query.SubtypeCount:
		attr, err := c.attr(string(n.Field))
		if err != nil {
			return nil, err
		}
		p = Cmp{Attr: attr, Op: query.OpGte, Value: n.Value}

	case query.SubtypeCharClass, query.SubtypeLetter:
		attr, err := c.attr(storage.AttrValue)
		if err != nil {
			return nil, err
		}
		p = ContainsAny{Attr: attr, Chars: memberSet(n)}

	case query.SubtypePositional:
		attr, err := c.attr(storage.AttrValue)
		if err != nil {
			return nil, err
		}
		c.post = append(c.post, n)
		if n.Neg || n.Position <= 0 {
			c.step("POSTFILTER %s (pushdown TRUE)", describePositional(n))
			return True{}, nil
		}
		c.step("POSTFILTER %s (pushdown contains any %q)", describePositional(n), memberSet(n))
		return ContainsAny{Attr: attr, Chars: memberSet(n)}, nil

	default:
		return nil, fmt.Errorf("unknown contains subtype: %q", n.Subtype)
	}
	if n.Neg {
		return NewNot(p), nil
	}
	return p, nil
}

// memberSet is the set of characters a letter or class leaf refers to.
func memberSet(n query.Contains) string {
	if n.Class != "" {
		return n.Class.Members()
	}
	return n.Letter
}

func describePositional(n query.Contains) string {
	what := n.Letter
	if n.Class != "" {
		what = string(n.Class)
	}
	pos := fmt.Sprintf("#%d", n.Position)
	if n.Position == query.PositionLast {
		pos = "last"
	}
	neg := ""
	if n.Neg {
		neg = "not "
	}
	return fmt.Sprintf("%s%s %s", neg, what, pos)
}
