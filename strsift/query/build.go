package query

import (
	"fmt"
	"strings"
)

// Builder converts parse trees into condition trees using a Resolver.
type Builder struct {
	r *Resolver
}

// NewBuilder returns a Builder backed by r.
func NewBuilder(r *Resolver) *Builder {
	return &Builder{r: r}
}

// Build walks the parse tree bottom-up and returns the canonical condition.
func (b *Builder) Build(n Node) (Condition, error) {
	switch n := n.(type) {
	case ComparisonNode:
		v, err := b.number(n.Number)
		if err != nil {
			return nil, err
		}
		return Comparison{Field: b.r.Field(n.Unit), Op: b.r.Op(n.Quantity), Value: v}, nil

	case LengthPhraseNode:
		v, err := b.number(n.Number)
		if err != nil {
			return nil, err
		}
		op := OpEq
		if n.Quantity != "" {
			op = b.r.Op(n.Quantity)
		}
		return Comparison{Field: b.r.Field(n.Unit), Op: op, Value: v}, nil

	case BareCountNode:
		v, err := b.number(n.Number)
		if err != nil {
			return nil, err
		}
		return Comparison{Field: b.r.Field(n.Unit), Op: b.r.HeadAdjOp(n.Adj), Value: v}, nil

	case RangeNode:
		r := Range{Field: b.r.Field(n.Unit), Min: DefaultRangeMin, Max: DefaultRangeMax}
		if n.Min != nil {
			v, err := b.number(*n.Min)
			if err != nil {
				return nil, err
			}
			r.Min = v
		}
		if n.Max != nil {
			v, err := b.number(*n.Max)
			if err != nil {
				return nil, err
			}
			r.Max = v
		}
		return r, nil

	case ElementNode:
		c, err := b.target(n.Target)
		if err != nil {
			return nil, err
		}
		c.Neg = n.Neg
		return c, nil

	case PositionalNode, CountNode, ClassNode, LetterNode:
		return b.target(n)

	case QualNode:
		return b.qualitative(n)

	case HeadOnlyNode:
		return All{}, nil

	case CompoundNode:
		clauses := make([]Clause, 0, len(n.Items))
		for _, item := range n.Items {
			c, err := b.Build(item.Node)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, Clause{Op: boolOp(item.Conj), Condition: c})
		}
		return NewCompound(clauses), nil

	default:
		return nil, fmt.Errorf("unhandled parse node %T", n)
	}
}

// target builds the containment condition for an element or attachment.
func (b *Builder) target(n Node) (Contains, error) {
	switch t := n.(type) {
	case PositionalNode:
		pos, err := b.ordinal(t.Ordinal)
		if err != nil {
			return Contains{}, err
		}
		c := Contains{Subtype: SubtypePositional, Position: pos}
		if t.Letter != "" {
			c.Letter = t.Letter
		} else {
			c.Class = b.r.Class(t.Class)
		}
		return c, nil
	case CountNode:
		v, err := b.number(t.Number)
		if err != nil {
			return Contains{}, err
		}
		return Contains{Subtype: SubtypeCount, Field: b.r.Field(t.Unit), Value: v}, nil
	case ClassNode:
		return Contains{Subtype: SubtypeCharClass, Class: b.r.Class(t.Word)}, nil
	case LetterNode:
		return Contains{Subtype: SubtypeLetter, Letter: t.Letter}, nil
	default:
		return Contains{}, fmt.Errorf("unhandled containment target %T", n)
	}
}

func (b *Builder) qualitative(n QualNode) (Condition, error) {
	q := Qualitative{Qual: QualPalindrome}
	if len(n.Words) > 0 {
		q.Qual = b.r.Qual(n.Words[0])
	}

	if n.Attached != nil {
		c, err := b.target(n.Attached)
		if err != nil {
			return nil, err
		}
		return NewCompound([]Clause{
			{Op: BoolAnd, Condition: q},
			{Op: BoolAnd, Condition: c},
		}), nil
	}

	if n.Count != nil {
		v, err := b.number(n.Count.Number)
		if err != nil {
			return nil, err
		}
		if n.Count.Unit == "" || b.r.Field(n.Count.Unit) == FieldWordCount {
			q.WordCount = &v
		} else {
			q.Length = &v
		}
	}
	return q, nil
}

func (b *Builder) number(n NumberLit) (int, error) {
	switch n.Text {
	case "single", "mono", "monoword":
		return 1, nil
	case "double", "pair", "couple":
		return 2, nil
	case "":
		return 0, fmt.Errorf("missing number")
	}
	return parseInt(n.Text)
}

func (b *Builder) ordinal(o OrdinalLit) (int, error) {
	if v, ok := ordinalWords[o.Text]; ok {
		return v, nil
	}
	digits := strings.TrimRight(o.Text, "abcdefghijklmnopqrstuvwxyz")
	v, err := parseInt(digits)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("position %d out of range", v)
	}
	return v, nil
}

func boolOp(conj string) BoolOp {
	if conj == "or" {
		return BoolOr
	}
	return BoolAnd
}
