package planner

import (
	"fmt"
	"strings"

	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/storage"
)

// BuildWhere renders pred as a WHERE clause body. Constants go through
// builder so the fragment is safe to splice into a statement. dialect may
// be nil when pred holds no CharCount.
func BuildWhere(pred Pred, builder storage.Builder, schema storage.Schema, dialect storage.Dialect) (string, error) {
	r := sqlRenderer{b: builder, schema: schema, dialect: dialect}
	return r.render(pred)
}

type sqlRenderer struct {
	b       storage.Builder
	schema  storage.Schema
	dialect storage.Dialect
}

func (r sqlRenderer) column(attr string) (string, error) {
	col, ok := r.schema.Column(attr)
	if !ok {
		return "", &UnknownFieldError{Attr: attr}
	}
	return col, nil
}

func (r sqlRenderer) render(pred Pred) (string, error) {
	switch p := pred.(type) {
	case True:
		return "1=1", nil

	case Cmp:
		col, err := r.column(p.Attr)
		if err != nil {
			return "", err
		}
		op, err := sqlOp(p.Op)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", col, op, r.b.Arg(p.Value)), nil

	case Between:
		col, err := r.column(p.Attr)
		if err != nil {
			return "", err
		}
		lo := r.b.Arg(p.Min)
		hi := r.b.Arg(p.Max)
		return fmt.Sprintf("%s BETWEEN %s AND %s", col, lo, hi), nil

	case IsTrue:
		col, err := r.column(p.Attr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", col, r.b.Arg(p.Value)), nil

	case ContainsAny:
		col, err := r.column(p.Attr)
		if err != nil {
			return "", err
		}
		var parts []string
		for _, ch := range p.Chars {
			parts = append(parts, r.like(col, "%"+escapeLike(string(ch))+"%"))
		}
		switch len(parts) {
		case 0:
			return "1=0", nil
		case 1:
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil

	case Like:
		col, err := r.column(p.Attr)
		if err != nil {
			return "", err
		}
		text := escapeLike(strings.ToLower(p.Text))
		switch p.Kind {
		case LikePrefix:
			text = text + "%"
		case LikeSuffix:
			text = "%" + text
		default:
			text = "%" + text + "%"
		}
		return r.like(col, text), nil

	case CharCount:
		col, err := r.column(p.Attr)
		if err != nil {
			return "", err
		}
		if r.dialect == nil {
			return "", fmt.Errorf("character counts need a storage dialect")
		}
		op, err := sqlOp(p.Op)
		if err != nil {
			return "", err
		}
		expr := r.dialect.CharCount(r.b, col, p.Char)
		return fmt.Sprintf("%s %s %s", expr, op, r.b.Arg(p.Value)), nil

	case Not:
		inner, err := r.render(p.Inner)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil

	case And:
		return r.binary("AND", p.Left, p.Right)

	case Or:
		return r.binary("OR", p.Left, p.Right)

	default:
		return "", fmt.Errorf("unknown predicate type: %T", pred)
	}
}

func (r sqlRenderer) binary(op string, left, right Pred) (string, error) {
	l, err := r.render(left)
	if err != nil {
		return "", err
	}
	rr, err := r.render(right)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s)", l, op, rr), nil
}

func (r sqlRenderer) like(col, pattern string) string {
	return fmt.Sprintf(`LOWER(%s) LIKE %s ESCAPE '\'`, col, r.b.Arg(pattern))
}

func sqlOp(op query.Op) (string, error) {
	switch op {
	case query.OpLt, query.OpLte, query.OpGt, query.OpGte:
		return string(op), nil
	case query.OpEq:
		return "=", nil
	case query.OpNe:
		return "<>", nil
	default:
		return "", fmt.Errorf("unknown operator: %q", op)
	}
}

// escapeLike escapes %, _, and \ so the result can be used with "ESCAPE '\'" safely.
func escapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
