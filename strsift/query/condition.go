package query

import (
	"encoding/json"
	"fmt"
)

// Field is a numeric record attribute a condition can constrain.
type Field string

const (
	FieldLength    Field = "length"
	FieldWordCount Field = "word_count"
)

// Op is a canonical comparison operator.
type Op string

const (
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpEq  Op = "=="
	OpNe  Op = "!="
)

// Compare applies the operator to a record value and a condition value.
func (op Op) Compare(have, want int) bool {
	switch op {
	case OpLt:
		return have < want
	case OpLte:
		return have <= want
	case OpGt:
		return have > want
	case OpGte:
		return have >= want
	case OpEq:
		return have == want
	case OpNe:
		return have != want
	default:
		return false
	}
}

// CharClass is a set of letters used by containment conditions.
type CharClass string

const (
	ClassVowel     CharClass = "vowel"
	ClassConsonant CharClass = "consonant"
	ClassAlphabet  CharClass = "alphabet"
)

const (
	vowels     = "aeiou"
	consonants = "bcdfghjklmnpqrstvwxyz"
	alphabet   = "abcdefghijklmnopqrstuvwxyz"
)

// Members returns the lowercase letters belonging to the class.
func (c CharClass) Members() string {
	switch c {
	case ClassVowel:
		return vowels
	case ClassConsonant:
		return consonants
	default:
		return alphabet
	}
}

// BoolOp joins the clauses of a compound condition.
type BoolOp string

const (
	BoolAnd BoolOp = "and"
	BoolOr  BoolOp = "or"
)

// ContainsSubtype selects which fields of a Contains condition are meaningful.
type ContainsSubtype string

const (
	SubtypeCount      ContainsSubtype = "count"
	SubtypeCharClass  ContainsSubtype = "char_class"
	SubtypeLetter     ContainsSubtype = "letter"
	SubtypePositional ContainsSubtype = "positional"
)

// PositionLast marks a positional condition on the final character of the record.
const PositionLast = -1

// QualPalindrome is the canonical qualitative property.
const QualPalindrome = "palindrome"

// Range bound defaults applied when a phrase names only one end.
const (
	DefaultRangeMin = 0
	DefaultRangeMax = 999
)

// Condition is one node of a canonical condition tree.
type Condition interface {
	isCondition()
	json.Marshaler
}

// Comparison constrains a numeric attribute.
type Comparison struct {
	Field Field
	Op    Op
	Value int
}

func (Comparison) isCondition() {}

func (c Comparison) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Field Field  `json:"field"`
		Op    Op     `json:"op"`
		Value int    `json:"value"`
	}{"comparison", c.Field, c.Op, c.Value})
}

// Range constrains a numeric attribute to an inclusive interval.
type Range struct {
	Field Field
	Min   int
	Max   int
}

func (Range) isCondition() {}

func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Field Field  `json:"field"`
		Min   int    `json:"min"`
		Max   int    `json:"max"`
	}{"range", r.Field, r.Min, r.Max})
}

// Contains is a containment condition. Which fields are set depends on Subtype:
// count uses Field and Value, char_class uses Class, letter uses Letter, and
// positional uses Position together with either Class or Letter.
type Contains struct {
	Neg      bool
	Subtype  ContainsSubtype
	Field    Field
	Value    int
	Class    CharClass
	Letter   string
	Position int
}

func (Contains) isCondition() {}

// Positional reports whether the condition depends on occurrence ordinals.
func (c Contains) Positional() bool {
	return c.Subtype == SubtypePositional
}

func (c Contains) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"type":    "contains",
		"neg":     c.Neg,
		"subtype": c.Subtype,
	}
	switch c.Subtype {
	case SubtypeCount:
		out["field"] = c.Field
		out["value"] = c.Value
	case SubtypeCharClass:
		out["char_class"] = c.Class
	case SubtypeLetter:
		out["letter"] = c.Letter
	case SubtypePositional:
		if c.Letter != "" {
			out["letter"] = c.Letter
		} else {
			out["alpha"] = c.Class
		}
		out["position"] = c.Position
	}
	return json.Marshal(out)
}

// Qualitative asserts a whole-string property with optional exact co-constraints.
type Qualitative struct {
	Qual      string
	WordCount *int
	Length    *int
}

func (Qualitative) isCondition() {}

func (q Qualitative) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"type"`
		Qual      string `json:"qual"`
		WordCount *int   `json:"word_count,omitempty"`
		Length    *int   `json:"length,omitempty"`
	}{"qualitative", q.Qual, q.WordCount, q.Length})
}

// Clause is one element of a compound condition.
type Clause struct {
	Op        BoolOp
	Condition Condition
}

func (c Clause) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op        BoolOp    `json:"op"`
		Condition Condition `json:"condition"`
	}{c.Op, c.Condition})
}

// Compound is an ordered list of clauses folded left to right.
// Build it with NewCompound.
type Compound struct {
	Conditions []Clause
}

func (Compound) isCondition() {}

func (c Compound) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string   `json:"type"`
		Conditions []Clause `json:"conditions"`
	}{"compound", c.Conditions})
}

// All matches every record.
type All struct{}

func (All) isCondition() {}

func (All) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"all"}`), nil
}

// NewCompound folds clauses into a condition. Zero clauses yield All and a
// single clause yields its condition unwrapped. The first clause always
// carries BoolAnd.
func NewCompound(clauses []Clause) Condition {
	switch len(clauses) {
	case 0:
		return All{}
	case 1:
		return clauses[0].Condition
	}
	out := make([]Clause, len(clauses))
	copy(out, clauses)
	out[0].Op = BoolAnd
	return Compound{Conditions: out}
}

// HasPositional reports whether any leaf of the tree is a positional Contains.
func HasPositional(cond Condition) bool {
	switch c := cond.(type) {
	case Contains:
		return c.Positional()
	case Compound:
		for _, cl := range c.Conditions {
			if HasPositional(cl.Condition) {
				return true
			}
		}
	}
	return false
}

// Validate checks the invariants of a condition tree.
func Validate(cond Condition) error {
	switch c := cond.(type) {
	case Comparison:
		if err := validField(c.Field); err != nil {
			return err
		}
		if !validOp(c.Op) {
			return fmt.Errorf("invalid operator %q", c.Op)
		}
		if c.Value < 0 {
			return fmt.Errorf("negative comparison value %d", c.Value)
		}
	case Range:
		if err := validField(c.Field); err != nil {
			return err
		}
	case Contains:
		switch c.Subtype {
		case SubtypeCount:
			return validField(c.Field)
		case SubtypeCharClass:
			return validClass(c.Class)
		case SubtypeLetter:
			return validLetter(c.Letter)
		case SubtypePositional:
			if c.Position == 0 || c.Position < PositionLast {
				return fmt.Errorf("invalid position %d", c.Position)
			}
			if c.Letter != "" {
				return validLetter(c.Letter)
			}
			return validClass(c.Class)
		default:
			return fmt.Errorf("unknown contains subtype %q", c.Subtype)
		}
	case Qualitative:
		if c.Qual != QualPalindrome {
			return fmt.Errorf("unknown qualitative %q", c.Qual)
		}
	case Compound:
		if len(c.Conditions) < 2 {
			return fmt.Errorf("compound with %d conditions", len(c.Conditions))
		}
		for _, cl := range c.Conditions {
			if cl.Op != BoolAnd && cl.Op != BoolOr {
				return fmt.Errorf("invalid boolean operator %q", cl.Op)
			}
			if err := Validate(cl.Condition); err != nil {
				return err
			}
		}
	case All:
	default:
		return fmt.Errorf("unknown condition type %T", cond)
	}
	return nil
}

func validField(f Field) error {
	if f != FieldLength && f != FieldWordCount {
		return fmt.Errorf("invalid field %q", f)
	}
	return nil
}

func validOp(op Op) bool {
	switch op {
	case OpLt, OpLte, OpGt, OpGte, OpEq, OpNe:
		return true
	}
	return false
}

func validClass(c CharClass) error {
	switch c {
	case ClassVowel, ClassConsonant, ClassAlphabet:
		return nil
	}
	return fmt.Errorf("invalid character class %q", c)
}

func validLetter(l string) error {
	if len(l) != 1 || l[0] < 'a' || l[0] > 'z' {
		return fmt.Errorf("invalid letter %q", l)
	}
	return nil
}
