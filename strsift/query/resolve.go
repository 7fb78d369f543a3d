package query

import "strings"

// Resolver maps natural-language terms to canonical operators, fields,
// character classes and qualitative properties. Build it once with
// NewResolver; it is read-only afterwards and safe for concurrent use.
type Resolver struct {
	ops       map[string]Op
	headAdjs  map[string]Op
	units     map[string]Field
	quals     map[string]string
	classes   map[string]CharClass
	operators map[string]Op
}

// NewResolver returns a Resolver populated with the built-in tables.
func NewResolver() *Resolver {
	return &Resolver{
		ops: map[string]Op{
			"longer": OpGt, "greater": OpGt, "more": OpGt, "over": OpGt,
			"longer_than": OpGt, "greater_than": OpGt, "more_than": OpGt,
			"shorter": OpLt, "less": OpLt, "fewer": OpLt, "under": OpLt,
			"shorter_than": OpLt, "less_than": OpLt, "fewer_than": OpLt,
			"exactly": OpEq, "just": OpEq, "only": OpEq, "precisely": OpEq, "about": OpEq,
			"equal_to": OpEq,
			"long": OpGte, "at_least": OpGte,
			"short": OpLte, "at_most": OpLte,
			"not_longer_than":  OpLte,
			"not_shorter_than": OpGte,
		},
		headAdjs: map[string]Op{
			"long": OpGte, "short": OpLte,
			"exactly": OpEq, "just": OpEq, "only": OpEq,
		},
		units: map[string]Field{
			"word": FieldWordCount, "words": FieldWordCount,
			"character": FieldLength, "characters": FieldLength,
			"char": FieldLength, "chars": FieldLength,
			"length": FieldLength,
		},
		quals: map[string]string{
			"palindrome": QualPalindrome, "palindromes": QualPalindrome,
			"palindromic": QualPalindrome,
			"mirror": QualPalindrome, "mirrors": QualPalindrome,
			"symmetric": QualPalindrome, "symmetrical": QualPalindrome,
		},
		classes: map[string]CharClass{
			"vowel": ClassVowel, "vowels": ClassVowel,
			"consonant": ClassConsonant, "consonants": ClassConsonant,
			"alphabet": ClassAlphabet, "alphabets": ClassAlphabet,
		},
		operators: map[string]Op{
			">": OpGt, ">=": OpGte, "<": OpLt, "<=": OpLte,
			"==": OpEq, "=": OpEq, "!=": OpNe,
		},
	}
}

// Op resolves an adjective, a multi-word adjective key such as "at_least",
// or an operator symbol. Unknown terms resolve to ==.
func (r *Resolver) Op(term string) Op {
	if op, ok := r.operators[term]; ok {
		return op
	}
	if op, ok := r.ops[term]; ok {
		return op
	}
	return OpEq
}

// HeadAdjOp resolves the trailing adjective of a bare count ("5 characters long").
// An empty or unknown adjective resolves to ==.
func (r *Resolver) HeadAdjOp(adj string) Op {
	if op, ok := r.headAdjs[adj]; ok {
		return op
	}
	return OpEq
}

// Field resolves a unit keyword. Anything other than word/words is length.
func (r *Resolver) Field(unit string) Field {
	if f, ok := r.units[unit]; ok {
		return f
	}
	return FieldLength
}

// Class resolves a character-class phrase.
func (r *Resolver) Class(phrase string) CharClass {
	if c, ok := r.classes[phrase]; ok {
		return c
	}
	switch {
	case strings.Contains(phrase, "vowel"):
		return ClassVowel
	case strings.Contains(phrase, "consonant"):
		return ClassConsonant
	default:
		return ClassAlphabet
	}
}

// Qual resolves a qualitative synonym to its canonical name.
func (r *Resolver) Qual(word string) string {
	if q, ok := r.quals[word]; ok {
		return q
	}
	return QualPalindrome
}

func (r *Resolver) isUnit(w string) bool {
	_, ok := r.units[w]
	return ok
}

func (r *Resolver) isQual(w string) bool {
	_, ok := r.quals[w]
	return ok
}

func (r *Resolver) isClass(w string) bool {
	_, ok := r.classes[w]
	return ok
}

func (r *Resolver) isAdj(w string) bool {
	_, ok := r.ops[w]
	return ok && !strings.Contains(w, "_")
}

func (r *Resolver) isOperator(w string) bool {
	_, ok := r.operators[w]
	return ok
}
