package query

// Node is a parse-tree node produced by the grammar. The set of node types
// is closed; Build handles every one of them.
type Node interface {
	isNode()
}

// NumberLit is a count in digits ("5") or a spelled quantity word ("pair").
type NumberLit struct {
	Text string
}

// OrdinalLit is a positional reference: an ordinal word ("third", "last"),
// a cardinal with a suffix ("3rd") or plain digits ("position 3").
type OrdinalLit struct {
	Text string
}

// ComparisonNode is a quantity phrase over a unit: "longer than 5 characters",
// ">= 3 words", "5 characters long". Quantity is an adjective, a multi-word
// adjective key such as "at_least", or an operator symbol.
type ComparisonNode struct {
	Quantity string
	Number   NumberLit
	Unit     string
}

func (ComparisonNode) isNode() {}

// ElementNode is a containment phrase; Target is one of PositionalNode,
// CountNode, ClassNode or LetterNode.
type ElementNode struct {
	Neg    bool
	Target Node
}

func (ElementNode) isNode() {}

// PositionalNode references the Nth occurrence (or the last character)
// of a character class or a letter. Exactly one of Class and Letter is set.
type PositionalNode struct {
	Ordinal OrdinalLit
	Class   string
	Letter  string
}

func (PositionalNode) isNode() {}

// CountNode is "<number> <unit>" used as a containment target.
type CountNode struct {
	Number NumberLit
	Unit   string
}

func (CountNode) isNode() {}

// ClassNode names a character class ("vowels").
type ClassNode struct {
	Word string
}

func (ClassNode) isNode() {}

// LetterNode names a single letter.
type LetterNode struct {
	Letter string
}

func (LetterNode) isNode() {}

// RangeNode is "between N and M", "from N to M" or "up to M". A nil bound
// takes its default.
type RangeNode struct {
	Min  *NumberLit
	Max  *NumberLit
	Unit string
}

func (RangeNode) isNode() {}

// LengthPhraseNode is "with length <comparator> N". An empty Quantity means ==.
type LengthPhraseNode struct {
	Quantity string
	Number   NumberLit
	Unit     string
}

func (LengthPhraseNode) isNode() {}

// QualNode is one or more qualitative synonyms with an optional count and an
// optional attached containment target (PositionalNode, ClassNode or LetterNode).
type QualNode struct {
	Words    []string
	Count    *CountNode
	Attached Node
}

func (QualNode) isNode() {}

// BareCountNode is "<number> <unit> <adj>? <head>?", e.g. "5 character strings".
type BareCountNode struct {
	Number NumberLit
	Unit   string
	Adj    string
}

func (BareCountNode) isNode() {}

// HeadOnlyNode is a bare head noun ("strings") and matches everything.
type HeadOnlyNode struct{}

func (HeadOnlyNode) isNode() {}

// Joined is one element of a compound: the conjunction that introduced it
// ("" for the first element, "," for a comma) and the condition itself.
type Joined struct {
	Conj string
	Node Node
}

// CompoundNode is a sequence of single conditions in source order.
type CompoundNode struct {
	Items []Joined
}

func (CompoundNode) isNode() {}
