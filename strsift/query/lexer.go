package query

import (
	"fmt"
	"unicode"
)

// TokenKind is the type of token
type TokenKind int

const (
	TokWord TokenKind = iota
	TokNumber
	TokCardinal
	TokOperator
	TokComma
	TokEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokWord:
		return "Word"
	case TokNumber:
		return "Number"
	case TokCardinal:
		return "Cardinal"
	case TokOperator:
		return "Operator"
	case TokComma:
		return "Comma"
	case TokEOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token represents a lexical token of normalized query text.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   int // rune offset in the input
}

func (t Token) String() string {
	if t.Kind == TokEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

// Lexer tokenizes normalized query text
type Lexer struct {
	input []rune
	pos   int
}

// NewLexer creates a new lexer for the input string
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Lex tokenizes the entire input. The final token is always TokEOF.
func Lex(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}

	return tokens, nil
}

// Next returns the next token
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case ch == ',':
		l.pos++
		return Token{Kind: TokComma, Value: ",", Pos: start}, nil
	case isOperatorRune(ch):
		for l.pos < len(l.input) && isOperatorRune(l.input[l.pos]) {
			l.pos++
		}
		return Token{Kind: TokOperator, Value: string(l.input[start:l.pos]), Pos: start}, nil
	case isWordRune(ch):
		return l.scanWord(), nil
	}

	return Token{}, fmt.Errorf("unexpected character %q at %d", ch, start)
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

// scanWord reads a run of word characters and classifies it as a number
// ("12"), a cardinal with an ordinal suffix ("3rd") or a plain word.
func (l *Lexer) scanWord() Token {
	start := l.pos
	for l.pos < len(l.input) && isWordRune(l.input[l.pos]) {
		l.pos++
	}
	text := string(l.input[start:l.pos])

	digits := 0
	for digits < len(text) && text[digits] >= '0' && text[digits] <= '9' {
		digits++
	}
	switch {
	case digits == len(text):
		return Token{Kind: TokNumber, Value: text, Pos: start}
	case digits > 0 && isOrdinalSuffix(text[digits:]):
		return Token{Kind: TokCardinal, Value: text, Pos: start}
	default:
		return Token{Kind: TokWord, Value: text, Pos: start}
	}
}

func isOrdinalSuffix(s string) bool {
	switch s {
	case "st", "nd", "rd", "th":
		return true
	}
	return false
}

func isOperatorRune(ch rune) bool {
	return ch == '<' || ch == '>' || ch == '=' || ch == '!'
}

func isWordRune(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsNumber(ch) || unicode.IsMark(ch) || ch == '_'
}
