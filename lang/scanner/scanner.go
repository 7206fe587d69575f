// Package scanner tokenizes Scarab source code. It is adapted from the
// lexer/scanner shape used throughout the language-tooling examples in this
// repository's lineage: a small struct holding the source and a one-rune
// lookahead, advanced one token at a time by its caller (the compiler, or the
// tokenize command).
package scanner

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mna/scarab/lang/token"
)

// symChars are the single-character tokens recognized by the scanner.
const symChars = ".,(){}"

// opChars are the characters that may appear in a maximal operator run.
// ':' lives here rather than in symChars so that the declaration operator
// ":=" scans as one maximal run, not a Sym followed by an Op.
const opChars = ":!@#$%^&*-+?_=<>/"

// Scanner produces a lazy stream of tokens from a source string. The zero
// value is not usable; construct one with New.
type Scanner struct {
	src  string
	pos  int // byte offset of the next rune to read
	line int
}

// New returns a Scanner over source, ready to produce its first token.
func New(source string) *Scanner {
	return &Scanner{src: source, pos: 0, line: 1}
}

// peek returns the rune at the current position without consuming it, or 0
// if the source is exhausted.
func (s *Scanner) peek() rune {
	if s.pos >= len(s.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r
}

// advance consumes and returns the current rune.
func (s *Scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	if r == '\n' {
		s.line++
	}
	return r
}

func (s *Scanner) skipWhitespace() {
	for s.pos < len(s.src) && unicode.IsSpace(s.peek()) {
		s.advance()
	}
}

// Next produces the next token in the stream, or a token of Kind EOF once
// the source is exhausted. It never returns an error: unrecognized input
// surfaces as a token.Kind of ILLEGAL, leaving the decision to fail to the
// compiler, per the language's "no error recovery" contract.
func (s *Scanner) Next() token.Token {
	s.skipWhitespace()

	if s.pos >= len(s.src) {
		return token.Token{Kind: token.EOF, Line: s.line}
	}

	line := s.line
	ch := s.peek()

	switch {
	case strings.ContainsRune(symChars, ch):
		s.advance()
		return token.Token{Kind: token.SYM, Text: string(ch), Line: line}

	case strings.ContainsRune(opChars, ch):
		var b strings.Builder
		for s.pos < len(s.src) && strings.ContainsRune(opChars, s.peek()) {
			b.WriteRune(s.advance())
		}
		return token.Token{Kind: token.OP, Text: b.String(), Line: line}

	case unicode.IsLetter(ch):
		var b strings.Builder
		for s.pos < len(s.src) && isAlnum(s.peek()) {
			b.WriteRune(s.advance())
		}
		text := b.String()
		if kw, ok := token.Keywords[strings.ToUpper(text)]; ok {
			return token.Token{Kind: token.KEYWORD, Text: text, Line: line, Key: kw}
		}
		return token.Token{Kind: token.IDENT, Text: text, Line: line}

	case unicode.IsDigit(ch):
		var b strings.Builder
		for s.pos < len(s.src) && unicode.IsDigit(s.peek()) {
			b.WriteRune(s.advance())
		}
		text := b.String()
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return token.Token{Kind: token.ILLEGAL, Text: text, Line: line}
		}
		return token.Token{Kind: token.INT, Text: text, Line: line, Int: n}

	case ch == '"':
		return s.readString(line)

	default:
		s.advance()
		return token.Token{Kind: token.ILLEGAL, Text: string(ch), Line: line}
	}
}

func (s *Scanner) readString(startLine int) token.Token {
	s.advance() // opening quote
	var b strings.Builder
	for {
		if s.pos >= len(s.src) {
			return token.Token{Kind: token.ILLEGAL, Text: "unclosed string literal", Line: startLine}
		}
		if s.peek() == '"' {
			s.advance()
			return token.Token{Kind: token.STRING, Text: b.String(), Str: b.String(), Line: startLine}
		}
		b.WriteRune(s.advance())
	}
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// unclosedStringMessage is the diagnostic text the compiler surfaces when a
// string literal's closing quote is never found, matching spec.md's wording.
const unclosedStringMessage = "unclosed string literal"

// IsUnclosedString reports whether tok is the ILLEGAL token produced when a
// string literal is missing its closing quote.
func IsUnclosedString(tok token.Token) bool {
	return tok.Kind == token.ILLEGAL && tok.Text == unclosedStringMessage
}
