// Package token defines the lexical categories and the Token value produced
// by the scanner and consumed by the parser.
package token

import (
	"fmt"

	"github.com/amykhaylyshyn/gta3sc/internal/source"
)

// Category identifies the lexical class of a Token. There is no category
// for whitespace: whitespace only separates tokens and is never itself
// emitted.
type Category int

const (
	Invalid Category = iota // sentinel: never produced on success

	Word          // a bare run of identifier/keyword/command-name characters, canonicalized uppercase
	Integer       // a decimal integer literal, optionally signed
	Float         // a float literal in one of the forms listed in the scanner
	StringLiteral // a "..." literal; payload holds the raw inner bytes
	Operator      // one of the fixed multi-character operator lexemes
	Eol           // end of the current logical line; ends each line's token sequence, and further reads on the line return Eol again
)

var categoryNames = [...]string{
	Invalid:       "INVALID",
	Word:          "WORD",
	Integer:       "INTEGER",
	Float:         "FLOAT",
	StringLiteral: "STRING",
	Operator:      "OPERATOR",
	Eol:           "EOL",
}

func (c Category) String() string {
	if int(c) >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Token is a single lexical unit produced by the scanner.
//
// Payload is the canonical rendering of the lexeme: upper-cased text for
// Word and Operator, the raw (unescaped) inner bytes for StringLiteral, and
// the literal digits (including a leading '-') for Integer/Float.
type Token struct {
	Category Category
	Payload  string
	Span     source.Span
}

func (t Token) String() string {
	return fmt.Sprintf("%-8s %-14q  %v", t.Category, t.Payload, t.Span)
}

// IsWord reports whether the token is a Word whose canonical payload equals
// name, which must already be upper case.
func (t Token) IsWord(name string) bool {
	return t.Category == Word && t.Payload == name
}

// IsOperator reports whether the token is an Operator with the given lexeme.
func (t Token) IsOperator(lexeme string) bool {
	return t.Category == Operator && t.Payload == lexeme
}
