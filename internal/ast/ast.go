// Package ast defines the IR node types produced by the parser and the
// arena that owns them. Nodes are plain structs reached through an
// arena-owned slice; there is no shared-pointer tree and no node carries a
// back-reference into the token stream. Consumers that need source text
// look it up from the source.File by Span on demand.
package ast

import (
	"github.com/amykhaylyshyn/gta3sc/internal/source"
)

// ArgKind is the tag of an Argument's variant.
type ArgKind int

const (
	Integer ArgKind = iota
	Float
	Identifier
	StringLit
	Filename
)

func (k ArgKind) String() string {
	switch k {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Identifier:
		return "Identifier"
	case StringLit:
		return "StringLit"
	case Filename:
		return "Filename"
	default:
		return "Invalid"
	}
}

// Argument is a tagged variant holding exactly one of an integer, a float,
// an identifier name, a string literal body, or a filename. Only the field
// matching Kind is meaningful.
type Argument struct {
	Kind  ArgKind
	Int   int32
	Float float32
	Str   string // Identifier name, StringLit body, or Filename text
	Span  source.Span
}

// Label is a name attached to the head of a statement or to a block-closer
// command. Its Name is already canonicalized to upper case.
type Label struct {
	Name string
	Span source.Span
}

// Command is a named operation with an ordered argument list. NotFlag is
// set only when the command occupies a conditional slot and was prefixed
// by NOT.
type Command struct {
	Name    string
	Args    []Argument
	NotFlag bool
	Span    source.Span
}

// Node is one element of an IR Sequence. At least one of Label and Command
// is non-nil; both may be set for a labeled command or a labeled block
// closer.
type Node struct {
	Label   *Label
	Command *Command
	Span    source.Span
}

// Sequence is the ordered result of one ParseStatement call. It is empty
// only for a blank source line.
type Sequence []*Node

// Arena owns every Node, Label, Command, and canonicalized string produced
// while parsing one compilation unit. It never frees individual
// allocations; the whole arena is dropped at once when the caller is done
// reading the IR.
type Arena struct {
	nodes   []*Node
	strings map[string]string
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{strings: make(map[string]string)}
}

// Intern returns a canonical copy of s shared by every other call with an
// equal s, so that repeated identifiers and command names in a large file
// do not each hold their own backing array.
func (a *Arena) Intern(s string) string {
	if v, ok := a.strings[s]; ok {
		return v
	}
	a.strings[s] = s
	return s
}

// NewLabel allocates a Label in the arena.
func (a *Arena) NewLabel(name string, span source.Span) *Label {
	return &Label{Name: a.Intern(name), Span: span}
}

// NewCommand allocates a Command in the arena.
func (a *Arena) NewCommand(name string, args []Argument, notFlag bool, span source.Span) *Command {
	return &Command{Name: a.Intern(name), Args: args, NotFlag: notFlag, Span: span}
}

// NewNode allocates a Node in the arena and appends it to the arena's node
// list for bookkeeping; the returned pointer is what callers chain into
// Sequences.
func (a *Arena) NewNode(label *Label, command *Command, span source.Span) *Node {
	n := &Node{Label: label, Command: command, Span: span}
	a.nodes = append(a.nodes, n)
	return n
}

// Len reports how many nodes the arena has allocated across the whole
// parse, independent of how many distinct Sequences were returned.
func (a *Arena) Len() int { return len(a.nodes) }
