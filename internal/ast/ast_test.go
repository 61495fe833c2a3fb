package ast

import (
	"testing"

	"github.com/amykhaylyshyn/gta3sc/internal/source"
)

func TestInternDeduplicates(t *testing.T) {
	a := NewArena()
	x := a.Intern("WAIT")
	y := a.Intern("WAIT")
	if x != y || x != "WAIT" {
		t.Errorf("Intern mismatch: %q vs %q", x, y)
	}
}

func TestArenaLen(t *testing.T) {
	a := NewArena()
	a.NewNode(a.NewLabel("L", source.Span{}), nil, source.Span{})
	a.NewNode(nil, a.NewCommand("WAIT", nil, false, source.Span{}), source.Span{})
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestArgKindString(t *testing.T) {
	if Integer.String() != "Integer" {
		t.Errorf("Integer.String() = %q", Integer.String())
	}
	if ArgKind(99).String() != "Invalid" {
		t.Errorf("unknown ArgKind.String() = %q, want Invalid", ArgKind(99).String())
	}
}
