package source

import "testing"

func TestPosition(t *testing.T) {
	f := New("test.sc", []byte("ABC\nDEF\nGHI"))

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{1, 1}},
		{2, Position{1, 3}},
		{4, Position{2, 1}},
		{7, Position{2, 4}},
		{8, Position{3, 1}},
		{11, Position{3, 4}}, // one past the last byte
	}

	for _, tt := range tests {
		if got := f.Position(tt.offset); got != tt.want {
			t.Errorf("Position(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestLineText(t *testing.T) {
	f := New("test.sc", []byte("ABC\r\nDEF\nGHI"))

	tests := []struct {
		line int
		want string
	}{
		{1, "ABC"},
		{2, "DEF"},
		{3, "GHI"},
	}
	for _, tt := range tests {
		if got := f.LineText(tt.line); got != tt.want {
			t.Errorf("LineText(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSpanJoin(t *testing.T) {
	a := Span{Begin: 2, End: 5}
	b := Span{Begin: 4, End: 9}
	if got := a.Join(b); got != (Span{Begin: 2, End: 9}) {
		t.Errorf("Join = %v, want {2 9}", got)
	}
	if got := (Span{}).Join(a); got != a {
		t.Errorf("zero-seed Join = %v, want %v", got, a)
	}
}

func TestFileSpanClamps(t *testing.T) {
	f := New("test.sc", []byte("ABC"))
	if got := f.Span(-1, 10); got != (Span{Begin: 0, End: 3}) {
		t.Errorf("Span(-1,10) = %v, want {0 3}", got)
	}
}
