package scanner

import (
	"testing"

	"github.com/amykhaylyshyn/gta3sc/internal/preprocessor"
	"github.com/amykhaylyshyn/gta3sc/internal/source"
	"github.com/amykhaylyshyn/gta3sc/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	f := source.New("t.sc", []byte(src))
	pp := preprocessor.New(f, nil)
	sc := New(pp, nil)

	var toks []token.Token
	for sc.AdvanceLine() {
		for {
			tok := sc.NextToken()
			toks = append(toks, tok)
			if tok.Category == token.Eol {
				break
			}
		}
	}
	return toks
}

func categories(toks []token.Token) []token.Category {
	out := make([]token.Category, len(toks))
	for i, t := range toks {
		out[i] = t.Category
	}
	return out
}

func TestScanWaitLine(t *testing.T) {
	toks := scanAll(t, "WAIT 123 010 -39\n")
	want := []token.Category{token.Word, token.Integer, token.Integer, token.Integer, token.Eol}
	got := categories(toks)
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d category = %v, want %v", i, got[i], want[i])
		}
	}
	if toks[3].Payload != "-39" {
		t.Errorf("negative literal payload = %q, want -39", toks[3].Payload)
	}
}

func TestBraceTokens(t *testing.T) {
	toks := scanAll(t, "{\n}\n")
	if toks[0].Category != token.Word || toks[0].Payload != "{" {
		t.Errorf("{ token = %v", toks[0])
	}
}

func TestFloatForms(t *testing.T) {
	for _, lit := range []string{"1.", "1..", ".5", "1.5", "10F"} {
		toks := scanAll(t, lit+"\n")
		if toks[0].Category != token.Float {
			t.Errorf("%q classified as %v, want Float", lit, toks[0].Category)
		}
	}
}

func TestParseFloat32DanglingDots(t *testing.T) {
	for _, tc := range []struct {
		payload string
		want    float32
	}{
		{"1.", 1.0},
		{"1..", 1.0},
		{".5", 0.5},
		{"1.5", 1.5},
		{"10F", 10.0},
	} {
		got, err := ParseFloat32(tc.payload)
		if err != nil {
			t.Errorf("ParseFloat32(%q) error: %v", tc.payload, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFloat32(%q) = %v, want %v", tc.payload, got, tc.want)
		}
	}
}

func TestLeadingPlusIsLexicalError(t *testing.T) {
	toks := scanAll(t, "+39\n")
	if toks[0].Category != token.Invalid {
		t.Errorf("+39 classified as %v, want Invalid", toks[0].Category)
	}
}

func TestTrailingMinusAfterDigitIsNotWordContinuation(t *testing.T) {
	toks := scanAll(t, "1- -1\n")
	want := []token.Category{token.Integer, token.Operator, token.Integer, token.Eol}
	got := categories(toks)
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d category = %v, want %v", i, got[i], want[i])
		}
	}
	if toks[0].Payload != "1" || toks[1].Payload != "-" || toks[2].Payload != "-1" {
		t.Errorf("payloads = %q %q %q, want 1, -, -1", toks[0].Payload, toks[1].Payload, toks[2].Payload)
	}
}

func TestOperatorLongestMatch(t *testing.T) {
	toks := scanAll(t, "x += 1\n")
	if toks[1].Category != token.Operator || toks[1].Payload != "+=" {
		t.Errorf("operator token = %v, want += ", toks[1])
	}
}

func TestStringLiteral(t *testing.T) {
	toks := scanAll(t, `PRINT_HELP "hello world"` + "\n")
	if toks[1].Category != token.StringLiteral || toks[1].Payload != "hello world" {
		t.Errorf("string token = %v", toks[1])
	}
}

func TestParseInt32Overflow(t *testing.T) {
	if _, err := ParseInt32("2147483647"); err != nil {
		t.Errorf("2147483647 should be valid: %v", err)
	}
	if _, err := ParseInt32("2147483648"); err == nil {
		t.Error("2147483648 should overflow int32")
	}
}
