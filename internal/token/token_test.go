package token_test

import (
	"testing"

	"github.com/vrules/valet/internal/token"
)

func TestLookupIdentRecognizesKeywords(t *testing.T) {
	cases := map[string]token.Type{
		"and":      token.ANDKW,
		"or":       token.ORKW,
		"not":      token.NOTKW,
		"inverted": token.INVERTEDKW,
		"invert":   token.INVERTEDKW,
		"foobar":   token.IDENT,
		"":         token.IDENT,
	}
	for in, want := range cases {
		if got := token.LookupIdent(in); got != want {
			t.Fatalf("LookupIdent(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTypeStringNamesKnownTypes(t *testing.T) {
	cases := map[token.Type]string{
		token.ARROW:  "->",
		token.TILDE:  "~",
		token.DOLLAR: "$",
		token.COLON:  ":",
		token.IDENT:  "IDENT",
		token.EOF:    "EOF",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Fatalf("%v.String() = %q, want %q", typ, got, want)
		}
	}
}

func TestTypeStringUnknownType(t *testing.T) {
	var bogus token.Type = 9999
	if got := bogus.String(); got != "UNKNOWN" {
		t.Fatalf("String() = %q, want UNKNOWN", got)
	}
}
