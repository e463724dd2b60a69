package binfmt_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"esexpr"
	"esexpr/binfmt"
)

func parseOne(t *testing.T, pool *binfmt.FixedStringPool, data []byte) esexpr.Expr {
	t.Helper()
	p := binfmt.NewParser(bytes.NewReader(data), pool)
	expr, err := p.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	return expr
}

func TestParseConstructor(t *testing.T) {
	pool := &binfmt.FixedStringPool{Strings: []string{"my-ctor"}}
	expr := parseOne(t, pool, []byte{0x00, 0x25, 0xE0})

	want := esexpr.NewConstructor("my-ctor", esexpr.NewInt(5))
	if !esexpr.Equal(expr, want) {
		t.Errorf("parsed %v, want %v", expr, want)
	}
}

func TestParseKeywords(t *testing.T) {
	pool := &binfmt.FixedStringPool{Strings: []string{"keywords", "a", "b2"}}
	expr := parseOne(t, pool, []byte{0x00, 0xC1, 0xE1, 0xC2, 0xE2, 0xE0})

	want := &esexpr.Constructor{
		Name: "keywords",
		KwArgs: map[string]esexpr.Expr{
			"a":  esexpr.Bool(true),
			"b2": esexpr.Bool(false),
		},
	}
	if !esexpr.Equal(expr, want) {
		t.Errorf("parsed %v, want %v", expr, want)
	}
}

func TestParsePooledString(t *testing.T) {
	pool := &binfmt.FixedStringPool{Strings: []string{"hello"}}
	expr := parseOne(t, pool, []byte{0x80})
	if !esexpr.Equal(expr, esexpr.Str("hello")) {
		t.Errorf("parsed %v, want hello", expr)
	}
}

func TestParseErrors(t *testing.T) {
	pool := &binfmt.FixedStringPool{Strings: []string{"c"}}

	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"constructor end at top level", []byte{0xE0}, binfmt.ErrUnexpectedConstructorEnd},
		{"keyword at top level", []byte{0xC0}, binfmt.ErrUnexpectedKeywordToken},
		{"truncated constructor", []byte{0x00, 0xE1}, binfmt.ErrUnexpectedEndOfFile},
		{"truncated float", []byte{0xE4, 0x00}, binfmt.ErrUnexpectedEndOfFile},
		{"truncated string", []byte{0x65, 'h', 'i'}, binfmt.ErrUnexpectedEndOfFile},
		{"pool index out of range", []byte{0x85}, binfmt.ErrInvalidStringTableIndex},
	}
	for _, c := range cases {
		p := binfmt.NewParser(bytes.NewReader(c.data), pool)
		_, err := p.Next()
		if !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestParseInvalidTokenByte(t *testing.T) {
	p := binfmt.NewParser(bytes.NewReader([]byte{0xE9}), &binfmt.FixedStringPool{})
	_, err := p.Next()
	var itb *binfmt.InvalidTokenByteError
	if !errors.As(err, &itb) || itb.Byte != 0xE9 {
		t.Errorf("expected InvalidTokenByteError for E9, got %v", err)
	}
}

func TestParseInvalidUTF8(t *testing.T) {
	p := binfmt.NewParser(bytes.NewReader([]byte{0x62, 0xFF, 0xFE}), &binfmt.FixedStringPool{})
	_, err := p.Next()
	var bad *binfmt.InvalidUTF8Error
	if !errors.As(err, &bad) {
		t.Errorf("expected InvalidUTF8Error, got %v", err)
	}
}

func TestParseCleanEOF(t *testing.T) {
	p := binfmt.NewParser(bytes.NewReader(nil), &binfmt.FixedStringPool{})
	if _, err := p.Next(); err != io.EOF {
		t.Errorf("expected io.EOF on empty stream, got %v", err)
	}
}

func TestEmbeddedPool(t *testing.T) {
	data := []byte{
		0xE6,                                     // string-table
		0x67, 'm', 'y', '-', 'c', 't', 'o', 'r', // "my-ctor"
		0xE0,
		0x00, 0x25, 0xE0, // (my-ctor 5)
	}
	p, err := binfmt.NewEmbeddedParser(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewEmbeddedParser failed: %v", err)
	}
	expr, err := p.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	want := esexpr.NewConstructor("my-ctor", esexpr.NewInt(5))
	if !esexpr.Equal(expr, want) {
		t.Errorf("parsed %v, want %v", expr, want)
	}
	if _, err := p.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last expression, got %v", err)
	}
}

func TestEmbeddedPoolInvalid(t *testing.T) {
	// The stream opens with an int, not a string-table constructor.
	p, err := binfmt.NewEmbeddedParser(bytes.NewReader([]byte{0x25}))
	if p != nil {
		t.Fatal("expected no parser for an invalid pool")
	}
	var bad *binfmt.InvalidStringPoolError
	if !errors.As(err, &bad) {
		t.Errorf("expected InvalidStringPoolError, got %v", err)
	}
}

func TestParseNullLevel(t *testing.T) {
	expr := parseOne(t, &binfmt.FixedStringPool{}, []byte{0xE8, 0x23})
	if !esexpr.Equal(expr, esexpr.Null(3)) {
		t.Errorf("parsed %v, want #null3", expr)
	}
}
