package esexpr_test

import (
	"errors"
	"testing"

	"esexpr"
)

// inlineValueTest is a sum with an inline-value case and an ordinary
// constructor case.
type inlineValueTest interface {
	isInlineValueTest()
}

type Flag bool

func (Flag) isInlineValueTest() {}

type NormalCase struct {
	Value bool
}

func (NormalCase) isInlineValueTest() {}

func inlineValueCodec() esexpr.Codec[inlineValueTest] {
	flagCodec := esexpr.TransformCodec(
		esexpr.BoolCodec(),
		func(b bool) (Flag, error) { return Flag(b), nil },
		func(f Flag) bool { return bool(f) },
	)
	return esexpr.VariantCodec[inlineValueTest](
		esexpr.CaseOf[inlineValueTest](flagCodec),
		esexpr.CaseOf[inlineValueTest](esexpr.RecordCodec[NormalCase]()),
	)
}

func TestVariantInlineValue(t *testing.T) {
	codec := inlineValueCodec()

	wantTags := esexpr.NewTagSet(
		esexpr.Tag{Kind: esexpr.KindBool},
		esexpr.ConstructorTag("normal-case"),
	)
	if !codec.Tags().Equal(wantTags) {
		t.Errorf("Tags() = %v, want %v", codec.Tags(), wantTags)
	}

	// The inline case encodes as the bare inner value.
	if got := codec.Encode(Flag(true)); !esexpr.Equal(got, esexpr.Bool(true)) {
		t.Errorf("Encode(Flag(true)) = %v", got)
	}
	v, err := codec.Decode(esexpr.Bool(true))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f, ok := v.(Flag); !ok || !bool(f) {
		t.Errorf("Decode(#true) = %#v", v)
	}

	// A wrapped form of the inline case is not accepted.
	wrapped := esexpr.NewConstructor("flag", esexpr.Bool(true))
	if _, err := codec.Decode(wrapped); err == nil {
		t.Error("decoding a wrapped inline value must fail")
	}

	normal := esexpr.NewConstructor("normal-case", esexpr.Bool(true))
	if got := codec.Encode(NormalCase{Value: true}); !esexpr.Equal(got, normal) {
		t.Errorf("Encode(NormalCase) = %v, want %v", got, normal)
	}
	v, err = codec.Decode(normal)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if n, ok := v.(NormalCase); !ok || !n.Value {
		t.Errorf("Decode(normal-case) = %#v", v)
	}
}

func TestVariantUnknownTag(t *testing.T) {
	codec := inlineValueCodec()
	_, err := codec.Decode(esexpr.NewConstructor("bad-name"))
	var de *esexpr.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	var ue *esexpr.UnexpectedExprError
	if !errors.As(de.Cause, &ue) {
		t.Fatalf("expected UnexpectedExprError, got %v", de.Cause)
	}
	if !ue.Expected.Equal(codec.Tags()) {
		t.Errorf("expected tags %v, got %v", codec.Tags(), ue.Expected)
	}
}

func TestVariantOverlapIsDefinitionError(t *testing.T) {
	flag := esexpr.TransformCodec(
		esexpr.BoolCodec(),
		func(b bool) (Flag, error) { return Flag(b), nil },
		func(f Flag) bool { return bool(f) },
	)
	_, err := esexpr.NewVariantCodec[inlineValueTest](
		esexpr.CaseOf[inlineValueTest](flag),
		esexpr.CaseOf[inlineValueTest](flag),
	)
	var de *esexpr.DefinitionError
	if !errors.As(err, &de) {
		t.Errorf("expected *DefinitionError for overlapping cases, got %v", err)
	}
}

type testColor string

const (
	colorA  testColor = "a"
	colorB  testColor = "b"
	colorMC testColor = "my-c"
)

func TestSimpleEnum(t *testing.T) {
	codec := esexpr.SimpleEnumCodec(colorA, colorB, colorMC)

	if !codec.Tags().Equal(esexpr.NewTagSet(esexpr.Tag{Kind: esexpr.KindStr})) {
		t.Errorf("Tags() = %v", codec.Tags())
	}

	for _, c := range []testColor{colorA, colorB, colorMC} {
		expr := codec.Encode(c)
		if !esexpr.Equal(expr, esexpr.Str(string(c))) {
			t.Errorf("Encode(%q) = %v", c, expr)
		}
		v, err := codec.Decode(expr)
		if err != nil || v != c {
			t.Errorf("Decode(%v) = %v, %v", expr, v, err)
		}
	}

	_, err := codec.Decode(esexpr.Str("d"))
	var de *esexpr.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError for unknown enum value, got %v", err)
	}
	var oor *esexpr.OutOfRangeError
	if !errors.As(de.Cause, &oor) {
		t.Errorf("expected OutOfRangeError, got %v", de.Cause)
	}

	_, err = codec.Decode(esexpr.NewInt(1))
	if !errors.As(err, &de) {
		t.Errorf("expected *DecodeError for non-string, got %v", err)
	}
}
