package esexpr_test

import (
	"errors"
	"math/big"
	"testing"

	"esexpr"
)

func mustDecode[T any](t *testing.T, codec esexpr.Codec[T], expr esexpr.Expr) T {
	t.Helper()
	v, err := codec.Decode(expr)
	if err != nil {
		t.Fatalf("decode %v failed: %v", expr, err)
	}
	return v
}

// decodeErrCause extracts the cause of a decode error.
func decodeErrCause(t *testing.T, err error) error {
	t.Helper()
	var de *esexpr.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	return de.Cause
}

func TestBoolCodec(t *testing.T) {
	codec := esexpr.BoolCodec()
	if got := codec.Encode(true); !esexpr.Equal(got, esexpr.Bool(true)) {
		t.Errorf("Encode(true) = %v", got)
	}
	if v := mustDecode(t, codec, esexpr.Bool(false)); v {
		t.Error("Decode(#false) = true")
	}

	_, err := codec.Decode(esexpr.Str("nope"))
	cause := decodeErrCause(t, err)
	var ue *esexpr.UnexpectedExprError
	if !errors.As(cause, &ue) {
		t.Fatalf("expected UnexpectedExprError, got %v", cause)
	}
	if !ue.Expected.Equal(codec.Tags()) {
		t.Errorf("expected tag set %v, got %v", codec.Tags(), ue.Expected)
	}
}

func TestIntCodecRange(t *testing.T) {
	codec := esexpr.IntCodec[int8]()
	if v := mustDecode(t, codec, esexpr.NewInt(-128)); v != -128 {
		t.Errorf("Decode(-128) = %d", v)
	}

	_, err := codec.Decode(esexpr.NewInt(128))
	var oor *esexpr.OutOfRangeError
	if !errors.As(decodeErrCause(t, err), &oor) {
		t.Fatalf("expected OutOfRangeError decoding 128 into int8, got %v", err)
	}

	_, err = esexpr.IntCodec[uint32]().Decode(esexpr.NewInt(-1))
	if !errors.As(decodeErrCause(t, err), &oor) {
		t.Fatalf("expected OutOfRangeError decoding -1 into uint32, got %v", err)
	}

	huge, _ := new(big.Int).SetString("98765432109876543210", 10)
	_, err = esexpr.IntCodec[uint64]().Decode(esexpr.IntFromBig(huge))
	if !errors.As(decodeErrCause(t, err), &oor) {
		t.Fatalf("expected OutOfRangeError decoding 2^66-ish into uint64, got %v", err)
	}

	big64 := new(big.Int).SetUint64(^uint64(0))
	if v := mustDecode(t, esexpr.IntCodec[uint64](), esexpr.IntFromBig(big64)); v != ^uint64(0) {
		t.Errorf("Decode(2^64-1) = %d", v)
	}
}

func TestBigUintCodec(t *testing.T) {
	codec := esexpr.BigUintCodec()
	if v := mustDecode(t, codec, esexpr.NewInt(42)); v.Int64() != 42 {
		t.Errorf("Decode(42) = %v", v)
	}
	_, err := codec.Decode(esexpr.NewInt(-1))
	var oor *esexpr.OutOfRangeError
	if !errors.As(decodeErrCause(t, err), &oor) {
		t.Fatalf("expected OutOfRangeError for negative value, got %v", err)
	}
}

func TestListCodec(t *testing.T) {
	codec := esexpr.ListCodec(esexpr.BoolCodec())

	expr := codec.Encode([]bool{true, false})
	want := esexpr.NewConstructor("list", esexpr.Bool(true), esexpr.Bool(false))
	if !esexpr.Equal(expr, want) {
		t.Errorf("Encode = %v, want %v", expr, want)
	}

	if v := mustDecode(t, codec, want); len(v) != 2 || !v[0] || v[1] {
		t.Errorf("Decode = %v", v)
	}

	bad := &esexpr.Constructor{
		Name:   "list",
		KwArgs: map[string]esexpr.Expr{"k": esexpr.Bool(true)},
	}
	_, err := codec.Decode(bad)
	var oor *esexpr.OutOfRangeError
	if !errors.As(decodeErrCause(t, err), &oor) {
		t.Fatalf("expected OutOfRangeError for list with keywords, got %v", err)
	}

	_, err = codec.Decode(esexpr.NewConstructor("other"))
	var ue *esexpr.UnexpectedExprError
	if !errors.As(decodeErrCause(t, err), &ue) {
		t.Fatalf("expected UnexpectedExprError for wrong constructor, got %v", err)
	}
}

func TestListCodecErrorPath(t *testing.T) {
	codec := esexpr.ListCodec(esexpr.BoolCodec())
	_, err := codec.Decode(esexpr.NewConstructor("list", esexpr.Bool(true), esexpr.NewInt(3)))
	var de *esexpr.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	pos, ok := de.Path.(esexpr.PathPositional)
	if !ok || pos.Name != "list" || pos.Index != 1 {
		t.Errorf("expected path at list[1], got %v", de.Path)
	}
}

func TestOptionCodecLevels(t *testing.T) {
	inner := esexpr.OptionCodec(esexpr.BoolCodec())
	outer := esexpr.OptionCodec(inner)

	if !outer.Tags().Contains(esexpr.Tag{Kind: esexpr.KindNull}) {
		t.Error("option tags must include null")
	}
	if !outer.Tags().Contains(esexpr.Tag{Kind: esexpr.KindBool}) {
		t.Error("option tags must include the inner tags")
	}

	// Outer absent.
	if got := outer.Encode(esexpr.None[esexpr.Option[bool]]()); !esexpr.Equal(got, esexpr.Null(0)) {
		t.Errorf("Encode(None) = %v", got)
	}
	// Outer present, inner absent.
	someNone := esexpr.Some(esexpr.None[bool]())
	if got := outer.Encode(someNone); !esexpr.Equal(got, esexpr.Null(1)) {
		t.Errorf("Encode(Some(None)) = %v", got)
	}
	// Fully present.
	someSome := esexpr.Some(esexpr.Some(true))
	if got := outer.Encode(someSome); !esexpr.Equal(got, esexpr.Bool(true)) {
		t.Errorf("Encode(Some(Some(true))) = %v", got)
	}

	v := mustDecode(t, outer, esexpr.Null(1))
	innerOpt, ok := v.Get()
	if !ok || innerOpt.IsSome() {
		t.Errorf("Decode(#null1) = %v", v)
	}
	if v := mustDecode(t, outer, esexpr.Null(0)); v.IsSome() {
		t.Errorf("Decode(#null) = %v", v)
	}
}

func TestOptionalFieldAdapter(t *testing.T) {
	adapter := esexpr.OptionalFieldOf(esexpr.BoolCodec())

	if _, ok := adapter.EncodeOptionalField(esexpr.None[bool]()); ok {
		t.Error("absent optional field must be omitted")
	}
	expr, ok := adapter.EncodeOptionalField(esexpr.Some(true))
	if !ok || !esexpr.Equal(expr, esexpr.Bool(true)) {
		t.Errorf("EncodeOptionalField(Some(true)) = %v, %v", expr, ok)
	}

	v, err := adapter.DecodeOptionalField(nil)
	if err != nil || v.IsSome() {
		t.Errorf("DecodeOptionalField(absent) = %v, %v", v, err)
	}
	v, err = adapter.DecodeOptionalField(esexpr.Bool(false))
	if err != nil || !v.IsSome() {
		t.Errorf("DecodeOptionalField(#false) = %v, %v", v, err)
	}
}

func TestVarArgAndDictAdapters(t *testing.T) {
	va := esexpr.VarArgOf(esexpr.IntCodec[int32]())
	var args []esexpr.Expr
	va.EncodeVarArg([]int32{1, 2}, &args)
	if len(args) != 2 {
		t.Fatalf("expected 2 encoded varargs, got %d", len(args))
	}
	vs, err := va.DecodeVarArg(args)
	if err != nil || len(vs) != 2 || vs[0] != 1 || vs[1] != 2 {
		t.Errorf("DecodeVarArg = %v, %v", vs, err)
	}

	dict := esexpr.DictOf(esexpr.BoolCodec())
	kwargs := map[string]esexpr.Expr{}
	dict.EncodeDict(map[string]bool{"x": true}, kwargs)
	if len(kwargs) != 1 {
		t.Fatalf("expected 1 encoded dict entry, got %d", len(kwargs))
	}
	m, err := dict.DecodeDict(kwargs)
	if err != nil || !m["x"] {
		t.Errorf("DecodeDict = %v, %v", m, err)
	}
}
