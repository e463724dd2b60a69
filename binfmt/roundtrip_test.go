package binfmt_test

import (
	"bytes"
	"math"
	"math/big"
	"testing"

	"esexpr"
	"esexpr/binfmt"
)

func TestRoundTrip(t *testing.T) {
	bigPos, _ := new(big.Int).SetString("98765432109876543210", 10)
	bigNeg, _ := new(big.Int).SetString("-12345678901234567890", 10)

	exprs := []esexpr.Expr{
		esexpr.Bool(true),
		esexpr.Bool(false),
		esexpr.Null(0),
		esexpr.Null(1),
		esexpr.Null(7),
		esexpr.NewInt(0),
		esexpr.NewInt(4),
		esexpr.NewInt(-1),
		esexpr.NewInt(-16),
		esexpr.IntFromBig(bigPos),
		esexpr.IntFromBig(bigNeg),
		esexpr.Str(""),
		esexpr.Str("hello"),
		esexpr.Str("snowman ☃ and emoji \U0001F600"),
		esexpr.Binary{},
		esexpr.Binary{0x00, 0x01, 0xFE, 0xFF},
		esexpr.Float32(1.5),
		esexpr.Float32(float32(math.Inf(-1))),
		esexpr.Float32(math.Float32frombits(0x7FC00001)), // NaN payload
		esexpr.Float64(-2.25),
		esexpr.Float64(math.Inf(1)),
		esexpr.Float64(math.Float64frombits(0x7FF8000000000001)), // NaN payload
		esexpr.NewConstructor("empty"),
		esexpr.NewConstructor("list", esexpr.Bool(true), esexpr.Bool(false)),
		&esexpr.Constructor{
			Name: "mixed",
			Args: []esexpr.Expr{
				esexpr.NewInt(1),
				esexpr.NewConstructor("nested", esexpr.Str("deep")),
			},
			KwArgs: map[string]esexpr.Expr{
				"flag":  esexpr.Bool(true),
				"other": esexpr.Null(2),
			},
		},
	}

	for _, expr := range exprs {
		var buf bytes.Buffer
		if err := binfmt.Encode(&buf, expr); err != nil {
			t.Errorf("Encode(%v) failed: %v", expr, err)
			continue
		}
		parsed, err := binfmt.Decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Errorf("Decode(%v) failed: %v", expr, err)
			continue
		}
		if !esexpr.Equal(parsed, expr) {
			t.Errorf("round trip changed %v into %v", expr, parsed)
		}
	}
}

func TestMultipleExpressionsOneStream(t *testing.T) {
	// Nothing forbids several expressions after one pool.
	pool := &binfmt.FixedStringPool{Strings: []string{"c"}}

	var buf bytes.Buffer
	gen := binfmt.NewGenerator(&buf, pool)
	for _, expr := range []esexpr.Expr{
		esexpr.NewConstructor("c", esexpr.NewInt(1)),
		esexpr.NewConstructor("c", esexpr.NewInt(2)),
	} {
		if err := gen.Generate(expr); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
	}

	p := binfmt.NewParser(bytes.NewReader(buf.Bytes()), pool)
	for i := 1; i <= 2; i++ {
		expr, err := p.Next()
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		want := esexpr.NewConstructor("c", esexpr.NewInt(int64(i)))
		if !esexpr.Equal(expr, want) {
			t.Errorf("expression %d = %v, want %v", i, expr, want)
		}
	}
}
