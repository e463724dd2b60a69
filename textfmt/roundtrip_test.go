package textfmt_test

import (
	"math"
	"math/big"
	"testing"

	"esexpr"
	"esexpr/textfmt"
)

func TestTextRoundTrip(t *testing.T) {
	bigPos, _ := new(big.Int).SetString("98765432109876543210", 10)

	exprs := []esexpr.Expr{
		esexpr.Bool(true),
		esexpr.Null(0),
		esexpr.Null(9),
		esexpr.NewInt(0),
		esexpr.NewInt(-12345),
		esexpr.IntFromBig(bigPos),
		esexpr.Str("hello\nworld"),
		esexpr.Str("unicode ☃"),
		esexpr.Binary{0xDE, 0xAD, 0xBE, 0xEF},
		esexpr.Float32(1.5),
		esexpr.Float32(float32(math.Inf(1))),
		esexpr.Float32(float32(math.NaN())),
		esexpr.Float64(-0.0625),
		esexpr.Float64(1e300),
		esexpr.Float64(math.SmallestNonzeroFloat64),
		esexpr.Float64(math.Inf(-1)),
		esexpr.Float64(math.NaN()),
		esexpr.NewConstructor("empty"),
		&esexpr.Constructor{
			Name: "mixed",
			Args: []esexpr.Expr{
				esexpr.NewInt(1),
				esexpr.NewConstructor("nested", esexpr.Str("deep")),
			},
			KwArgs: map[string]esexpr.Expr{
				"flag":       esexpr.Bool(true),
				"weird name": esexpr.Null(2),
			},
		},
	}

	for _, expr := range exprs {
		text := textfmt.Format(expr)
		parsed, err := textfmt.ParseString(text)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", text, err)
			continue
		}
		if !esexpr.Equal(parsed, expr) {
			t.Errorf("round trip changed %v into %v (text %q)", expr, parsed, text)
		}
	}
}
