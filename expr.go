// Package esexpr implements the ESExpr structured-data model: a small
// tagged value tree with named constructors, arbitrary-precision integers,
// two IEEE-754 float widths, binary blobs, and levelled nulls.
//
// The sibling packages binfmt, textfmt, and jsonfmt provide lossless
// conversions between this model and its three surface representations.
package esexpr

import (
	"math"
	"math/big"
)

// Expr is a value in the ESExpr model. The concrete variants are
// *Constructor, Bool, Int, Str, Binary, Float32, Float64, and Null.
//
// Expressions are plain data: trees, never graphs, owned by whoever
// built them.
type Expr interface {
	Tag() Tag

	// sealed restricts implementations to this package.
	sealed()
}

// Constructor is a named node with ordered positional children and a
// keyword map. Keyword keys are unique; iteration order of KwArgs is
// not meaningful.
type Constructor struct {
	Name   string
	Args   []Expr
	KwArgs map[string]Expr
}

// NewConstructor builds a constructor with positional args only.
func NewConstructor(name string, args ...Expr) *Constructor {
	return &Constructor{Name: name, Args: args, KwArgs: map[string]Expr{}}
}

func (c *Constructor) Tag() Tag { return ConstructorTag(c.Name) }
func (c *Constructor) sealed()  {}

// Bool is a boolean expression.
type Bool bool

func (Bool) Tag() Tag { return Tag{Kind: KindBool} }
func (Bool) sealed()  {}

// Int is an arbitrary-precision signed integer expression.
// The wrapped value is treated as immutable.
type Int struct {
	Value *big.Int
}

// NewInt builds an Int from a machine integer.
func NewInt(v int64) Int { return Int{Value: big.NewInt(v)} }

// IntFromBig wraps an existing big integer without copying it.
func IntFromBig(v *big.Int) Int { return Int{Value: v} }

func (Int) Tag() Tag { return Tag{Kind: KindInt} }
func (Int) sealed()  {}

// Str is a text expression.
type Str string

func (Str) Tag() Tag { return Tag{Kind: KindStr} }
func (Str) sealed()  {}

// Binary is an octet-sequence expression.
type Binary []byte

func (Binary) Tag() Tag { return Tag{Kind: KindBinary} }
func (Binary) sealed()  {}

// Float32 is a 32-bit IEEE-754 expression. NaN payloads are preserved.
type Float32 float32

func (Float32) Tag() Tag { return Tag{Kind: KindFloat32} }
func (Float32) sealed()  {}

// Float64 is a 64-bit IEEE-754 expression. NaN payloads are preserved.
type Float64 float64

func (Float64) Tag() Tag { return Tag{Kind: KindFloat64} }
func (Float64) sealed()  {}

// Null is an absent value carrying a nesting level. Level 0 is the
// ordinary null; level n+1 marks an absence one optional layer deeper,
// so an optional-of-optional can distinguish "outer absent" from
// "outer present, inner absent".
type Null uint32

func (Null) Tag() Tag { return Tag{Kind: KindNull} }
func (Null) sealed()  {}

// Equal reports structural equality of two expressions. Floats compare
// by bit pattern, so NaNs are equal exactly when their payloads match
// and +0 differs from -0.
func Equal(a, b Expr) bool {
	switch av := a.(type) {
	case *Constructor:
		bv, ok := b.(*Constructor)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) || len(av.KwArgs) != len(bv.KwArgs) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		for k, v := range av.KwArgs {
			w, ok := bv.KwArgs[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av.Value.Cmp(bv.Value) == 0
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case Binary:
		bv, ok := b.(Binary)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case Float32:
		bv, ok := b.(Float32)
		return ok && math.Float32bits(float32(av)) == math.Float32bits(float32(bv))
	case Float64:
		bv, ok := b.(Float64)
		return ok && math.Float64bits(float64(av)) == math.Float64bits(float64(bv))
	case Null:
		bv, ok := b.(Null)
		return ok && av == bv
	default:
		return false
	}
}
