package textfmt

import "math/big"

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokColon
	tokIdent // simple or single-quoted; text holds the decoded name
	tokInt
	tokFloat32
	tokFloat64
	tokString // text holds the decoded value
	tokBinary
	tokBool
	tokNull
)

type token struct {
	kind      tokenKind
	span      Span
	text      string
	intValue  *big.Int
	f32Value  float32
	f64Value  float64
	boolValue bool
	nullLevel uint32
	binValue  []byte
}
