package binfmt

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"slices"

	"esexpr"
)

// Generator writes expressions as a token stream. Constructor names
// and keyword names must resolve in the generator's string pool;
// string values are written inline.
type Generator struct {
	w    *bufio.Writer
	pool StringPool
}

// NewGenerator writes tokens to w using pool for name lookups.
func NewGenerator(w io.Writer, pool StringPool) *Generator {
	return &Generator{w: bufio.NewWriter(w), pool: pool}
}

// Generate emits one expression and flushes the underlying writer.
func (g *Generator) Generate(expr esexpr.Expr) error {
	if err := g.generate(expr); err != nil {
		return err
	}
	return g.w.Flush()
}

func (g *Generator) generate(expr esexpr.Expr) error {
	switch e := expr.(type) {
	case *esexpr.Constructor:
		switch e.Name {
		case stringTableName:
			if err := g.w.WriteByte(tagConstructorStartString); err != nil {
				return err
			}
		case listName:
			if err := g.w.WriteByte(tagConstructorStartList); err != nil {
				return err
			}
		default:
			if err := g.writeName(tagVarintConstructorStart, e.Name); err != nil {
				return err
			}
		}

		for _, arg := range e.Args {
			if err := g.generate(arg); err != nil {
				return err
			}
		}

		// Sorted keys keep the byte stream deterministic; keyword maps
		// are semantically unordered.
		keys := make([]string, 0, len(e.KwArgs))
		for k := range e.KwArgs {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := g.writeName(tagVarintKeyword, k); err != nil {
				return err
			}
			if err := g.generate(e.KwArgs[k]); err != nil {
				return err
			}
		}

		return g.w.WriteByte(tagConstructorEnd)

	case esexpr.Bool:
		if e {
			return g.w.WriteByte(tagTrue)
		}
		return g.w.WriteByte(tagFalse)

	case esexpr.Int:
		if e.Value.Sign() >= 0 {
			return writeVarint(g.w, tagVarintNonNegInt, e.Value)
		}
		magnitude := new(big.Int).Neg(e.Value)
		magnitude.Sub(magnitude, bigOne)
		return writeVarint(g.w, tagVarintNegInt, magnitude)

	case esexpr.Str:
		if err := writeVarint(g.w, tagVarintStringLength, big.NewInt(int64(len(e)))); err != nil {
			return err
		}
		_, err := g.w.WriteString(string(e))
		return err

	case esexpr.Binary:
		if err := writeVarint(g.w, tagVarintBytesLength, big.NewInt(int64(len(e)))); err != nil {
			return err
		}
		_, err := g.w.Write(e)
		return err

	case esexpr.Float32:
		if err := g.w.WriteByte(tagFloat32); err != nil {
			return err
		}
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(e)))
		_, err := g.w.Write(buf[:])
		return err

	case esexpr.Float64:
		if err := g.w.WriteByte(tagFloat64); err != nil {
			return err
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(e)))
		_, err := g.w.Write(buf[:])
		return err

	case esexpr.Null:
		if e == 0 {
			return g.w.WriteByte(tagNull)
		}
		if err := g.w.WriteByte(tagNullLevel); err != nil {
			return err
		}
		return writeVarint(g.w, tagVarintNonNegInt, new(big.Int).SetUint64(uint64(e)))

	default:
		panic("unreachable")
	}
}

func (g *Generator) writeName(tag byte, name string) error {
	index, ok := g.pool.Lookup(name)
	if !ok {
		return ErrStringNotInStringPool
	}
	return writeVarint(g.w, tag, big.NewInt(int64(index)))
}

// Encode writes a complete single-expression stream: the expression's
// pool, computed in a collect pass, followed by the expression itself.
// The pool's own strings are inlined, since no pool exists yet to
// reference when it is written.
func Encode(w io.Writer, expr esexpr.Expr) error {
	builder := NewStringPoolBuilder()
	if err := builder.Add(expr); err != nil {
		return err
	}
	pool := builder.Build()

	poolGen := NewGenerator(w, &FixedStringPool{})
	if err := poolGen.Generate(fixedStringPoolCodec.Encode(*pool)); err != nil {
		return err
	}

	gen := NewGenerator(w, pool)
	return gen.Generate(expr)
}
