package binfmt

import (
	"io"

	"esexpr"
)

// StringPool resolves the strings a binary stream refers to by index.
type StringPool interface {
	// Lookup returns the index of s, or ok=false when s is not pooled.
	Lookup(s string) (index int, ok bool)
}

// FixedStringPool is an immutable string pool. Its expression form is
// the reserved string-table constructor holding the strings as a
// vararg, which is how a pool embeds itself at the front of a stream.
type FixedStringPool struct {
	Strings []string `esexpr:"vararg"`
}

// ESExprConstructorName maps the pool onto the reserved string-table
// constructor.
func (*FixedStringPool) ESExprConstructorName() string { return stringTableName }

// Lookup returns the index of s within the pool.
func (p *FixedStringPool) Lookup(s string) (int, bool) {
	for i, entry := range p.Strings {
		if entry == s {
			return i, true
		}
	}
	return 0, false
}

// Get returns the pool entry at index.
func (p *FixedStringPool) Get(index int) (string, error) {
	if index < 0 || index >= len(p.Strings) {
		return "", ErrInvalidStringTableIndex
	}
	return p.Strings[index], nil
}

// fixedStringPoolCodec decodes and encodes the pool through the
// ordinary codec machinery, exactly as any other record.
var fixedStringPoolCodec = esexpr.RecordCodec[FixedStringPool]()

// StringPoolBuilder computes the string pool for one or more
// expressions. The collect pass runs the generator against a counting
// pool with the output discarded, so every name the emit pass will
// look up is recorded, in first-seen order.
type StringPoolBuilder struct {
	indexes map[string]int
	order   []string
}

// NewStringPoolBuilder returns an empty builder.
func NewStringPoolBuilder() *StringPoolBuilder {
	return &StringPoolBuilder{indexes: map[string]int{}}
}

// Add walks expr and records every constructor name and keyword name
// it would need from a pool.
func (b *StringPoolBuilder) Add(expr esexpr.Expr) error {
	gen := NewGenerator(io.Discard, builderPool{b})
	return gen.Generate(expr)
}

// Build returns the collected strings as a fixed pool, in first-seen
// order.
func (b *StringPoolBuilder) Build() *FixedStringPool {
	return &FixedStringPool{Strings: append([]string(nil), b.order...)}
}

// builderPool records lookups instead of resolving them.
type builderPool struct {
	b *StringPoolBuilder
}

func (p builderPool) Lookup(s string) (int, bool) {
	if _, seen := p.b.indexes[s]; !seen {
		p.b.indexes[s] = len(p.b.order)
		p.b.order = append(p.b.order, s)
	}
	return 0, true
}
