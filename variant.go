package esexpr

import "fmt"

// VariantCase is one alternative of a variant codec. Build cases with
// CaseOf; wrap an inner codec with TransformCodec to adapt its value
// type first.
type VariantCase[T any] struct {
	tags    TagSet
	matches func(T) bool
	encode  func(T) Expr
	decode  func(Expr) (T, error)
}

// CaseOf builds a variant case from the codec of one alternative. C
// must be a concrete type whose values are assignable to T; encode
// dispatch selects the first case whose dynamic type matches.
//
// A case whose codec is the alternative's bare inner-value codec (via
// TransformCodec) is an inline value: it encodes with no constructor
// wrapper and dispatches on the inner type's tags.
func CaseOf[T any, C any](codec Codec[C]) VariantCase[T] {
	return VariantCase[T]{
		tags: codec.Tags(),
		matches: func(v T) bool {
			_, ok := any(v).(C)
			return ok
		},
		encode: func(v T) Expr {
			return codec.Encode(any(v).(C))
		},
		decode: func(expr Expr) (T, error) {
			var zero T
			c, err := codec.Decode(expr)
			if err != nil {
				return zero, err
			}
			v, ok := any(c).(T)
			if !ok {
				panic(fmt.Sprintf("esexpr: case type %T is not assignable to variant type %T", c, zero))
			}
			return v, nil
		},
	}
}

type variantCodec[T any] struct {
	cases []VariantCase[T]
	tags  TagSet
}

func (c variantCodec[T]) Tags() TagSet { return c.tags }

func (c variantCodec[T]) Encode(value T) Expr {
	for _, vc := range c.cases {
		if vc.matches(value) {
			return vc.encode(value)
		}
	}
	panic(fmt.Sprintf("esexpr: no variant case matches value of type %T", value))
}

func (c variantCodec[T]) Decode(expr Expr) (T, error) {
	tag := expr.Tag()
	for _, vc := range c.cases {
		if vc.tags.Contains(tag) {
			return vc.decode(expr)
		}
	}
	var zero T
	return zero, errUnexpected(c.tags, tag)
}

// NewVariantCodec composes case codecs into a codec for a sum type.
// Decode dispatches on the incoming expression tag; overlapping case
// tag sets are a definition-time error.
func NewVariantCodec[T any](cases ...VariantCase[T]) (Codec[T], error) {
	var zero T
	tags := TagSet{}
	for _, vc := range cases {
		if vc.tags.Len() == 0 {
			return nil, &DefinitionError{
				Type:    fmt.Sprintf("%T", zero),
				Message: "variant cases must accept at least one tag",
			}
		}
		for _, t := range vc.tags.Tags() {
			if tags.Contains(t) {
				return nil, &DefinitionError{
					Type:    fmt.Sprintf("%T", zero),
					Message: fmt.Sprintf("variant cases overlap on tag %s", t),
				}
			}
		}
		tags = tags.Union(vc.tags)
	}
	return variantCodec[T]{cases: cases, tags: tags}, nil
}

// VariantCodec is NewVariantCodec for case sets known to be disjoint;
// it panics on a definition error.
func VariantCodec[T any](cases ...VariantCase[T]) Codec[T] {
	codec, err := NewVariantCodec[T](cases...)
	if err != nil {
		panic(err)
	}
	return codec
}

type transformCodec[A, B any] struct {
	inner Codec[A]
	from  func(A) (B, error)
	to    func(B) A
}

func (c transformCodec[A, B]) Tags() TagSet        { return c.inner.Tags() }
func (c transformCodec[A, B]) Encode(value B) Expr { return c.inner.Encode(c.to(value)) }
func (c transformCodec[A, B]) Decode(expr Expr) (B, error) {
	var zero B
	a, err := c.inner.Decode(expr)
	if err != nil {
		return zero, err
	}
	return c.from(a)
}

// TransformCodec maps a codec across a pair of conversion functions,
// typically to wrap a primitive codec into a named case type.
func TransformCodec[A, B any](inner Codec[A], from func(A) (B, error), to func(B) A) Codec[B] {
	return transformCodec[A, B]{inner: inner, from: from, to: to}
}

type simpleEnumCodec[T ~string] struct {
	values []T
}

func (simpleEnumCodec[T]) Tags() TagSet { return NewTagSet(Tag{Kind: KindStr}) }

func (simpleEnumCodec[T]) Encode(value T) Expr { return Str(value) }

func (c simpleEnumCodec[T]) Decode(expr Expr) (T, error) {
	var zero T
	s, ok := expr.(Str)
	if !ok {
		return zero, errUnexpected(c.Tags(), expr.Tag())
	}
	for _, v := range c.values {
		if string(v) == string(s) {
			return v, nil
		}
	}
	return zero, errOutOfRange("invalid enum value: %s", string(s))
}

// SimpleEnumCodec maps a string-typed enumeration onto plain string
// expressions; decode rejects values outside the declared set.
func SimpleEnumCodec[T ~string](values ...T) Codec[T] {
	return simpleEnumCodec[T]{values: values}
}
