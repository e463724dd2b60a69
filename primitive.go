package esexpr

import (
	"math/big"

	"fortio.org/safecast"
)

type boolCodec struct{}

func (boolCodec) Tags() TagSet           { return NewTagSet(Tag{Kind: KindBool}) }
func (boolCodec) Encode(value bool) Expr { return Bool(value) }
func (c boolCodec) Decode(expr Expr) (bool, error) {
	b, ok := expr.(Bool)
	if !ok {
		return false, errUnexpected(c.Tags(), expr.Tag())
	}
	return bool(b), nil
}

// BoolCodec decodes and encodes booleans.
func BoolCodec() Codec[bool] { return boolCodec{} }

type strCodec struct{}

func (strCodec) Tags() TagSet             { return NewTagSet(Tag{Kind: KindStr}) }
func (strCodec) Encode(value string) Expr { return Str(value) }
func (c strCodec) Decode(expr Expr) (string, error) {
	s, ok := expr.(Str)
	if !ok {
		return "", errUnexpected(c.Tags(), expr.Tag())
	}
	return string(s), nil
}

// StrCodec decodes and encodes text.
func StrCodec() Codec[string] { return strCodec{} }

type binaryCodec struct{}

func (binaryCodec) Tags() TagSet             { return NewTagSet(Tag{Kind: KindBinary}) }
func (binaryCodec) Encode(value []byte) Expr { return Binary(value) }
func (c binaryCodec) Decode(expr Expr) ([]byte, error) {
	b, ok := expr.(Binary)
	if !ok {
		return nil, errUnexpected(c.Tags(), expr.Tag())
	}
	return []byte(b), nil
}

// BinaryCodec decodes and encodes octet sequences.
func BinaryCodec() Codec[[]byte] { return binaryCodec{} }

type float32Codec struct{}

func (float32Codec) Tags() TagSet              { return NewTagSet(Tag{Kind: KindFloat32}) }
func (float32Codec) Encode(value float32) Expr { return Float32(value) }
func (c float32Codec) Decode(expr Expr) (float32, error) {
	f, ok := expr.(Float32)
	if !ok {
		return 0, errUnexpected(c.Tags(), expr.Tag())
	}
	return float32(f), nil
}

// Float32Codec decodes and encodes 32-bit floats.
func Float32Codec() Codec[float32] { return float32Codec{} }

type float64Codec struct{}

func (float64Codec) Tags() TagSet              { return NewTagSet(Tag{Kind: KindFloat64}) }
func (float64Codec) Encode(value float64) Expr { return Float64(value) }
func (c float64Codec) Decode(expr Expr) (float64, error) {
	f, ok := expr.(Float64)
	if !ok {
		return 0, errUnexpected(c.Tags(), expr.Tag())
	}
	return float64(f), nil
}

// Float64Codec decodes and encodes 64-bit floats.
func Float64Codec() Codec[float64] { return float64Codec{} }

type bigIntCodec struct{}

func (bigIntCodec) Tags() TagSet               { return NewTagSet(Tag{Kind: KindInt}) }
func (bigIntCodec) Encode(value *big.Int) Expr { return IntFromBig(value) }
func (c bigIntCodec) Decode(expr Expr) (*big.Int, error) {
	i, ok := expr.(Int)
	if !ok {
		return nil, errUnexpected(c.Tags(), expr.Tag())
	}
	return i.Value, nil
}

// BigIntCodec decodes and encodes arbitrary-precision signed integers.
func BigIntCodec() Codec[*big.Int] { return bigIntCodec{} }

type bigUintCodec struct{}

func (bigUintCodec) Tags() TagSet               { return NewTagSet(Tag{Kind: KindInt}) }
func (bigUintCodec) Encode(value *big.Int) Expr { return IntFromBig(value) }
func (c bigUintCodec) Decode(expr Expr) (*big.Int, error) {
	i, ok := expr.(Int)
	if !ok {
		return nil, errUnexpected(c.Tags(), expr.Tag())
	}
	if i.Value.Sign() < 0 {
		return nil, errOutOfRange("unexpected integer value for unsigned big integer")
	}
	return i.Value, nil
}

// BigUintCodec decodes and encodes arbitrary-precision integers,
// rejecting negative values on decode.
func BigUintCodec() Codec[*big.Int] { return bigUintCodec{} }

// Integer covers the fixed-width integer types served by IntCodec.
type Integer interface {
	int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64
}

type intCodec[T Integer] struct{}

func (intCodec[T]) Tags() TagSet { return NewTagSet(Tag{Kind: KindInt}) }

func (intCodec[T]) Encode(value T) Expr {
	var zero T
	switch any(zero).(type) {
	case uint, uint8, uint16, uint32, uint64:
		return Int{Value: new(big.Int).SetUint64(uint64(value))}
	default:
		return Int{Value: big.NewInt(int64(value))}
	}
}

func (c intCodec[T]) Decode(expr Expr) (T, error) {
	var zero T
	i, ok := expr.(Int)
	if !ok {
		return zero, errUnexpected(c.Tags(), expr.Tag())
	}
	if i.Value.IsInt64() {
		v, err := safecast.Conv[T](i.Value.Int64())
		if err != nil {
			return zero, errOutOfRange("unexpected integer value for %T", zero)
		}
		return v, nil
	}
	if i.Value.IsUint64() {
		v, err := safecast.Conv[T](i.Value.Uint64())
		if err != nil {
			return zero, errOutOfRange("unexpected integer value for %T", zero)
		}
		return v, nil
	}
	return zero, errOutOfRange("unexpected integer value for %T", zero)
}

// IntCodec decodes and encodes a fixed-width integer type, range
// checking on decode.
func IntCodec[T Integer]() Codec[T] { return intCodec[T]{} }

// listName is the reserved constructor for ordered sequences.
const listName = "list"

type listCodec[T any] struct {
	elem Codec[T]
}

func (listCodec[T]) Tags() TagSet { return NewTagSet(ConstructorTag(listName)) }

func (c listCodec[T]) Encode(value []T) Expr {
	args := make([]Expr, len(value))
	for i, v := range value {
		args[i] = c.elem.Encode(v)
	}
	return &Constructor{Name: listName, Args: args, KwArgs: map[string]Expr{}}
}

func (c listCodec[T]) Decode(expr Expr) ([]T, error) {
	ctor, ok := expr.(*Constructor)
	if !ok || ctor.Name != listName {
		return nil, errUnexpected(c.Tags(), expr.Tag())
	}
	if len(ctor.KwArgs) != 0 {
		return nil, errOutOfRange("list must not have keyword arguments")
	}
	out := make([]T, len(ctor.Args))
	for i, arg := range ctor.Args {
		v, err := c.elem.Decode(arg)
		if err != nil {
			return nil, inPositional(err, listName, i)
		}
		out[i] = v
	}
	return out, nil
}

// ListCodec decodes and encodes ordered sequences, mapped onto the
// reserved list constructor with no keyword arguments.
func ListCodec[T any](elem Codec[T]) Codec[[]T] { return listCodec[T]{elem: elem} }

type optionCodec[T any] struct {
	elem Codec[T]
}

func (c optionCodec[T]) Tags() TagSet {
	return c.elem.Tags().Union(NewTagSet(Tag{Kind: KindNull}))
}

func (c optionCodec[T]) Encode(value Option[T]) Expr {
	v, ok := value.Get()
	if !ok {
		return Null(0)
	}
	inner := c.elem.Encode(v)
	// A nested null moves one level deeper so the outer layer's own
	// absence stays distinguishable.
	if n, isNull := inner.(Null); isNull {
		return n + 1
	}
	return inner
}

func (c optionCodec[T]) Decode(expr Expr) (Option[T], error) {
	if n, isNull := expr.(Null); isNull {
		if n == 0 {
			return None[T](), nil
		}
		expr = n - 1
	}
	v, err := c.elem.Decode(expr)
	if err != nil {
		return None[T](), err
	}
	return Some(v), nil
}

// OptionCodec decodes and encodes optional values. None encodes as
// null at level 0; nested options shift null levels so each layer of
// absence remains distinct.
func OptionCodec[T any](elem Codec[T]) Codec[Option[T]] { return optionCodec[T]{elem: elem} }

type optionalFieldCodec[T any] struct {
	elem Codec[T]
}

func (c optionalFieldCodec[T]) EncodeOptionalField(value Option[T]) (Expr, bool) {
	v, ok := value.Get()
	if !ok {
		return nil, false
	}
	return c.elem.Encode(v), true
}

func (c optionalFieldCodec[T]) DecodeOptionalField(expr Expr) (Option[T], error) {
	if expr == nil {
		return None[T](), nil
	}
	v, err := c.elem.Decode(expr)
	if err != nil {
		return None[T](), err
	}
	return Some(v), nil
}

// OptionalFieldOf adapts an element codec to an optional field:
// absence omits the field entirely rather than encoding a null.
func OptionalFieldOf[T any](elem Codec[T]) OptionalFieldCodec[Option[T]] {
	return optionalFieldCodec[T]{elem: elem}
}

type varArgCodec[T any] struct {
	elem Codec[T]
}

func (c varArgCodec[T]) EncodeVarArg(value []T, args *[]Expr) {
	for _, v := range value {
		*args = append(*args, c.elem.Encode(v))
	}
}

func (c varArgCodec[T]) DecodeVarArg(args []Expr) ([]T, error) {
	out := make([]T, len(args))
	for i, arg := range args {
		v, err := c.elem.Decode(arg)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// VarArgOf adapts an element codec to a trailing run of positional
// arguments.
func VarArgOf[T any](elem Codec[T]) VarArgCodec[[]T] { return varArgCodec[T]{elem: elem} }

type dictCodec[T any] struct {
	elem Codec[T]
}

func (c dictCodec[T]) EncodeDict(value map[string]T, kwargs map[string]Expr) {
	for k, v := range value {
		kwargs[k] = c.elem.Encode(v)
	}
}

func (c dictCodec[T]) DecodeDict(kwargs map[string]Expr) (map[string]T, error) {
	out := make(map[string]T, len(kwargs))
	for k, v := range kwargs {
		dv, err := c.elem.Decode(v)
		if err != nil {
			return nil, err
		}
		out[k] = dv
	}
	return out, nil
}

// DictOf adapts an element codec to the whole keyword map.
func DictOf[T any](elem Codec[T]) DictCodec[map[string]T] { return dictCodec[T]{elem: elem} }
