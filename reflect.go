package esexpr

import (
	"fmt"
	"math/big"
	"reflect"
)

// Marshaler lets a type provide its own expression form.
type Marshaler interface {
	MarshalESExpr() (Expr, error)
}

// Unmarshaler lets a type decode itself from an expression.
type Unmarshaler interface {
	UnmarshalESExpr(expr Expr) error
}

var (
	exprType        = reflect.TypeFor[Expr]()
	bigIntType      = reflect.TypeFor[*big.Int]()
	marshalerType   = reflect.TypeFor[Marshaler]()
	unmarshalerType = reflect.TypeFor[Unmarshaler]()
)

// Marshal converts a Go value to its expression form using the same
// type mapping as RecordCodec: booleans, integers (fixed width or
// *big.Int), floats, strings, []byte, slices (as list), structs (as
// records), and types implementing Marshaler.
func Marshal(value any) (Expr, error) {
	if value == nil {
		return nil, fmt.Errorf("esexpr: cannot marshal nil")
	}
	return encodeReflect(reflect.ValueOf(value))
}

// Unmarshal decodes an expression into out, which must be a non-nil
// pointer.
func Unmarshal(expr Expr, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("esexpr: unmarshal target must be a non-nil pointer, got %T", out)
	}
	return decodeReflect(expr, v.Elem())
}

func encodeReflect(v reflect.Value) (Expr, error) {
	t := v.Type()

	if t.Implements(exprType) {
		return v.Interface().(Expr), nil
	}
	if t.Implements(marshalerType) {
		return v.Interface().(Marshaler).MarshalESExpr()
	}
	if v.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
		return v.Addr().Interface().(Marshaler).MarshalESExpr()
	}
	if t == bigIntType {
		if v.IsNil() {
			return nil, fmt.Errorf("esexpr: cannot marshal nil *big.Int")
		}
		return IntFromBig(v.Interface().(*big.Int)), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return Bool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int{Value: big.NewInt(v.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int{Value: new(big.Int).SetUint64(v.Uint())}, nil
	case reflect.Float32:
		return Float32(v.Float()), nil
	case reflect.Float64:
		return Float64(v.Float()), nil
	case reflect.String:
		return Str(v.String()), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Binary(v.Bytes()), nil
		}
		args := make([]Expr, v.Len())
		for i := 0; i < v.Len(); i++ {
			e, err := encodeReflect(v.Index(i))
			if err != nil {
				return nil, err
			}
			args[i] = e
		}
		return &Constructor{Name: listName, Args: args, KwArgs: map[string]Expr{}}, nil
	case reflect.Struct:
		layout, err := layoutFor(t)
		if err != nil {
			return nil, err
		}
		return layout.encode(v)
	case reflect.Pointer:
		// A pointer is an optional value: nil is null, and a nested
		// null moves one level deeper so each layer of absence stays
		// distinct.
		if v.IsNil() {
			return Null(0), nil
		}
		inner, err := encodeReflect(v.Elem())
		if err != nil {
			return nil, err
		}
		if n, isNull := inner.(Null); isNull {
			return n + 1, nil
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("esexpr: unsupported type %s", t)
	}
}

func decodeReflect(expr Expr, v reflect.Value) error {
	t := v.Type()

	if t == bigIntType {
		i, ok := expr.(Int)
		if !ok {
			return errUnexpected(NewTagSet(Tag{Kind: KindInt}), expr.Tag())
		}
		v.Set(reflect.ValueOf(i.Value))
		return nil
	}
	if t == exprType || (t.Kind() == reflect.Interface && exprType.Implements(t)) {
		if reflect.TypeOf(expr).Implements(t) {
			v.Set(reflect.ValueOf(expr))
			return nil
		}
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) && v.CanAddr() {
		return v.Addr().Interface().(Unmarshaler).UnmarshalESExpr(expr)
	}

	switch t.Kind() {
	case reflect.Bool:
		b, ok := expr.(Bool)
		if !ok {
			return errUnexpected(NewTagSet(Tag{Kind: KindBool}), expr.Tag())
		}
		v.SetBool(bool(b))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := expr.(Int)
		if !ok {
			return errUnexpected(NewTagSet(Tag{Kind: KindInt}), expr.Tag())
		}
		if !i.Value.IsInt64() || v.OverflowInt(i.Value.Int64()) {
			return errOutOfRange("unexpected integer value for %s", t)
		}
		v.SetInt(i.Value.Int64())
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := expr.(Int)
		if !ok {
			return errUnexpected(NewTagSet(Tag{Kind: KindInt}), expr.Tag())
		}
		if i.Value.Sign() < 0 || !i.Value.IsUint64() || v.OverflowUint(i.Value.Uint64()) {
			return errOutOfRange("unexpected integer value for %s", t)
		}
		v.SetUint(i.Value.Uint64())
		return nil
	case reflect.Float32:
		f, ok := expr.(Float32)
		if !ok {
			return errUnexpected(NewTagSet(Tag{Kind: KindFloat32}), expr.Tag())
		}
		v.SetFloat(float64(f))
		return nil
	case reflect.Float64:
		f, ok := expr.(Float64)
		if !ok {
			return errUnexpected(NewTagSet(Tag{Kind: KindFloat64}), expr.Tag())
		}
		v.SetFloat(float64(f))
		return nil
	case reflect.String:
		s, ok := expr.(Str)
		if !ok {
			return errUnexpected(NewTagSet(Tag{Kind: KindStr}), expr.Tag())
		}
		v.SetString(string(s))
		return nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			b, ok := expr.(Binary)
			if !ok {
				return errUnexpected(NewTagSet(Tag{Kind: KindBinary}), expr.Tag())
			}
			v.SetBytes(append([]byte(nil), b...))
			return nil
		}
		ctor, ok := expr.(*Constructor)
		if !ok || ctor.Name != listName {
			return errUnexpected(NewTagSet(ConstructorTag(listName)), expr.Tag())
		}
		if len(ctor.KwArgs) != 0 {
			return errOutOfRange("list must not have keyword arguments")
		}
		out := reflect.MakeSlice(t, len(ctor.Args), len(ctor.Args))
		for i, arg := range ctor.Args {
			if err := decodeReflect(arg, out.Index(i)); err != nil {
				return inPositional(err, listName, i)
			}
		}
		v.Set(out)
		return nil
	case reflect.Struct:
		layout, err := layoutFor(t)
		if err != nil {
			return err
		}
		return layout.decode(expr, v)
	case reflect.Pointer:
		if n, isNull := expr.(Null); isNull {
			if n == 0 {
				v.SetZero()
				return nil
			}
			expr = n - 1
		}
		elem := reflect.New(t.Elem())
		if err := decodeReflect(expr, elem.Elem()); err != nil {
			return err
		}
		v.Set(elem)
		return nil
	default:
		return fmt.Errorf("esexpr: unsupported type %s", t)
	}
}
