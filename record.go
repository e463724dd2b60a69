package esexpr

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// ConstructorNamer overrides the constructor name a record type maps
// to; without it the reformatted type name is used.
type ConstructorNamer interface {
	ESExprConstructorName() string
}

// DefinitionError reports misuse of the record field tags, detected
// when the codec for a type is first built.
type DefinitionError struct {
	Type    string
	Message string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("esexpr: invalid record definition %s: %s", e.Type, e.Message)
}

type fieldMode uint8

const (
	fieldPositional fieldMode = iota
	fieldOptionalPositional
	fieldVarArg
	fieldKeyword
	fieldDict
)

type recordField struct {
	index    int
	goName   string
	mode     fieldMode
	keyword  string
	optional bool
	hasDflt  bool
	dflt     reflect.Value
	typ      reflect.Type
}

type recordLayout struct {
	typ    reflect.Type
	name   string
	fields []recordField
}

var layoutCache sync.Map // reflect.Type -> *recordLayout or *DefinitionError

func layoutFor(t reflect.Type) (*recordLayout, error) {
	if cached, ok := layoutCache.Load(t); ok {
		switch c := cached.(type) {
		case *recordLayout:
			return c, nil
		case *DefinitionError:
			return nil, c
		}
	}
	layout, err := buildLayout(t)
	if err != nil {
		layoutCache.Store(t, err)
		return nil, err
	}
	layoutCache.Store(t, layout)
	return layout, nil
}

func buildLayout(t reflect.Type) (*recordLayout, *DefinitionError) {
	defErr := func(format string, args ...any) *DefinitionError {
		return &DefinitionError{Type: t.String(), Message: fmt.Sprintf(format, args...)}
	}

	if t.Kind() != reflect.Struct {
		return nil, defErr("record types must be structs, got %s", t.Kind())
	}

	layout := &recordLayout{typ: t, name: ReformatTypeName(t.Name())}
	if namer, ok := reflect.New(t).Interface().(ConstructorNamer); ok {
		layout.name = namer.ESExprConstructorName()
	}

	var (
		sawOptionalPositional bool
		sawVarArg             bool
		sawDict               bool
	)

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("esexpr")
		if tag == "-" {
			continue
		}

		f := recordField{index: i, goName: sf.Name, typ: sf.Type}
		var dfltLit string
		for _, opt := range strings.Split(tag, ",") {
			opt = strings.TrimSpace(opt)
			switch {
			case opt == "":
			case opt == "keyword":
				f.mode = fieldKeyword
				f.keyword = ReformatTypeName(sf.Name)
			case strings.HasPrefix(opt, "keyword="):
				f.mode = fieldKeyword
				f.keyword = strings.TrimPrefix(opt, "keyword=")
			case opt == "optional":
				f.optional = true
			case strings.HasPrefix(opt, "default="):
				f.hasDflt = true
				dfltLit = strings.TrimPrefix(opt, "default=")
			case opt == "vararg":
				f.mode = fieldVarArg
			case opt == "dict":
				f.mode = fieldDict
			default:
				return nil, defErr("field %s: unknown tag option %q", sf.Name, opt)
			}
		}

		switch f.mode {
		case fieldKeyword:
			if sawDict {
				return nil, defErr("keyword arguments must precede dict arguments")
			}
			if f.optional && f.hasDflt {
				return nil, defErr("field %s: optional keyword arguments cannot have default values", sf.Name)
			}
			if f.optional && sf.Type.Kind() != reflect.Pointer {
				return nil, defErr("field %s: optional fields must be pointers", sf.Name)
			}
		case fieldDict:
			if sawDict {
				return nil, defErr("only a single dict argument is allowed")
			}
			if f.optional || f.hasDflt {
				return nil, defErr("field %s: dict arguments cannot be optional or defaulted", sf.Name)
			}
			if sf.Type.Kind() != reflect.Map || sf.Type.Key().Kind() != reflect.String {
				return nil, defErr("field %s: dict fields must be maps with string keys", sf.Name)
			}
			sawDict = true
		case fieldVarArg:
			if sawVarArg {
				return nil, defErr("only a single vararg is allowed")
			}
			if f.optional || f.hasDflt {
				return nil, defErr("field %s: vararg arguments cannot be optional or defaulted", sf.Name)
			}
			if sf.Type.Kind() != reflect.Slice || sf.Type.Elem().Kind() == reflect.Uint8 {
				return nil, defErr("field %s: vararg fields must be slices", sf.Name)
			}
			sawVarArg = true
		default:
			if f.hasDflt {
				return nil, defErr("positional arguments cannot have default values")
			}
			if sawVarArg {
				return nil, defErr("positional arguments must precede varargs")
			}
			if f.optional {
				if sawOptionalPositional {
					return nil, defErr("only a single optional positional argument is allowed")
				}
				if sf.Type.Kind() != reflect.Pointer {
					return nil, defErr("field %s: optional fields must be pointers", sf.Name)
				}
				f.mode = fieldOptionalPositional
				sawOptionalPositional = true
			} else {
				if sawOptionalPositional {
					return nil, defErr("required positional arguments must precede the optional positional")
				}
				f.mode = fieldPositional
			}
		}

		if f.hasDflt {
			dv, err := parseDefault(sf.Type, dfltLit)
			if err != nil {
				return nil, defErr("field %s: %v", sf.Name, err)
			}
			f.dflt = dv
		}

		layout.fields = append(layout.fields, f)
	}

	return layout, nil
}

func parseDefault(t reflect.Type, lit string) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(lit)
		if err != nil {
			return v, fmt.Errorf("invalid bool default %q", lit)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(lit, 10, 64)
		if err != nil || v.OverflowInt(i) {
			return v, fmt.Errorf("invalid integer default %q", lit)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(lit, 10, 64)
		if err != nil || v.OverflowUint(u) {
			return v, fmt.Errorf("invalid unsigned integer default %q", lit)
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return v, fmt.Errorf("invalid float default %q", lit)
		}
		v.SetFloat(f)
	case reflect.String:
		v.SetString(lit)
	default:
		return v, fmt.Errorf("default values are not supported for %s fields", t)
	}
	return v, nil
}

func (l *recordLayout) encode(v reflect.Value) (Expr, error) {
	var args []Expr
	kwargs := map[string]Expr{}

	for _, f := range l.fields {
		fv := v.Field(f.index)
		switch f.mode {
		case fieldPositional:
			e, err := encodeReflect(fv)
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		case fieldOptionalPositional:
			if fv.IsNil() {
				continue
			}
			e, err := encodeReflect(fv.Elem())
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		case fieldVarArg:
			for i := 0; i < fv.Len(); i++ {
				e, err := encodeReflect(fv.Index(i))
				if err != nil {
					return nil, err
				}
				args = append(args, e)
			}
		case fieldKeyword:
			switch {
			case f.optional:
				if fv.IsNil() {
					continue
				}
				e, err := encodeReflect(fv.Elem())
				if err != nil {
					return nil, err
				}
				kwargs[f.keyword] = e
			case f.hasDflt:
				if fv.Equal(f.dflt) {
					continue
				}
				e, err := encodeReflect(fv)
				if err != nil {
					return nil, err
				}
				kwargs[f.keyword] = e
			default:
				e, err := encodeReflect(fv)
				if err != nil {
					return nil, err
				}
				kwargs[f.keyword] = e
			}
		case fieldDict:
			iter := fv.MapRange()
			for iter.Next() {
				e, err := encodeReflect(iter.Value())
				if err != nil {
					return nil, err
				}
				kwargs[iter.Key().String()] = e
			}
		}
	}

	return &Constructor{Name: l.name, Args: args, KwArgs: kwargs}, nil
}

func (l *recordLayout) decode(expr Expr, v reflect.Value) error {
	ctor, ok := expr.(*Constructor)
	if !ok || ctor.Name != l.name {
		return errUnexpected(NewTagSet(ConstructorTag(l.name)), expr.Tag())
	}

	args := append([]Expr(nil), ctor.Args...)
	kwargs := make(map[string]Expr, len(ctor.KwArgs))
	for k, kv := range ctor.KwArgs {
		kwargs[k] = kv
	}
	nextIndex := 0

	for _, f := range l.fields {
		fv := v.Field(f.index)
		switch f.mode {
		case fieldPositional:
			if len(args) == 0 {
				return atConstructor(&MissingPositionalError{}, l.name)
			}
			arg := args[0]
			args = args[1:]
			if err := decodeReflect(arg, fv); err != nil {
				return inPositional(err, l.name, nextIndex)
			}
			nextIndex++
		case fieldOptionalPositional:
			if len(args) == 0 {
				continue
			}
			arg := args[0]
			args = args[1:]
			elem := reflect.New(f.typ.Elem())
			if err := decodeReflect(arg, elem.Elem()); err != nil {
				return inPositional(err, l.name, nextIndex)
			}
			fv.Set(elem)
			nextIndex++
		case fieldVarArg:
			out := reflect.MakeSlice(f.typ, len(args), len(args))
			for i, arg := range args {
				if err := decodeReflect(arg, out.Index(i)); err != nil {
					return inPositional(err, l.name, nextIndex+i)
				}
			}
			fv.Set(out)
			nextIndex += len(args)
			args = nil
		case fieldKeyword:
			kv, present := kwargs[f.keyword]
			if !present {
				switch {
				case f.optional:
					continue
				case f.hasDflt:
					fv.Set(f.dflt)
					continue
				default:
					return atConstructor(&MissingKeywordError{Name: f.keyword}, l.name)
				}
			}
			delete(kwargs, f.keyword)
			if f.optional {
				elem := reflect.New(f.typ.Elem())
				if err := decodeReflect(kv, elem.Elem()); err != nil {
					return inKeyword(err, l.name, f.keyword)
				}
				fv.Set(elem)
				continue
			}
			if err := decodeReflect(kv, fv); err != nil {
				return inKeyword(err, l.name, f.keyword)
			}
		case fieldDict:
			out := reflect.MakeMapWithSize(f.typ, len(kwargs))
			for k, kv := range kwargs {
				elem := reflect.New(f.typ.Elem()).Elem()
				if err := decodeReflect(kv, elem); err != nil {
					return inKeyword(err, l.name, k)
				}
				out.SetMapIndex(reflect.ValueOf(k).Convert(f.typ.Key()), elem)
			}
			fv.Set(out)
			kwargs = map[string]Expr{}
		}
	}

	if len(args) != 0 {
		return atConstructor(&OutOfRangeError{Message: "unexpected extra positional arguments"}, l.name)
	}
	for k := range kwargs {
		return atConstructor(&OutOfRangeError{Message: "unexpected keyword argument: " + k}, l.name)
	}
	return nil
}

type recordCodec[T any] struct {
	layout *recordLayout
}

func (c recordCodec[T]) Tags() TagSet {
	return NewTagSet(ConstructorTag(c.layout.name))
}

func (c recordCodec[T]) Encode(value T) Expr {
	expr, err := c.layout.encode(reflect.ValueOf(value))
	if err != nil {
		panic(err)
	}
	return expr
}

func (c recordCodec[T]) Decode(expr Expr) (T, error) {
	var out T
	err := c.layout.decode(expr, reflect.ValueOf(&out).Elem())
	return out, err
}

// NewRecordCodec builds a codec for a struct type from its esexpr
// field tags. The constructor name is the reformatted type name unless
// the type implements ConstructorNamer. Tag misuse is reported as a
// *DefinitionError.
func NewRecordCodec[T any]() (Codec[T], error) {
	layout, err := layoutFor(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return recordCodec[T]{layout: layout}, nil
}

// RecordCodec is NewRecordCodec for types known to be well formed; it
// panics on a definition error.
func RecordCodec[T any]() Codec[T] {
	codec, err := NewRecordCodec[T]()
	if err != nil {
		panic(err)
	}
	return codec
}
