// Package jsonfmt embeds ESExpr values in JSON. The embedding is
// untagged: the shape of the JSON value selects the expression
// variant, with object keys (int, base64, float32, float64, null,
// constructor_name) discriminating the kinds JSON cannot express
// directly.
package jsonfmt

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	"esexpr"
)

// ShapeError reports a JSON value whose shape does not select any
// expression variant.
type ShapeError struct {
	Message string
}

func (e *ShapeError) Error() string { return "jsonfmt: " + e.Message }

// Encode returns the JSON document for one expression.
func Encode(expr esexpr.Expr) ([]byte, error) {
	var b bytes.Buffer
	if err := EncodeTo(&b, expr); err != nil {
		return nil, err
	}
	// Drop the newline json.Encoder appends.
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

// EncodeTo writes the JSON document for one expression.
func EncodeTo(w io.Writer, expr esexpr.Expr) error {
	enc := json.NewEncoder(w)
	value, err := jsonValue(expr)
	if err != nil {
		return err
	}
	return enc.Encode(value)
}

func jsonValue(expr esexpr.Expr) (any, error) {
	switch e := expr.(type) {
	case *esexpr.Constructor:
		// Lists keep their array shorthand; everything else takes the
		// explicit constructor shape.
		if e.Name == "list" && len(e.KwArgs) == 0 {
			args := make([]any, len(e.Args))
			for i, arg := range e.Args {
				v, err := jsonValue(arg)
				if err != nil {
					return nil, err
				}
				args[i] = v
			}
			return args, nil
		}
		args := make([]any, len(e.Args))
		for i, arg := range e.Args {
			v, err := jsonValue(arg)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		kwargs := make(map[string]any, len(e.KwArgs))
		for k, kv := range e.KwArgs {
			v, err := jsonValue(kv)
			if err != nil {
				return nil, err
			}
			kwargs[k] = v
		}
		return map[string]any{
			"constructor_name": e.Name,
			"args":             args,
			"kwargs":           kwargs,
		}, nil
	case esexpr.Bool:
		return bool(e), nil
	case esexpr.Int:
		return map[string]any{"int": e.Value.String()}, nil
	case esexpr.Str:
		return string(e), nil
	case esexpr.Binary:
		return map[string]any{"base64": base64.StdEncoding.EncodeToString(e)}, nil
	case esexpr.Float32:
		return map[string]any{"float32": floatValue(float64(e), 32)}, nil
	case esexpr.Float64:
		return map[string]any{"float64": floatValue(float64(e), 64)}, nil
	case esexpr.Null:
		if e == 0 {
			return nil, nil
		}
		return map[string]any{"null": strconv.FormatUint(uint64(e), 10)}, nil
	default:
		return nil, fmt.Errorf("jsonfmt: unsupported expression %T", expr)
	}
}

func floatValue(value float64, bits int) any {
	switch {
	case math.IsNaN(value):
		return "nan"
	case math.IsInf(value, 1):
		return "+inf"
	case math.IsInf(value, -1):
		return "-inf"
	}
	if bits == 32 {
		return float32(value)
	}
	return value
}

// Decode parses one expression from a JSON document.
func Decode(data []byte) (esexpr.Expr, error) {
	return DecodeFrom(bytes.NewReader(data))
}

// DecodeFrom parses one expression from a JSON stream.
func DecodeFrom(r io.Reader) (esexpr.Expr, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return exprFrom(raw)
}

func exprFrom(raw any) (esexpr.Expr, error) {
	switch v := raw.(type) {
	case nil:
		return esexpr.Null(0), nil
	case bool:
		return esexpr.Bool(v), nil
	case string:
		return esexpr.Str(v), nil
	case json.Number:
		// The model has no bare number form; only integers are
		// unambiguous, and floats must use the keyed object shape.
		i, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, &ShapeError{Message: "bare numbers must be integers, floats need the float32/float64 form"}
		}
		return esexpr.IntFromBig(i), nil
	case []any:
		ctor := &esexpr.Constructor{Name: "list", KwArgs: map[string]esexpr.Expr{}}
		for _, item := range v {
			arg, err := exprFrom(item)
			if err != nil {
				return nil, err
			}
			ctor.Args = append(ctor.Args, arg)
		}
		return ctor, nil
	case map[string]any:
		return exprFromObject(v)
	default:
		return nil, &ShapeError{Message: fmt.Sprintf("unsupported JSON value %T", raw)}
	}
}

func exprFromObject(obj map[string]any) (esexpr.Expr, error) {
	if name, ok := obj["constructor_name"]; ok {
		return constructorFrom(name, obj)
	}

	if raw, ok := obj["int"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, &ShapeError{Message: "int value must be a decimal string"}
		}
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, &ShapeError{Message: "invalid int value: " + s}
		}
		return esexpr.IntFromBig(i), nil
	}

	if raw, ok := obj["base64"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, &ShapeError{Message: "base64 value must be a string"}
		}
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, &ShapeError{Message: "invalid base64 value: " + s}
		}
		return esexpr.Binary(data), nil
	}

	if raw, ok := obj["float32"]; ok {
		f, err := floatFrom(raw, 32)
		if err != nil {
			return nil, err
		}
		return esexpr.Float32(float32(f)), nil
	}

	if raw, ok := obj["float64"]; ok {
		f, err := floatFrom(raw, 64)
		if err != nil {
			return nil, err
		}
		return esexpr.Float64(f), nil
	}

	if raw, ok := obj["null"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, &ShapeError{Message: "null level must be a decimal string"}
		}
		level, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, &ShapeError{Message: "invalid null level: " + s}
		}
		return esexpr.Null(level), nil
	}

	return nil, &ShapeError{Message: "object selects no expression variant"}
}

func constructorFrom(name any, obj map[string]any) (esexpr.Expr, error) {
	nameStr, ok := name.(string)
	if !ok {
		return nil, &ShapeError{Message: "constructor_name must be a string"}
	}
	ctor := &esexpr.Constructor{Name: nameStr, KwArgs: map[string]esexpr.Expr{}}

	if rawArgs, ok := obj["args"]; ok && rawArgs != nil {
		args, ok := rawArgs.([]any)
		if !ok {
			return nil, &ShapeError{Message: "args must be an array"}
		}
		for _, item := range args {
			arg, err := exprFrom(item)
			if err != nil {
				return nil, err
			}
			ctor.Args = append(ctor.Args, arg)
		}
	}

	if rawKwargs, ok := obj["kwargs"]; ok && rawKwargs != nil {
		kwargs, ok := rawKwargs.(map[string]any)
		if !ok {
			return nil, &ShapeError{Message: "kwargs must be an object"}
		}
		for k, item := range kwargs {
			value, err := exprFrom(item)
			if err != nil {
				return nil, err
			}
			ctor.KwArgs[k] = value
		}
	}

	return ctor, nil
}

func floatFrom(raw any, bits int) (float64, error) {
	switch v := raw.(type) {
	case string:
		switch v {
		case "nan":
			return math.NaN(), nil
		case "+inf":
			return math.Inf(1), nil
		case "-inf":
			return math.Inf(-1), nil
		}
		return 0, &ShapeError{Message: "invalid float string: " + v}
	case json.Number:
		f, err := strconv.ParseFloat(v.String(), bits)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
				return 0, &ShapeError{Message: "invalid float value: " + v.String()}
			}
		}
		return f, nil
	default:
		return 0, &ShapeError{Message: fmt.Sprintf("float value must be a number or sentinel string, got %T", raw)}
	}
}
