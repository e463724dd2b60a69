// Package convert moves single expressions between the three surface
// representations. It is the shared core of the converter tools.
package convert

import (
	"fmt"
	"io"

	"esexpr"
	"esexpr/binfmt"
	"esexpr/jsonfmt"
	"esexpr/textfmt"
)

// Format identifies a surface representation.
type Format uint8

const (
	Text Format = iota
	Binary
	JSON
)

func (f Format) String() string {
	switch f {
	case Text:
		return "esx"
	case Binary:
		return "esxb"
	case JSON:
		return "json"
	default:
		return "invalid"
	}
}

// Read parses exactly one expression in the given format from r.
func Read(format Format, r io.Reader) (esexpr.Expr, error) {
	switch format {
	case Text:
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return textfmt.Parse(src)
	case Binary:
		return binfmt.Decode(r)
	case JSON:
		return jsonfmt.DecodeFrom(r)
	default:
		return nil, fmt.Errorf("convert: unknown format %d", format)
	}
}

// Write emits one expression in the given format. Binary output is one
// string pool followed by one expression; text and JSON end with a
// newline.
func Write(format Format, w io.Writer, expr esexpr.Expr) error {
	switch format {
	case Text:
		if err := textfmt.Generate(w, expr); err != nil {
			return err
		}
		_, err := w.Write([]byte{'\n'})
		return err
	case Binary:
		return binfmt.Encode(w, expr)
	case JSON:
		return jsonfmt.EncodeTo(w, expr)
	default:
		return fmt.Errorf("convert: unknown format %d", format)
	}
}

// Convert reads one expression in the input format and writes it in
// the output format.
func Convert(in, out Format, r io.Reader, w io.Writer) error {
	expr, err := Read(in, r)
	if err != nil {
		return fmt.Errorf("reading %s input: %w", in, err)
	}
	if err := Write(out, w, expr); err != nil {
		return fmt.Errorf("writing %s output: %w", out, err)
	}
	return nil
}
