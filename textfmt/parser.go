package textfmt

import (
	"io"

	"esexpr"
)

// Parser reads expressions from an input buffer, one per Next call.
type Parser struct {
	lx   *lexer
	look *token
}

// NewParser builds a streaming parser over src.
func NewParser(src []byte) *Parser {
	return &Parser{lx: newLexer(src)}
}

// Parse reads exactly one expression from src; anything but trivia
// after it is an error.
func Parse(src []byte) (esexpr.Expr, error) {
	p := NewParser(src)
	expr, err := p.Next()
	if err != nil {
		if err == io.EOF {
			return nil, &SyntaxError{Kind: UnexpectedToken, Span: Span{Start: len(src), End: len(src)}}
		}
		return nil, err
	}
	trailing, err := p.next()
	if err != nil {
		return nil, err
	}
	if trailing.kind != tokEOF {
		return nil, &SyntaxError{Kind: UnexpectedToken, Span: trailing.span}
	}
	return expr, nil
}

// ParseString is Parse over a string.
func ParseString(src string) (esexpr.Expr, error) {
	return Parse([]byte(src))
}

// Next yields the next expression, or io.EOF when the input holds no
// further expressions.
func (p *Parser) Next() (esexpr.Expr, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokEOF {
		return nil, io.EOF
	}
	return p.exprFrom(tok)
}

func (p *Parser) next() (*token, error) {
	if p.look != nil {
		tok := p.look
		p.look = nil
		return tok, nil
	}
	return p.lx.next()
}

func (p *Parser) exprFrom(tok *token) (esexpr.Expr, error) {
	switch tok.kind {
	case tokInt:
		return esexpr.IntFromBig(tok.intValue), nil
	case tokFloat32:
		return esexpr.Float32(tok.f32Value), nil
	case tokFloat64:
		return esexpr.Float64(tok.f64Value), nil
	case tokString:
		return esexpr.Str(tok.text), nil
	case tokBinary:
		return esexpr.Binary(tok.binValue), nil
	case tokBool:
		return esexpr.Bool(tok.boolValue), nil
	case tokNull:
		return esexpr.Null(tok.nullLevel), nil
	case tokLParen:
		return p.constructor()
	default:
		return nil, &SyntaxError{Kind: UnexpectedToken, Span: tok.span}
	}
}

func (p *Parser) constructor() (esexpr.Expr, error) {
	nameTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if nameTok.kind != tokIdent {
		return nil, &SyntaxError{Kind: UnexpectedToken, Span: nameTok.span}
	}

	ctor := &esexpr.Constructor{Name: nameTok.text, KwArgs: map[string]esexpr.Expr{}}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokRParen:
			return ctor, nil
		case tokEOF:
			return nil, &SyntaxError{Kind: UnexpectedToken, Span: tok.span}
		case tokIdent:
			// A bare identifier is only valid as a keyword name.
			colon, err := p.next()
			if err != nil {
				return nil, err
			}
			if colon.kind != tokColon {
				return nil, &SyntaxError{Kind: UnexpectedToken, Span: colon.span}
			}
			valueTok, err := p.next()
			if err != nil {
				return nil, err
			}
			if valueTok.kind == tokEOF {
				return nil, &SyntaxError{Kind: UnexpectedToken, Span: valueTok.span}
			}
			value, err := p.exprFrom(valueTok)
			if err != nil {
				return nil, err
			}
			ctor.KwArgs[tok.text] = value
		default:
			arg, err := p.exprFrom(tok)
			if err != nil {
				return nil, err
			}
			ctor.Args = append(ctor.Args, arg)
		}
	}
}
