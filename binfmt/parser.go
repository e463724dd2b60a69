package binfmt

import (
	"io"

	"esexpr"
)

// Parser reads a token stream and yields expressions. It is a
// single-pass pushdown: a constructor-start token opens a frame that
// collects positional and keyword arguments until the matching end
// token.
type Parser struct {
	tr   *tokenReader
	pool *FixedStringPool
}

// NewParser reads expressions from r, resolving pool references
// against the caller-supplied pool. Use it for streams known to carry
// no embedded pool.
func NewParser(r io.Reader, pool *FixedStringPool) *Parser {
	return &Parser{tr: newTokenReader(r), pool: pool}
}

// NewEmbeddedParser reads the stream's leading string-table expression
// and uses it as the pool for everything that follows.
func NewEmbeddedParser(r io.Reader) (*Parser, error) {
	p := &Parser{tr: newTokenReader(r), pool: &FixedStringPool{}}

	poolExpr, err := p.Next()
	if err != nil {
		if err == io.EOF {
			return nil, ErrUnexpectedEndOfFile
		}
		return nil, err
	}
	pool, err := fixedStringPoolCodec.Decode(poolExpr)
	if err != nil {
		return nil, &InvalidStringPoolError{Err: err}
	}
	p.pool = &pool
	return p, nil
}

// Next yields the next expression, or io.EOF when the stream is
// cleanly exhausted. After an error the parser is not resynchronized.
func (p *Parser) Next() (esexpr.Expr, error) {
	tok, err := p.tr.next()
	if err != nil {
		return nil, err
	}
	return p.exprFrom(tok)
}

func (p *Parser) exprFrom(tok *token) (esexpr.Expr, error) {
	switch tok.kind {
	case tokConstructorStart:
		name, err := p.pool.Get(tok.index)
		if err != nil {
			return nil, err
		}
		return p.constructor(name)
	case tokConstructorStartKnown:
		return p.constructor(tok.name)
	case tokConstructorEnd:
		return nil, ErrUnexpectedConstructorEnd
	case tokKeyword:
		return nil, ErrUnexpectedKeywordToken
	case tokInt:
		return esexpr.IntFromBig(tok.intValue), nil
	case tokString:
		return esexpr.Str(tok.strValue), nil
	case tokStringPool:
		s, err := p.pool.Get(tok.index)
		if err != nil {
			return nil, err
		}
		return esexpr.Str(s), nil
	case tokBinary:
		return esexpr.Binary(tok.binValue), nil
	case tokFloat32:
		return esexpr.Float32(tok.f32Value), nil
	case tokFloat64:
		return esexpr.Float64(tok.f64Value), nil
	case tokBool:
		return esexpr.Bool(tok.boolValue), nil
	case tokNull:
		return esexpr.Null(tok.nullLevel), nil
	default:
		panic("unreachable")
	}
}

func (p *Parser) constructor(name string) (esexpr.Expr, error) {
	ctor := &esexpr.Constructor{Name: name, KwArgs: map[string]esexpr.Expr{}}

	for {
		tok, err := p.tr.next()
		if err != nil {
			return nil, eofToUnexpected(err)
		}

		switch tok.kind {
		case tokConstructorEnd:
			return ctor, nil
		case tokKeyword:
			key, err := p.pool.Get(tok.index)
			if err != nil {
				return nil, err
			}
			value, err := p.Next()
			if err != nil {
				return nil, eofToUnexpected(err)
			}
			ctor.KwArgs[key] = value
		default:
			arg, err := p.exprFrom(tok)
			if err != nil {
				return nil, err
			}
			ctor.Args = append(ctor.Args, arg)
		}
	}
}

// Decode reads a single-expression stream: the embedded pool and the
// first expression after it. Anything after that expression is not
// examined.
func Decode(r io.Reader) (esexpr.Expr, error) {
	p, err := NewEmbeddedParser(r)
	if err != nil {
		return nil, err
	}
	expr, err := p.Next()
	if err != nil {
		if err == io.EOF {
			return nil, ErrUnexpectedEndOfFile
		}
		return nil, err
	}
	return expr, nil
}
