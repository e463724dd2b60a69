package binfmt

import (
	"errors"
	"fmt"
)

// Parse errors. Typed values carry detail; sentinels support errors.Is.
var (
	// ErrInvalidStringTableIndex reports a pool reference past the end
	// of the string pool, or an index too large to address.
	ErrInvalidStringTableIndex = errors.New("binfmt: invalid string table index")

	// ErrInvalidLength reports a varint length exceeding the platform's
	// addressable range.
	ErrInvalidLength = errors.New("binfmt: invalid length")

	// ErrUnexpectedKeywordToken reports a keyword-argument token outside
	// a constructor.
	ErrUnexpectedKeywordToken = errors.New("binfmt: unexpected keyword token")

	// ErrUnexpectedConstructorEnd reports a constructor-end token
	// outside a constructor.
	ErrUnexpectedConstructorEnd = errors.New("binfmt: unexpected constructor end")

	// ErrUnexpectedEndOfFile reports a stream that ends in the middle of
	// an expression.
	ErrUnexpectedEndOfFile = errors.New("binfmt: unexpected end of file")

	// ErrStringNotInStringPool reports a generator asked to emit a name
	// its string pool does not contain.
	ErrStringNotInStringPool = errors.New("binfmt: string not in string pool")
)

// InvalidTokenByteError reports a leading byte that is not a known
// token.
type InvalidTokenByteError struct {
	Byte byte
}

func (e *InvalidTokenByteError) Error() string {
	return fmt.Sprintf("binfmt: invalid token byte 0x%02X", e.Byte)
}

// InvalidStringPoolError reports a leading string-table expression that
// did not decode as a string pool.
type InvalidStringPoolError struct {
	Err error
}

func (e *InvalidStringPoolError) Error() string {
	return fmt.Sprintf("binfmt: invalid string pool: %v", e.Err)
}

func (e *InvalidStringPoolError) Unwrap() error { return e.Err }

// InvalidUTF8Error reports inline string bytes that are not valid
// UTF-8.
type InvalidUTF8Error struct{}

func (e *InvalidUTF8Error) Error() string {
	return "binfmt: inline string is not valid UTF-8"
}
