package binfmt

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"unicode/utf8"

	"fortio.org/safecast"
)

// A token begins with one leading byte. When the upper three bits are
// all set the byte is a fixed token; otherwise they select a varint
// token kind and the rest of the byte heads the varint.
const (
	tagVarintMask byte = 0xE0

	tagVarintConstructorStart byte = 0x00
	tagVarintNonNegInt        byte = 0x20
	tagVarintNegInt           byte = 0x40
	tagVarintStringLength     byte = 0x60
	tagVarintStringPool       byte = 0x80
	tagVarintBytesLength      byte = 0xA0
	tagVarintKeyword          byte = 0xC0

	tagConstructorEnd         byte = 0xE0
	tagTrue                   byte = 0xE1
	tagFalse                  byte = 0xE2
	tagNull                   byte = 0xE3
	tagFloat32                byte = 0xE4
	tagFloat64                byte = 0xE5
	tagConstructorStartString byte = 0xE6 // string-table
	tagConstructorStartList   byte = 0xE7 // list
	tagNullLevel              byte = 0xE8 // null with level varint
)

type tokenKind uint8

const (
	tokConstructorStart tokenKind = iota // pool index
	tokConstructorStartKnown             // reserved name
	tokConstructorEnd
	tokKeyword // pool index
	tokInt
	tokString
	tokStringPool // pool index
	tokBinary
	tokFloat32
	tokFloat64
	tokBool
	tokNull // level
)

type token struct {
	kind      tokenKind
	index     int
	name      string
	intValue  *big.Int
	strValue  string
	binValue  []byte
	f32Value  float32
	f64Value  float64
	boolValue bool
	nullLevel uint32
}

// tokenReader yields one token per call from the underlying stream.
type tokenReader struct {
	r *bufio.Reader
}

func newTokenReader(r io.Reader) *tokenReader {
	return &tokenReader{r: bufio.NewReader(r)}
}

// next reads one token. A clean end of stream between tokens returns
// io.EOF; truncation inside a token returns ErrUnexpectedEndOfFile.
func (tr *tokenReader) next() (*token, error) {
	b, err := tr.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}

	if b&tagVarintMask == tagVarintMask {
		return tr.fixedToken(b)
	}

	n, err := readVarint(tr.r, b)
	if err != nil {
		return nil, err
	}

	switch b & tagVarintMask {
	case tagVarintConstructorStart:
		index, err := poolIndex(n)
		if err != nil {
			return nil, err
		}
		return &token{kind: tokConstructorStart, index: index}, nil
	case tagVarintNonNegInt:
		return &token{kind: tokInt, intValue: n}, nil
	case tagVarintNegInt:
		n.Add(n, bigOne)
		return &token{kind: tokInt, intValue: n.Neg(n)}, nil
	case tagVarintStringLength:
		buf, err := tr.lengthPrefixed(n)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(buf) {
			return nil, &InvalidUTF8Error{}
		}
		return &token{kind: tokString, strValue: string(buf)}, nil
	case tagVarintStringPool:
		index, err := poolIndex(n)
		if err != nil {
			return nil, err
		}
		return &token{kind: tokStringPool, index: index}, nil
	case tagVarintBytesLength:
		buf, err := tr.lengthPrefixed(n)
		if err != nil {
			return nil, err
		}
		return &token{kind: tokBinary, binValue: buf}, nil
	case tagVarintKeyword:
		index, err := poolIndex(n)
		if err != nil {
			return nil, err
		}
		return &token{kind: tokKeyword, index: index}, nil
	default:
		panic("unreachable")
	}
}

func (tr *tokenReader) fixedToken(b byte) (*token, error) {
	switch b {
	case tagConstructorEnd:
		return &token{kind: tokConstructorEnd}, nil
	case tagTrue:
		return &token{kind: tokBool, boolValue: true}, nil
	case tagFalse:
		return &token{kind: tokBool, boolValue: false}, nil
	case tagNull:
		return &token{kind: tokNull, nullLevel: 0}, nil
	case tagFloat32:
		var buf [4]byte
		if _, err := io.ReadFull(tr.r, buf[:]); err != nil {
			return nil, eofToUnexpected(err)
		}
		bits := binary.LittleEndian.Uint32(buf[:])
		return &token{kind: tokFloat32, f32Value: math.Float32frombits(bits)}, nil
	case tagFloat64:
		var buf [8]byte
		if _, err := io.ReadFull(tr.r, buf[:]); err != nil {
			return nil, eofToUnexpected(err)
		}
		bits := binary.LittleEndian.Uint64(buf[:])
		return &token{kind: tokFloat64, f64Value: math.Float64frombits(bits)}, nil
	case tagConstructorStartString:
		return &token{kind: tokConstructorStartKnown, name: stringTableName}, nil
	case tagConstructorStartList:
		return &token{kind: tokConstructorStartKnown, name: listName}, nil
	case tagNullLevel:
		head, err := tr.r.ReadByte()
		if err != nil {
			return nil, eofToUnexpected(err)
		}
		n, err := readVarint(tr.r, head)
		if err != nil {
			return nil, err
		}
		if !n.IsUint64() {
			return nil, ErrInvalidLength
		}
		level, err := safecast.Conv[uint32](n.Uint64())
		if err != nil {
			return nil, ErrInvalidLength
		}
		return &token{kind: tokNull, nullLevel: level}, nil
	default:
		return nil, &InvalidTokenByteError{Byte: b}
	}
}

func (tr *tokenReader) lengthPrefixed(n *big.Int) ([]byte, error) {
	if !n.IsUint64() {
		return nil, ErrInvalidLength
	}
	length, err := safecast.Conv[int](n.Uint64())
	if err != nil {
		return nil, ErrInvalidLength
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(tr.r, buf); err != nil {
		return nil, eofToUnexpected(err)
	}
	return buf, nil
}

func poolIndex(n *big.Int) (int, error) {
	if !n.IsUint64() {
		return 0, ErrInvalidStringTableIndex
	}
	index, err := safecast.Conv[int](n.Uint64())
	if err != nil {
		return 0, ErrInvalidStringTableIndex
	}
	return index, nil
}

var bigOne = big.NewInt(1)

const (
	stringTableName = "string-table"
	listName        = "list"
)
