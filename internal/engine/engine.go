package engine

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/reoring/docmap/value"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token. Number keeps the literal text so the
// decoder can tell integers from doubles.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
}

// DecodeValue builds a document from the streaming token source. Object keys
// keep their input order. Number literals without a fraction or exponent that
// fit in 64 bits become integers; every other number is a double.
func DecodeValue(src TokenSource) (value.Value, error) {
	tok, err := src.NextToken()
	if err != nil {
		return value.Value{}, err
	}
	return decodeValue(src, tok)
}

func decodeValue(src TokenSource, tok Token) (value.Value, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src)
	case KindBeginArray:
		return decodeArray(src)
	case KindString:
		return value.String(tok.String), nil
	case KindNumber:
		return NumberValue(tok.Number)
	case KindBool:
		return value.Bool(tok.Bool), nil
	case KindNull:
		return value.Null(), nil
	default:
		return value.Value{}, io.ErrUnexpectedEOF
	}
}

func decodeObject(src TokenSource) (value.Value, error) {
	m := value.NewMap()
	for {
		tok, err := src.NextToken()
		if err != nil {
			return value.Value{}, err
		}
		if tok.Kind == KindEndObject {
			return value.MapOf(m), nil
		}
		if tok.Kind != KindKey {
			return value.Value{}, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return value.Value{}, err
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return value.Value{}, err
		}
		m.Set(tok.String, v)
	}
}

func decodeArray(src TokenSource) (value.Value, error) {
	var arr []value.Value
	for {
		tok, err := src.NextToken()
		if err != nil {
			return value.Value{}, err
		}
		if tok.Kind == KindEndArray {
			return value.Array(arr...), nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return value.Value{}, err
		}
		arr = append(arr, v)
	}
}

// NumberValue classifies a number literal.
func NumberValue(lit string) (value.Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return value.Integer(i), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid number %q: %w", lit, err)
	}
	return value.Double(f), nil
}
