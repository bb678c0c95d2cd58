package source

import (
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/docmap/internal/engine"
)

// ---- engine.TokenSource implementation using go-json Decoder ----

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type jsonSource struct {
	dec   *j.Decoder
	stack []frame
}

func newJSONReader(r io.Reader) *jsonSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec}
}

// scalarDone flips the enclosing object back to expecting a key once a
// member value has been fully read.
func (s *jsonSource) scalarDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return eng.Token{Kind: eng.KindBeginObject}, nil
		case '}':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.scalarDone()
			return eng.Token{Kind: eng.KindEndObject}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return eng.Token{Kind: eng.KindBeginArray}, nil
		case ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.scalarDone()
			return eng.Token{Kind: eng.KindEndArray}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return eng.Token{Kind: eng.KindKey, String: v}, nil
			}
		}
		s.scalarDone()
		return eng.Token{Kind: eng.KindString, String: v}, nil
	case bool:
		s.scalarDone()
		return eng.Token{Kind: eng.KindBool, Bool: v}, nil
	case j.Number:
		s.scalarDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v)}, nil
	case float64:
		s.scalarDone()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	}
	s.scalarDone()
	return eng.Token{Kind: eng.KindNull}, nil
}
