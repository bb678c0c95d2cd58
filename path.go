package docmap

import (
	"strconv"
	"strings"
)

// ErrorPath is an immutable breadcrumb of property names and list indexes.
// The nil *ErrorPath is the root. Extending a path never mutates it, so
// siblings can share a parent.
type ErrorPath struct {
	parent *ErrorPath
	name   string
	index  int
	isIdx  bool
	length int
}

// Child extends p by a property or map key.
func (p *ErrorPath) Child(name string) *ErrorPath {
	return &ErrorPath{parent: p, name: name, length: p.Len() + 1}
}

// Index extends p by a list position.
func (p *ErrorPath) Index(i int) *ErrorPath {
	return &ErrorPath{parent: p, index: i, isIdx: true, length: p.Len() + 1}
}

// Len is the number of segments, which is also the nesting depth.
func (p *ErrorPath) Len() int {
	if p == nil {
		return 0
	}
	return p.length
}

// String renders the breadcrumb, e.g. "values[2].nested.field".
func (p *ErrorPath) String() string {
	if p == nil {
		return ""
	}
	segs := make([]*ErrorPath, 0, p.length)
	for n := p; n != nil; n = n.parent {
		segs = append(segs, n)
	}
	b := &strings.Builder{}
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if s.isIdx {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.name)
	}
	return b.String()
}
