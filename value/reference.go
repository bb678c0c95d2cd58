package value

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Reference points at a document by its slash-separated path relative to the
// database root, e.g. "rooms/eros/messages/m1".
type Reference struct {
	path string
}

// NewReference validates that path names a document: a non-empty, even
// number of non-empty segments.
func NewReference(path string) (Reference, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return Reference{}, fmt.Errorf("value: empty document path")
	}
	segs := strings.Split(path, "/")
	for _, s := range segs {
		if s == "" {
			return Reference{}, fmt.Errorf("value: document path %q has an empty segment", path)
		}
	}
	if len(segs)%2 != 0 {
		return Reference{}, fmt.Errorf("value: %q is a collection path, not a document path", path)
	}
	return Reference{path: path}, nil
}

// MustReference is NewReference for literals; it panics on invalid paths.
func MustReference(path string) Reference {
	r, err := NewReference(path)
	if err != nil {
		panic(err)
	}
	return r
}

// NewDocumentIn returns a reference to a fresh document in collection with an
// auto-generated id.
func NewDocumentIn(collection string) (Reference, error) {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return NewReference(strings.Trim(collection, "/") + "/" + id)
}

func (r Reference) Path() string   { return r.path }
func (r Reference) IsZero() bool   { return r.path == "" }
func (r Reference) String() string { return r.path }

// ID is the last path segment.
func (r Reference) ID() string {
	if i := strings.LastIndexByte(r.path, '/'); i >= 0 {
		return r.path[i+1:]
	}
	return r.path
}

// Parent is the path of the collection holding the document.
func (r Reference) Parent() string {
	if i := strings.LastIndexByte(r.path, '/'); i >= 0 {
		return r.path[:i]
	}
	return ""
}
