package value

import (
	"errors"
	"strconv"
)

// SkipChildren may be returned by a WalkFunc to skip the children of the
// current array or map.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node. path uses the breadcrumb form
// "items[2].name"; the root has an empty path.
type WalkFunc func(path string, v Value) error

// Walk visits v and its descendants depth-first in document order.
func Walk(v Value, fn WalkFunc) error {
	return walk("", v, fn)
}

func walk(path string, v Value, fn WalkFunc) error {
	if err := fn(path, v); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	switch v.kind {
	case KindArray:
		items, _ := v.AsArray()
		for i, it := range items {
			if err := walk(path+"["+strconv.Itoa(i)+"]", it, fn); err != nil {
				return err
			}
		}
	case KindMap:
		m, _ := v.AsMap()
		for k, it := range m.All() {
			p := k
			if path != "" {
				p = path + "." + k
			}
			if err := walk(p, it, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
