package engine

import (
	"strconv"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling and
// max depth checks in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
// Path uses the breadcrumb form "items[2].name".
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	// IssueSink receives every issue, fatal or not. May be nil.
	IssueSink func(SimpleIssue)
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Message + " at " + e.Path
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind       containerKind
	keys       map[string]struct{}
	path       string
	nextIndex  int
	pendingKey string
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy and the maximum nesting depth.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) report(si SimpleIssue, fatal bool) error {
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	if fatal {
		return IssueError{si}
	}
	return nil
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.valuePath()
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, path: path, keys: map[string]struct{}{}}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			msg := "max depth of " + strconv.Itoa(e.opt.MaxDepth) + " exceeded"
			return Token{}, e.report(SimpleIssue{Code: "recursion_limit", Path: path, Message: msg}, true)
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject {
				if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
					si := SimpleIssue{Code: "duplicate_key", Path: joinKey(top.path, tok.String), Message: "key '" + tok.String + "' duplicated"}
					if err := e.report(si, e.opt.OnDuplicate == DupError); err != nil {
						return Token{}, err
					}
				}
				top.keys[tok.String] = struct{}{}
				top.pendingKey = tok.String
			}
		}
	default:
		e.valuePath()
		e.valueDone()
	}
	return tok, nil
}

// valuePath returns the path of the value about to start and advances the
// array index of the enclosing frame.
func (e *enforcingTokenSource) valuePath() string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		p := top.path + "[" + strconv.Itoa(top.nextIndex) + "]"
		top.nextIndex++
		return p
	}
	return joinKey(top.path, top.pendingKey)
}

// valueDone marks the pending key of the enclosing object as consumed.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject {
			top.pendingKey = ""
		}
	}
}

func joinKey(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
