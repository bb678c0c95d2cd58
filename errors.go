package docmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/docmap/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch       = "type_mismatch"
	CodeRangeOrPrecision   = "range_or_precision"
	CodeUnsupported        = "unsupported"
	CodeUnknownProperty    = "unknown_property"
	CodeDocumentIDConflict = "document_id_conflict"
	CodeRecursionLimit     = "recursion_limit"
	CodeMapperBuild        = "mapper_build"
	CodeInvalidTarget      = "invalid_target"
	CodeInternal           = "internal"
	// Document loading (source package)
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
)

// Issue describes one problem found while mapping.
type Issue struct {
	Path    string // Breadcrumb, for example: values[2].nested.field. Empty at the root.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	// Params carries structured parameters (e.g., {"expected":"integer","got":"string"})
	// for i18n and observability.
	Params map[string]any
}

// Error is the single error type returned by Engine operations. Mapping is
// all-or-nothing, so an Error always carries exactly one Issue.
type Error struct {
	Op    string // serialize, deserialize, build or parse
	Issue Issue
	Cause error
}

func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString("docmap: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(i18n.T(e.Issue.Code, nil))
	if e.Issue.Path != "" {
		fmt.Fprintf(b, " at %s", e.Issue.Path)
	}
	if e.Issue.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Issue.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches the code sentinels below, so callers can write
// errors.Is(err, docmap.ErrTypeMismatch).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Issue.Message != "" || t.Issue.Path != "" {
		return false
	}
	return t.Issue.Code == e.Issue.Code
}

var (
	ErrTypeMismatch       = &Error{Issue: Issue{Code: CodeTypeMismatch}}
	ErrRangeOrPrecision   = &Error{Issue: Issue{Code: CodeRangeOrPrecision}}
	ErrUnsupported        = &Error{Issue: Issue{Code: CodeUnsupported}}
	ErrUnknownProperty    = &Error{Issue: Issue{Code: CodeUnknownProperty}}
	ErrDocumentIDConflict = &Error{Issue: Issue{Code: CodeDocumentIDConflict}}
	ErrRecursionLimit     = &Error{Issue: Issue{Code: CodeRecursionLimit}}
	ErrMapperBuild        = &Error{Issue: Issue{Code: CodeMapperBuild}}
	ErrInvalidTarget      = &Error{Issue: Issue{Code: CodeInvalidTarget}}
	ErrInternal           = &Error{Issue: Issue{Code: CodeInternal}}
	ErrParse              = &Error{Issue: Issue{Code: CodeParseError}}
	ErrDuplicateKey       = &Error{Issue: Issue{Code: CodeDuplicateKey}}
)

// AsError extracts the structured error using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func newError(code string, p *ErrorPath, msg string) *Error {
	return &Error{Issue: Issue{Path: p.String(), Code: code, Message: msg}}
}

func errorf(code string, p *ErrorPath, format string, args ...any) *Error {
	return newError(code, p, fmt.Sprintf(format, args...))
}

func (e *Error) withHint(h string) *Error {
	e.Issue.Hint = h
	return e
}

func (e *Error) with(kv ...any) *Error {
	if e.Issue.Params == nil {
		e.Issue.Params = map[string]any{}
	}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Issue.Params[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return e
}

// stamp records the operation on errors surfacing from an entry point.
func stamp(op string, err error) error {
	if e, ok := AsError(err); ok && e.Op == "" {
		e.Op = op
	}
	return err
}
