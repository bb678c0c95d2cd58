// Package source loads documents from JSON and YAML text into value.Value
// trees the Engine can deserialize.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/reoring/docmap"
	eng "github.com/reoring/docmap/internal/engine"
	"github.com/reoring/docmap/value"
)

// Options bundles loading options.
type Options struct {
	// MaxDepth bounds object/array nesting. 0 means docmap.DefaultMaxDepth,
	// a negative value disables the check.
	MaxDepth int
	// OnDuplicateKey decides what happens when an object repeats a key. The
	// last occurrence wins unless the severity is SeverityError.
	OnDuplicateKey docmap.Severity
	// Sink receives duplicate-key warnings. Defaults to docmap.ZapSink(nil).
	Sink docmap.DiagnosticSink
}

func pickOptions(opts []Options) Options {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = docmap.DefaultMaxDepth
	}
	if o.Sink == nil {
		o.Sink = docmap.ZapSink(nil)
	}
	return o
}

func (o Options) enforce() eng.EnforceOptions {
	depth := o.MaxDepth
	if depth < 0 {
		depth = 0
	}
	dup := eng.DupIgnore
	switch o.OnDuplicateKey {
	case docmap.SeverityWarn:
		dup = eng.DupWarn
	case docmap.SeverityError:
		dup = eng.DupError
	}
	return eng.EnforceOptions{
		OnDuplicate: dup,
		MaxDepth:    depth,
		IssueSink: func(si eng.SimpleIssue) {
			// fatal issues surface as errors instead
			if si.Code == docmap.CodeDuplicateKey && dup == eng.DupWarn {
				o.Sink.Warn(docmap.Issue{Path: si.Path, Code: si.Code, Message: si.Message})
			}
		},
	}
}

// ParseJSON decodes a single JSON document.
func ParseJSON(data []byte, opts ...Options) (value.Value, error) {
	return ParseJSONReader(bytes.NewReader(data), opts...)
}

// ParseJSONReader decodes a single JSON document from r. Trailing data after
// the document is an error.
func ParseJSONReader(r io.Reader, opts ...Options) (value.Value, error) {
	o := pickOptions(opts)
	src := eng.WrapWithEnforcement(newJSONReader(r), o.enforce())
	v, err := eng.DecodeValue(src)
	if err != nil {
		return value.Value{}, parseError(err)
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return value.Value{}, parseError(err)
	}
	return v, nil
}

func parseError(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &docmap.Error{Op: "parse", Issue: docmap.Issue{Path: ie.Path, Code: ie.Code, Message: ie.Message}}
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &docmap.Error{Op: "parse", Issue: docmap.Issue{Code: docmap.CodeParseError, Message: err.Error()}, Cause: err}
}

func issueError(code, path, format string, args ...any) error {
	return &docmap.Error{Op: "parse", Issue: docmap.Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)}}
}
