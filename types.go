package docmap

import (
	"go.opentelemetry.io/otel/metric"
)

// UnknownPolicy controls how document keys without a matching property are
// handled during deserialize.
type UnknownPolicy int

const (
	UnknownWarn   UnknownPolicy = iota // Report to the DiagnosticSink and skip the key.
	UnknownThrow                       // Fail the whole call.
	UnknownIgnore                      // Skip silently.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownThrow:
		return "throw"
	case UnknownIgnore:
		return "ignore"
	default:
		return "warn"
	}
}

// Severity expresses the severity level for issues.
type Severity int

const (
	SeverityIgnore Severity = iota
	SeverityWarn
	SeverityError
)

// DefaultMaxDepth is the nesting ceiling applied when Options.MaxDepth is 0.
const DefaultMaxDepth = 500

// Options configures an Engine. The zero value is ready to use.
type Options struct {
	// MaxDepth bounds recursion on both serialize and deserialize. Every
	// property, map entry and list element counts as one level. Zero means
	// DefaultMaxDepth; a negative value disables the ceiling.
	MaxDepth int
	// Sink receives unknown-property warnings. Defaults to ZapSink(nil),
	// which logs through zap's global logger, or to stderr until one is
	// installed.
	Sink DiagnosticSink
	// Registry shares built mappers between engines. When nil, the engine
	// uses DefaultRegistry, or a private registry if MeterProvider is set.
	Registry *Registry
	// MeterProvider instruments the private registry. Ignored when Registry
	// is set. Defaults to a no-op provider.
	MeterProvider metric.MeterProvider
}
