package docmap

import (
	"context"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/reoring/docmap"

// Registry caches type descriptors and object mappers, and holds explicit
// registrations. It is safe for concurrent use; racing builds of the same type
// may both run, but only one result is published.
type Registry struct {
	mappers sync.Map // reflect.Type -> *ObjectMapper
	descs   sync.Map // reflect.Type -> *TypeDescriptor
	regs    sync.Map // reflect.Type -> *Registration

	builds      metric.Int64Counter
	buildErrors metric.Int64Counter
	cacheHits   metric.Int64Counter
}

// NewRegistry returns an empty registry instrumented through mp. A nil mp
// uses the global provider, which is a no-op until one is installed.
func NewRegistry(mp metric.MeterProvider) *Registry {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	r := &Registry{}
	r.builds, _ = meter.Int64Counter("docmap.mapper.builds",
		metric.WithUnit("{mapper}"),
		metric.WithDescription("Number of object mappers built"),
	)
	r.buildErrors, _ = meter.Int64Counter("docmap.mapper.build_errors",
		metric.WithUnit("{mapper}"),
		metric.WithDescription("Number of object mapper builds that failed"),
	)
	r.cacheHits, _ = meter.Int64Counter("docmap.mapper.cache_hits",
		metric.WithUnit("{lookup}"),
		metric.WithDescription("Number of mapper lookups served from the cache"),
	)
	return r
}

var defaultRegistry = NewRegistry(nil)

// DefaultRegistry is shared by engines created without Options.Registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Lookup returns the mapper for struct type t, building it on first use.
// Failed builds are not cached.
func (r *Registry) Lookup(t reflect.Type) (*ObjectMapper, error) {
	attrs := metric.WithAttributes(attribute.String("type", t.String()))
	if v, ok := r.mappers.Load(t); ok {
		m := v.(*ObjectMapper)
		if m.source == r.registration(t) {
			r.cacheHits.Add(context.Background(), 1, attrs)
			return m, nil
		}
		// built before a Register that raced with it
		r.mappers.CompareAndDelete(t, m)
	}
	m, err := r.buildMapper(t)
	if err != nil {
		r.buildErrors.Add(context.Background(), 1, attrs)
		return nil, err
	}
	r.builds.Add(context.Background(), 1, attrs)
	actual, loaded := r.mappers.LoadOrStore(t, m)
	if loaded {
		if cur := r.registration(t); actual.(*ObjectMapper).source != cur && m.source == cur {
			r.mappers.CompareAndSwap(t, actual, m)
			return m, nil
		}
	}
	return actual.(*ObjectMapper), nil
}

func (r *Registry) registration(t reflect.Type) *Registration {
	if v, ok := r.regs.Load(t); ok {
		return v.(*Registration)
	}
	return nil
}

// Forget drops the cached mapper of t. Descriptors are structural and stay.
func (r *Registry) Forget(t reflect.Type) {
	r.mappers.Delete(t)
}

// Len is the number of cached mappers.
func (r *Registry) Len() int {
	n := 0
	r.mappers.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
