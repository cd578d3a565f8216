package middleware

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tiller-ui/tiller/pkg/router"
)

// Default tracer name for tiller applications.
const defaultTracerName = "tiller"

// OTelConfig configures the OpenTelemetry navigation tracing.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "tiller").
	TracerName string

	// AttributeExtractor extracts custom attributes from the candidate
	// navigation state. Called at span start.
	AttributeExtractor func(next, prev router.PathState) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry navigation tracing.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(fn func(next, prev router.PathState) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = fn
	}
}

// OpenTelemetry attaches a span per navigation attempt to the router and
// returns a detach func.
//
// A span opens at BeforeRouteChange and closes at RouteChangeComplete. A
// navigation that never completes (cancelled by a listener, or superseded
// before its deferred commit ran) has its span closed with an error status
// when the next navigation starts, or at detach.
//
// The tracer comes from the global OpenTelemetry tracer provider; configure
// the provider in main() before attaching.
func OpenTelemetry(r *router.Router, opts ...OTelOption) (detach func()) {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	var (
		mu   sync.Mutex
		open trace.Span
	)

	closeOpen := func(status codes.Code, desc string) {
		if open != nil {
			open.SetStatus(status, desc)
			open.End()
			open = nil
		}
	}

	cancelBefore := r.ListenFor(router.BeforeRouteChange, func(next, prev router.PathState) error {
		mu.Lock()
		defer mu.Unlock()
		closeOpen(codes.Error, "navigation did not complete")

		attrs := []attribute.KeyValue{
			attribute.String("navigation.to", next.CurrentRoute),
			attribute.String("navigation.from", prev.CurrentRoute),
			attribute.String("navigation.root_path", next.RootPath),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(next, prev)...)
		}

		_, span := config.tracer.Start(context.Background(),
			"navigate "+next.CurrentRoute,
			trace.WithAttributes(attrs...),
		)
		open = span
		return nil
	})

	cancelComplete := r.ListenFor(router.RouteChangeComplete, func(next, prev router.PathState) error {
		mu.Lock()
		defer mu.Unlock()
		closeOpen(codes.Ok, "")
		return nil
	})

	return func() {
		cancelBefore()
		cancelComplete()
		mu.Lock()
		closeOpen(codes.Error, "router detached")
		mu.Unlock()
	}
}
