package middleware

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tiller-ui/tiller/pkg/router"
)

// recordingSpan captures the name, attributes, and final status of one span.
type recordingSpan struct {
	noop.Span

	name   string
	attrs  []attribute.KeyValue
	status codes.Code
	desc   string
	ended  bool
}

func (s *recordingSpan) SetStatus(code codes.Code, desc string) {
	s.status = code
	s.desc = desc
}

func (s *recordingSpan) End(...trace.SpanEndOption) {
	s.ended = true
}

type recordingTracer struct {
	noop.Tracer

	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordingSpan{name: name, attrs: cfg.Attributes()}
	t.spans = append(t.spans, span)
	return ctx, span
}

type recordingProvider struct {
	noop.TracerProvider

	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func installRecorder(t *testing.T) *recordingTracer {
	t.Helper()
	prev := otel.GetTracerProvider()
	tracer := &recordingTracer{}
	otel.SetTracerProvider(&recordingProvider{tracer: tracer})
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return tracer
}

func attrValue(attrs []attribute.KeyValue, key string) string {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestOpenTelemetrySpanPerNavigation(t *testing.T) {
	tracer := installRecorder(t)
	w, r := newTestRouter(t)
	detach := OpenTelemetry(r)
	defer detach()

	if err := r.GoTo("/users"); err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	w.FlushAll()

	if len(tracer.spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(tracer.spans))
	}
	span := tracer.spans[0]
	if span.name != "navigate /users" {
		t.Errorf("span name: got %q", span.name)
	}
	if !span.ended {
		t.Error("span not ended after completion")
	}
	if span.status != codes.Ok {
		t.Errorf("status: got %v, want Ok", span.status)
	}
	if got := attrValue(span.attrs, "navigation.to"); got != "/users" {
		t.Errorf("navigation.to: got %q", got)
	}
	if got := attrValue(span.attrs, "navigation.from"); got != "/" {
		t.Errorf("navigation.from: got %q", got)
	}
}

func TestOpenTelemetryIncompleteNavigation(t *testing.T) {
	tracer := installRecorder(t)
	w, r := newTestRouter(t)
	detach := OpenTelemetry(r)
	defer detach()

	denied := errors.New("denied")
	cancel := r.ListenFor(router.BeforeRouteChange, func(next, prev router.PathState) error {
		if next.CurrentRoute == "/secret" {
			return denied
		}
		return nil
	})
	defer cancel()

	// Cancelled navigation leaves its span open until the next one starts.
	if err := r.GoTo("/secret"); !errors.Is(err, denied) {
		t.Fatalf("GoTo: got %v", err)
	}
	w.FlushAll()

	if err := r.GoTo("/home"); err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	w.FlushAll()

	if len(tracer.spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(tracer.spans))
	}
	first := tracer.spans[0]
	if !first.ended || first.status != codes.Error {
		t.Errorf("cancelled span: ended=%v status=%v, want ended with Error", first.ended, first.status)
	}
	if tracer.spans[1].status != codes.Ok {
		t.Errorf("second span status: got %v, want Ok", tracer.spans[1].status)
	}
}

func TestOpenTelemetryDetachClosesOpenSpan(t *testing.T) {
	tracer := installRecorder(t)
	w, r := newTestRouter(t)
	detach := OpenTelemetry(r)

	cancel := r.ListenFor(router.BeforeRouteChange, func(next, prev router.PathState) error {
		return errors.New("denied")
	})
	defer cancel()

	_ = r.GoTo("/x")
	w.FlushAll()
	detach()

	if len(tracer.spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(tracer.spans))
	}
	span := tracer.spans[0]
	if !span.ended || span.status != codes.Error {
		t.Errorf("detached span: ended=%v status=%v, want ended with Error", span.ended, span.status)
	}
}

func TestOpenTelemetryAttributeExtractor(t *testing.T) {
	tracer := installRecorder(t)
	w, r := newTestRouter(t)
	detach := OpenTelemetry(r,
		WithAttributeExtractor(func(next, prev router.PathState) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("app.section", "admin")}
		}),
	)
	defer detach()

	if err := r.GoTo("/admin"); err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	w.FlushAll()

	if len(tracer.spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(tracer.spans))
	}
	if got := attrValue(tracer.spans[0].attrs, "app.section"); got != "admin" {
		t.Errorf("extracted attribute: got %q", got)
	}
}
