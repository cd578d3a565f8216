package middleware

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tiller-ui/tiller/pkg/browser"
	"github.com/tiller-ui/tiller/pkg/router"
)

func newTestRouter(t *testing.T) (*browser.Memory, *router.Router) {
	t.Helper()
	w := browser.NewMemory()
	r := router.New(w, router.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(r.Close)
	return w, r
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels prometheus.Labels) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && lp.GetValue() != want {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestPrometheusCountsPhases(t *testing.T) {
	w, r := newTestRouter(t)
	reg := prometheus.NewRegistry()
	detach := Prometheus(r, WithRegistry(reg))
	defer detach()

	if err := r.GoTo("/users"); err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	w.FlushAll()

	for _, phase := range []string{"started", "committed", "completed"} {
		got := counterValue(t, reg, "tiller_navigations_total",
			prometheus.Labels{"route": "/users", "phase": phase})
		if got != 1 {
			t.Errorf("phase %q: got %v, want 1", phase, got)
		}
	}
}

func TestPrometheusCancelledNavigation(t *testing.T) {
	w, r := newTestRouter(t)
	reg := prometheus.NewRegistry()
	detach := Prometheus(r, WithRegistry(reg))
	defer detach()

	denied := errors.New("denied")
	r.ListenFor(router.BeforeRouteChange, func(next, prev router.PathState) error {
		return denied
	})

	if err := r.GoTo("/secret"); !errors.Is(err, denied) {
		t.Fatalf("GoTo: got %v", err)
	}
	w.FlushAll()

	started := counterValue(t, reg, "tiller_navigations_total",
		prometheus.Labels{"route": "/secret", "phase": "started"})
	completed := counterValue(t, reg, "tiller_navigations_total",
		prometheus.Labels{"route": "/secret", "phase": "completed"})
	if started != 1 {
		t.Errorf("started: got %v, want 1", started)
	}
	if completed != 0 {
		t.Errorf("completed: got %v, want 0", completed)
	}
}

func TestPrometheusObservesDuration(t *testing.T) {
	w, r := newTestRouter(t)
	reg := prometheus.NewRegistry()
	detach := Prometheus(r, WithRegistry(reg))
	defer detach()

	if err := r.GoTo("/users"); err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	w.FlushAll()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, fam := range families {
		if fam.GetName() != "tiller_navigation_duration_seconds" {
			continue
		}
		for _, m := range fam.GetMetric() {
			if m.GetHistogram().GetSampleCount() == 1 {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected one duration observation")
	}
}

func TestPrometheusOptions(t *testing.T) {
	w, r := newTestRouter(t)
	reg := prometheus.NewRegistry()
	detach := Prometheus(r,
		WithRegistry(reg),
		WithNamespace("myapp"),
		WithSubsystem("nav"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
	)
	defer detach()

	if err := r.GoTo("/x"); err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	w.FlushAll()

	got := counterValue(t, reg, "myapp_nav_navigations_total",
		prometheus.Labels{"route": "/x", "phase": "completed", "env": "test"})
	if got != 1 {
		t.Errorf("namespaced counter: got %v, want 1", got)
	}
}

func TestPrometheusDetach(t *testing.T) {
	w, r := newTestRouter(t)
	reg := prometheus.NewRegistry()
	detach := Prometheus(r, WithRegistry(reg))

	if err := r.GoTo("/a"); err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	w.FlushAll()
	detach()
	if err := r.GoTo("/b"); err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	w.FlushAll()

	got, err := testutil.GatherAndCount(reg, "tiller_navigations_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got != 3 {
		t.Errorf("expected only the first navigation's 3 series, got %d", got)
	}
}
