package browser

import "testing"

func TestMemoryDefaults(t *testing.T) {
	w := NewMemory()
	loc := w.Location()
	if loc.Origin != "http://localhost" {
		t.Errorf("origin: got %q", loc.Origin)
	}
	if loc.Path != "/" {
		t.Errorf("path: got %q, want /", loc.Path)
	}
	if w.Document() == nil {
		t.Error("expected a document")
	}
}

func TestMemoryOptions(t *testing.T) {
	w := NewMemory(WithOrigin("https://example.com"), WithPath("/start"))
	loc := w.Location()
	if loc.Origin != "https://example.com" {
		t.Errorf("origin: got %q", loc.Origin)
	}
	if loc.Path != "/start" {
		t.Errorf("path: got %q, want /start", loc.Path)
	}
}

func TestMemoryHistory(t *testing.T) {
	w := NewMemory()
	w.PushState("/a")
	w.PushState("/b")

	if got := w.Location().Path; got != "/b" {
		t.Errorf("after pushes: got %q, want /b", got)
	}
	if got := w.HistoryLen(); got != 3 {
		t.Errorf("history length: got %d, want 3", got)
	}

	w.Back()
	if got := w.Location().Path; got != "/a" {
		t.Errorf("after back: got %q, want /a", got)
	}

	// Pushing truncates forward entries.
	w.PushState("/c")
	if got := w.HistoryLen(); got != 3 {
		t.Errorf("after truncating push: got %d entries, want 3", got)
	}
	w.Forward()
	if got := w.Location().Path; got != "/c" {
		t.Errorf("forward at newest entry moved: got %q", got)
	}
}

func TestMemoryReplaceState(t *testing.T) {
	w := NewMemory()
	w.PushState("/a")
	w.ReplaceState("/b")

	if got := w.Location().Path; got != "/b" {
		t.Errorf("after replace: got %q, want /b", got)
	}
	if got := w.HistoryLen(); got != 2 {
		t.Errorf("replace grew history: %d entries", got)
	}
}

func TestMemoryBoundaries(t *testing.T) {
	w := NewMemory()
	pops := 0
	w.OnPopState(func() { pops++ })

	w.Back()
	w.Forward()
	if pops != 0 {
		t.Errorf("popstate fired at history boundaries, count=%d", pops)
	}
}

func TestMemoryPopStateHandlers(t *testing.T) {
	w := NewMemory()
	w.PushState("/a")

	var order []string
	w.OnPopState(func() { order = append(order, "first") })
	remove := w.OnPopState(func() { order = append(order, "second") })

	w.Back()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("handler order: got %v", order)
	}

	remove()
	order = nil
	w.Forward()
	if len(order) != 1 || order[0] != "first" {
		t.Errorf("after removal: got %v", order)
	}
}

func TestMemoryFlushRunsOneTurn(t *testing.T) {
	w := NewMemory()
	var ran []string
	w.Defer(func() {
		ran = append(ran, "outer")
		w.Defer(func() { ran = append(ran, "inner") })
	})

	if n := w.Flush(); n != 1 {
		t.Errorf("first flush: ran %d tasks, want 1", n)
	}
	if len(ran) != 1 || ran[0] != "outer" {
		t.Fatalf("after first flush: got %v", ran)
	}

	// The nested task waits for the next turn.
	if n := w.Flush(); n != 1 {
		t.Errorf("second flush: ran %d tasks, want 1", n)
	}
	if len(ran) != 2 || ran[1] != "inner" {
		t.Errorf("after second flush: got %v", ran)
	}

	if n := w.Flush(); n != 0 {
		t.Errorf("empty flush ran %d tasks", n)
	}
}

func TestMemoryFlushAll(t *testing.T) {
	w := NewMemory()
	depth := 0
	var chain func()
	chain = func() {
		depth++
		if depth < 3 {
			w.Defer(chain)
		}
	}
	w.Defer(chain)

	if total := w.FlushAll(); total != 3 {
		t.Errorf("FlushAll ran %d tasks, want 3", total)
	}
	if depth != 3 {
		t.Errorf("depth: got %d, want 3", depth)
	}
}

func TestMemoryScroll(t *testing.T) {
	w := NewMemory()
	w.ScrollTo(0, 120)
	w.ScrollTo(0, 0)

	x, y, calls := w.ScrollPosition()
	if x != 0 || y != 0 {
		t.Errorf("position: got (%d,%d), want (0,0)", x, y)
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}
