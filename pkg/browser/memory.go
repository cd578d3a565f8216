package browser

import (
	"sync"

	"github.com/tiller-ui/tiller/pkg/dom"
)

// Memory is an in-process Window with a real history stack.
//
// Deferred tasks queue instead of running; tests drive them with Flush or
// FlushAll, which makes the router's deferred commit deterministic. Back and
// Forward move the stack pointer and deliver popstate synchronously, the way
// the real browser does from the page's point of view.
type Memory struct {
	mu sync.Mutex

	origin string
	stack  []string
	idx    int

	popHandlers []popHandler
	nextPopID   uint64

	deferred []func()

	doc *dom.Document

	scrollX, scrollY int
	scrollCount      int
}

type popHandler struct {
	id uint64
	fn func()
}

// MemoryOption configures a Memory window.
type MemoryOption func(*Memory)

// WithOrigin sets the window's origin.
func WithOrigin(origin string) MemoryOption {
	return func(m *Memory) {
		m.origin = origin
	}
}

// WithPath sets the initial history entry.
func WithPath(path string) MemoryOption {
	return func(m *Memory) {
		m.stack = []string{path}
	}
}

// NewMemory creates an in-memory window positioned at "/" with an empty
// document.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		origin: "http://localhost",
		stack:  []string{"/"},
		doc:    dom.NewDocument(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Location returns the current address.
func (m *Memory) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Location{Origin: m.origin, Path: m.stack[m.idx]}
}

// PushState appends a history entry, truncating any forward entries.
func (m *Memory) PushState(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack = append(m.stack[:m.idx+1], path)
	m.idx++
}

// ReplaceState rewrites the current history entry.
func (m *Memory) ReplaceState(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stack[m.idx] = path
}

// OnPopState registers a popstate handler.
func (m *Memory) OnPopState(fn func()) (remove func()) {
	m.mu.Lock()
	m.nextPopID++
	id := m.nextPopID
	m.popHandlers = append(m.popHandlers, popHandler{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, h := range m.popHandlers {
			if h.id == id {
				m.popHandlers = append(m.popHandlers[:i], m.popHandlers[i+1:]...)
				return
			}
		}
	}
}

// Back moves one entry back in history and fires popstate.
// It is a no-op at the oldest entry.
func (m *Memory) Back() {
	m.mu.Lock()
	if m.idx == 0 {
		m.mu.Unlock()
		return
	}
	m.idx--
	m.mu.Unlock()
	m.firePopState()
}

// Forward moves one entry forward in history and fires popstate.
// It is a no-op at the newest entry.
func (m *Memory) Forward() {
	m.mu.Lock()
	if m.idx >= len(m.stack)-1 {
		m.mu.Unlock()
		return
	}
	m.idx++
	m.mu.Unlock()
	m.firePopState()
}

// Defer queues fn for the next Flush.
func (m *Memory) Defer(fn func()) {
	m.mu.Lock()
	m.deferred = append(m.deferred, fn)
	m.mu.Unlock()
}

// Flush runs the tasks that were queued when it was called and returns how
// many ran. Tasks queued by those tasks wait for the next Flush, mirroring
// one turn of the event loop.
func (m *Memory) Flush() int {
	m.mu.Lock()
	tasks := m.deferred
	m.deferred = nil
	m.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// FlushAll flushes until the deferred queue stays empty.
func (m *Memory) FlushAll() int {
	total := 0
	for {
		n := m.Flush()
		if n == 0 {
			return total
		}
		total += n
	}
}

// ScrollTo records a viewport scroll.
func (m *Memory) ScrollTo(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrollX, m.scrollY = x, y
	m.scrollCount++
}

// ScrollPosition returns the recorded viewport position and how many times
// ScrollTo has been called.
func (m *Memory) ScrollPosition() (x, y, calls int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrollX, m.scrollY, m.scrollCount
}

// Document returns the window's element tree.
func (m *Memory) Document() *dom.Document { return m.doc }

// HistoryLen returns the number of history entries.
func (m *Memory) HistoryLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}

func (m *Memory) firePopState() {
	m.mu.Lock()
	handlers := make([]popHandler, len(m.popHandlers))
	copy(handlers, m.popHandlers)
	m.mu.Unlock()

	for _, h := range handlers {
		h.fn()
	}
}
