package router

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/tiller-ui/tiller/internal/errors"
	"github.com/tiller-ui/tiller/pkg/browser"
	"github.com/tiller-ui/tiller/pkg/state"
)

// Router drives navigation for one window.
//
// Construct one per window with New; nothing in this package is shared
// between routers, so multiple instances can coexist (as in tests).
type Router struct {
	window browser.Window

	// path holds the committed navigation state.
	path *state.Container[PathState]

	// params holds the parameters extracted from the last successful
	// route match.
	params *state.Container[Params]

	mu        sync.Mutex
	listeners map[Event][]listenerEntry
	nextID    uint64

	logger *slog.Logger

	// bindings are the route-view bindings owned by this router,
	// disposed on Close.
	bindings []*state.Binding

	removePop func()
}

// Option configures a Router.
type Option func(*Router)

// WithRootPath mounts the router under the given path prefix.
func WithRootPath(root string) Option {
	return func(r *Router) {
		r.path.Update(func(s PathState) PathState {
			s.RootPath = EnsureOnlyLeadingSlash(root)
			return s
		})
	}
}

// WithLogger sets the router's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// New creates a router bound to a window. The current route is derived from
// the window's location, and browser back/forward is reconciled through the
// router from this point on.
func New(w browser.Window, opts ...Option) *Router {
	r := &Router{
		window:    w,
		path:      state.New(PathState{RootPath: "/"}),
		params:    state.New(make(Params)),
		listeners: make(map[Event][]listenerEntry),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.path.Update(func(s PathState) PathState {
		s.CurrentRoute = deriveRoute(s.RootPath, w.Location().Path)
		return s
	})

	r.removePop = w.OnPopState(r.onPopState)
	return r
}

// Close detaches the router from its window and disposes the bindings
// behind its route views.
func (r *Router) Close() {
	if r.removePop != nil {
		r.removePop()
		r.removePop = nil
	}
	r.mu.Lock()
	bindings := r.bindings
	r.bindings = nil
	r.mu.Unlock()
	for _, b := range bindings {
		b.Dispose()
	}
}

// PathState returns the container holding the committed navigation state.
func (r *Router) PathState() *state.Container[PathState] { return r.path }

// Params returns the container holding the current route parameters.
func (r *Router) Params() *state.Container[Params] { return r.params }

// Window returns the window the router is bound to.
func (r *Router) Window() browser.Window { return r.window }

// SetRootPath changes the path prefix the router is mounted under.
func (r *Router) SetRootPath(root string) {
	r.path.Update(func(s PathState) PathState {
		s.RootPath = EnsureOnlyLeadingSlash(root)
		return s
	})
}

// MakePath builds the absolute path for a route relative to the root path.
func (r *Router) MakePath(route string) string {
	return makePath(r.path.Get().RootPath, route)
}

// ShouldDisplay tests whether the window's current path matches a route
// pattern. See matchPattern for the absolute and prefix semantics.
func (r *Router) ShouldDisplay(pattern string, absolute bool) bool {
	return matchPattern(r.MakePath(pattern), r.window.Location().Path, absolute)
}

// ExtractParams extracts $name parameter values from the committed current
// route, matched positionally against the pattern's segments.
func (r *Router) ExtractParams(pattern string) Params {
	return extractParams(r.MakePath(pattern), makePath(r.path.Get().RootPath, r.path.Get().CurrentRoute))
}

// ListenFor registers a listener for a navigation lifecycle event and
// returns its cancel. An unknown event is a programming error and panics.
func (r *Router) ListenFor(evt Event, fn Listener) (cancel func()) {
	if !evt.valid() {
		panic(errors.New("E003"))
	}

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.listeners[evt] = append(r.listeners[evt], listenerEntry{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		ls := r.listeners[evt]
		for i, l := range ls {
			if l.id == id {
				r.listeners[evt] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// NavigateOption configures one GoTo call.
type NavigateOption func(*navigateOptions)

type navigateOptions struct {
	context any
	replace bool
	silent  bool
}

// WithContext attaches an arbitrary payload to the navigation; it becomes
// the committed state's Context.
func WithContext(ctx any) NavigateOption {
	return func(o *navigateOptions) {
		o.context = ctx
	}
}

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *navigateOptions) {
		o.replace = true
	}
}

// Silent suppresses lifecycle event emission for this navigation.
func Silent() NavigateOption {
	return func(o *navigateOptions) {
		o.silent = true
	}
}

// GoTo navigates to a route relative to the root path.
//
// Unless silent, BeforeRouteChange listeners run first, synchronously and in
// registration order; the first one to return an error cancels the
// navigation before the history stack or the navigation state is touched,
// and that error is returned. Otherwise the history entry is written
// immediately and the state commit, AfterRouteChange, scroll handling, and
// RouteChangeComplete run on the next event-loop turn. Reading PathState in
// the same turn as a successful GoTo therefore still observes the previous
// route.
func (r *Router) GoTo(route string, opts ...NavigateOption) error {
	var o navigateOptions
	for _, opt := range opts {
		opt(&o)
	}

	old := r.path.Get()
	next := PathState{
		RootPath:     old.RootPath,
		CurrentRoute: EnsureOnlyLeadingSlash(stripQueryHash(route)),
		Context:      o.context,
	}

	if !o.silent {
		if err := r.emitBefore(next, old); err != nil {
			r.logger.Warn("router: navigation cancelled",
				"route", next.CurrentRoute, "error", err)
			return err
		}
	}

	// The history entry keeps the caller's route as given, query string
	// and hash fragment included; only the committed state is stripped.
	historyPath := makePath(old.RootPath, route)
	if o.replace {
		r.window.ReplaceState(historyPath)
	} else {
		r.window.PushState(historyPath)
	}

	r.window.Defer(func() {
		r.path.Update(func(s PathState) PathState {
			s.CurrentRoute = next.CurrentRoute
			s.Context = next.Context
			return s
		})
		committed := r.path.Get()

		if !o.silent {
			r.emit(AfterRouteChange, committed, old)
		}
		r.scrollFor(route)
		if !o.silent {
			r.emit(RouteChangeComplete, committed, old)
		}
	})

	return nil
}

// onPopState reconciles a browser back/forward transition into the same
// lifecycle pipeline. The history mutation has already happened, so a
// cancelled transition can only be compensated: the previous route is
// re-entered with a silent replace, which does not rewind the browser's
// history pointer.
func (r *Router) onPopState() {
	old := r.path.Get()
	next := PathState{
		RootPath:     old.RootPath,
		CurrentRoute: deriveRoute(old.RootPath, r.window.Location().Path),
	}

	if err := r.emitBefore(next, old); err != nil {
		r.logger.Warn("router: history transition cancelled, compensating",
			"route", next.CurrentRoute, "error", err)
		if err := r.GoTo(old.CurrentRoute, WithContext(old.Context), WithReplace(), Silent()); err != nil {
			r.logger.Error("router: compensating navigation failed", "error", err)
		}
		return
	}

	r.path.Update(func(s PathState) PathState {
		s.CurrentRoute = next.CurrentRoute
		s.Context = nil
		return s
	})
	committed := r.path.Get()

	r.emit(AfterRouteChange, committed, old)
	r.scrollFor(r.window.Location().Path)
	r.emit(RouteChangeComplete, committed, old)
}

// emitBefore runs BeforeRouteChange listeners in registration order and
// returns the first error, which cancels the navigation.
func (r *Router) emitBefore(next, prev PathState) error {
	for _, l := range r.snapshot(BeforeRouteChange) {
		if err := l.fn(next, prev); err != nil {
			return err
		}
	}
	return nil
}

// emit runs listeners for a non-cancelling phase; errors are logged only.
func (r *Router) emit(evt Event, next, prev PathState) {
	for _, l := range r.snapshot(evt) {
		if err := l.fn(next, prev); err != nil {
			r.logger.Error("router: listener failed",
				"event", evt.String(), "error", err)
		}
	}
}

func (r *Router) snapshot(evt Event) []listenerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls := make([]listenerEntry, len(r.listeners[evt]))
	copy(ls, r.listeners[evt])
	return ls
}

// scrollFor applies the post-navigation scroll behavior: a hash fragment
// scrolls its percent-decoded target into view when found, anything else
// returns the viewport to the top.
func (r *Router) scrollFor(target string) {
	if frag, ok := hashFragment(target); ok && frag != "" {
		id, err := url.PathUnescape(frag)
		if err != nil {
			id = frag
		}
		if el := r.window.Document().GetElementByID(id); el != nil {
			el.ScrollIntoView()
			return
		}
	}
	r.window.ScrollTo(0, 0)
}

func (r *Router) track(b *state.Binding) {
	r.mu.Lock()
	r.bindings = append(r.bindings, b)
	r.mu.Unlock()
}

// deriveRoute recovers the route relative to a root path from a window
// location path. The root is only stripped on a segment boundary, so a
// root of /app leaves /approval untouched.
func deriveRoute(root, locPath string) string {
	p := stripQueryHash(locPath)
	root = EnsureOnlyLeadingSlash(root)
	if root != "/" && strings.HasPrefix(p, root) {
		if len(p) == len(root) || p[len(root)] == '/' {
			p = p[len(root):]
		}
	}
	return EnsureOnlyLeadingSlash(p)
}
