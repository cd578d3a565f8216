// Package router provides path-based routing for single-page applications
// built on the state and dom packages.
//
// A Router owns the navigation state for one window: the root path the app
// is mounted under, the current route, and the parameters extracted from the
// last successful match. Both live in observable containers, so any binding
// can watch them.
//
// Navigation runs a three-phase pipeline: BeforeRouteChange listeners may
// cancel by returning an error, then the history entry is written, and on
// the next event-loop turn the new state is committed and AfterRouteChange,
// scroll handling, and RouteChangeComplete follow in that order. Browser
// back/forward arrives through popstate and is reconciled into the same
// pipeline; a cancelled popstate can only be compensated with a silent
// replace navigation, because the browser's history pointer has already
// moved.
//
// Route patterns may contain $name parameter segments:
//
//	r.Route(dom.Attrs{"path": "/users/$id"},
//	    func() any { return userCard(r.Params().Get()["id"]) },
//	)
package router
