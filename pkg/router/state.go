package router

// PathState is the navigation state held by a Router.
type PathState struct {
	// RootPath is the path the application is mounted under,
	// leading-slash normalized. "/" means the origin root.
	RootPath string

	// CurrentRoute is the committed route relative to RootPath,
	// leading-slash normalized and never carrying a query string or hash
	// fragment.
	CurrentRoute string

	// Context is the arbitrary payload passed to the navigation that
	// committed this state, or nil.
	Context any
}

// Params maps route parameter names to the values extracted from the last
// successful match.
type Params = map[string]string
