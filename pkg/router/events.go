package router

// Event identifies a navigation lifecycle phase.
type Event int

const (
	// BeforeRouteChange fires before any observable effect of a
	// navigation. A listener returning an error cancels the navigation.
	BeforeRouteChange Event = iota

	// AfterRouteChange fires once the new navigation state is committed.
	AfterRouteChange

	// RouteChangeComplete fires after scroll handling, as the final phase
	// of a navigation.
	RouteChangeComplete
)

// String returns the event's name.
func (e Event) String() string {
	switch e {
	case BeforeRouteChange:
		return "beforeRouteChange"
	case AfterRouteChange:
		return "afterRouteChange"
	case RouteChangeComplete:
		return "routeChangeComplete"
	default:
		return "unknown"
	}
}

func (e Event) valid() bool {
	return e >= BeforeRouteChange && e <= RouteChangeComplete
}

// Listener observes a navigation lifecycle phase. It receives the candidate
// (or committed) state and the state it replaces. Only BeforeRouteChange
// honors a non-nil error, by cancelling the navigation; errors from the
// other phases are logged and otherwise ignored.
type Listener func(next, prev PathState) error

type listenerEntry struct {
	id uint64
	fn Listener
}
