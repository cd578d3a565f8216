package state

// Source is the type-erased view of a container that Bind watches.
// Container[T] implements it for every T, which lets one binding watch
// containers of different value types together.
type Source interface {
	// Subscribe registers a change callback and returns its cancel.
	Subscribe(fn func()) (cancel func())

	// Snapshot returns the current value.
	Snapshot() any
}

// Sources is a convenience constructor for a watch list.
func Sources(srcs ...Source) []Source {
	return srcs
}
