// Package state provides observable value containers and the binding layer
// that keeps rendered elements in sync with them.
//
// A Container holds a single value of any type. Reading is cheap; replacing
// the value notifies every subscriber, in registration order, with each
// subscriber isolated from the failures of the others.
//
// Bind attaches a rendered element to one or more containers. The element is
// built exactly once; every subsequent change to any watched container either
// invokes an update callback against that same element or rebuilds the
// element's rendered content in place. The element's identity never changes
// across updates, so bindings compose into static trees above them.
package state
