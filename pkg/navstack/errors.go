package navstack

import "errors"

// Sentinel errors for container operations.
var (
	// ErrIndexOutOfRange is returned by GoToIndexed for an index outside
	// [0, Len()).
	ErrIndexOutOfRange = errors.New("navstack: index out of range")

	// ErrRouteNotFound is returned by ActivateRoute when the entry is not
	// a member of the indexed stack.
	ErrRouteNotFound = errors.New("navstack: route not found")

	// ErrEmptyIndexedStack is returned when constructing an indexed stack
	// with no members.
	ErrEmptyIndexedStack = errors.New("navstack: indexed stack needs at least one route")
)
