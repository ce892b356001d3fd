// Package navstack implements the navigation-stack containers: a mutable
// push/pop stack and a fixed-membership indexed stack.
//
// Both containers hold ordered sequences of route.Entry values, expose the
// active entry, and notify subscribers synchronously after every mutation.
// All mutating operations go through the guard and redirect protocols:
// an entry implementing route.Guard can veto its own removal, and an entry
// implementing route.Redirector is resolved through a redirect chain before
// it is accepted onto any stack.
//
// # Suspension
//
// Push, PushOrMoveToTop, Pop, and GoToIndexed may block while a guard or
// redirect runs. Stack state is observably unchanged until the blocking
// call returns; overlapping operations each evaluate against the state as
// of their call time, and an operation whose target entry was removed in
// the meantime degrades to a no-op rather than corrupting order.
//
// # Result lifecycle
//
// Pushing an entry returns its route.Result. The container completes it
// silently when the entry is superseded by a redirect, displaced by
// PushOrMoveToTop, or cleared by Reset. Pop records the caller-supplied
// value on the entry but intentionally leaves completion to the
// presentation layer, which finalizes the Result once the popped content
// is actually gone (see route.Base.PopValue).
package navstack
