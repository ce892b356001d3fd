// Package route defines the entry model for the navigation engine.
//
// An Entry is an opaque navigable unit identified by its route name and an
// ordered list of identity arguments. Two entries are value-equal when both
// match; mutable state such as live route parameters is excluded from
// identity so that changing it never changes equality.
//
// # Declaring an entry
//
// Concrete entries are structs that embed Base and implement RouteName and
// IdentityArgs:
//
//	type ProductRoute struct {
//	    route.Base
//	    ID int
//	}
//
//	func (r *ProductRoute) RouteName() string   { return "product" }
//	func (r *ProductRoute) IdentityArgs() []any { return []any{r.ID} }
//
// # Capabilities
//
// Entries opt into engine behavior by implementing optional interfaces:
// Guard is consulted before an entry is removed or deactivated, Redirector
// substitutes another entry before acceptance onto a stack, Transitioner
// carries an opaque presentation hint, and ParamCarrier exposes the mutable
// route-parameter side channel.
//
// # Results
//
// Every entry instance owns a single Result, a one-shot future completed
// when the entry is popped, superseded by a redirect, displaced by a move,
// or cleared by a reset. A Result completes at most once; later completions
// are silent no-ops.
package route
