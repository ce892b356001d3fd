package route

import (
	"context"
	"reflect"
	"sync"
)

// Entry is one navigable unit on a stack.
//
// RouteName returns the entry's variant tag (e.g. "product"). IdentityArgs
// returns the ordered identity properties that, together with the name,
// define value equality. Both must be stable for the lifetime of the entry.
//
// Concrete entries embed Base, which provides the framework-state accessors
// (Result, Owner, PoppedByContainer, PopValue).
type Entry interface {
	RouteName() string
	IdentityArgs() []any

	// Result returns the entry's one-shot result future, creating it on
	// first use. Provided by Base.
	Result() *Result

	// frameworkState marks implementations as embedding Base.
	frameworkState() *Base
}

// Guard is an optional capability consulted before an entry is removed from
// a mutable stack or deactivated on an indexed stack. Returning false
// cancels the transition; the entry stays exactly where it was.
//
// The guard may block (show a dialog, hit the network). Stack state is not
// mutated until it returns.
type Guard interface {
	PopGuard(ctx context.Context) bool
}

// Redirector is an optional capability resolved before an entry is accepted
// onto any stack. Returning (nil, nil) means the redirect handled navigation
// itself and the original candidate is kept untouched. Returning the
// receiver means "proceed here". Returning another entry supersedes the
// current target, whose Result is completed silently. A non-nil error
// aborts the whole chain and propagates to the caller.
type Redirector interface {
	Redirect(ctx context.Context) (Entry, error)
}

// Transitioner is an optional capability naming the transition the
// presentation layer should play for this entry. The engine carries the
// value opaque.
type Transitioner interface {
	Transition() string
}

// ParamCarrier is an optional capability exposing an entry's mutable route
// parameters. Params are never part of identity.
type ParamCarrier interface {
	RouteParams() map[string]string
	SetRouteParams(params map[string]string)
}

// Container is the owner an entry is bound to while it sits on a stack.
type Container interface {
	DebugLabel() string
}

// Equal reports whether two entries are value-equal: same route name and
// deeply equal identity arguments. Distinct live instances may be
// value-equal; reference identity is ordinary interface identity.
func Equal(a, b Entry) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.RouteName() != b.RouteName() {
		return false
	}
	return reflect.DeepEqual(a.IdentityArgs(), b.IdentityArgs())
}

// IndexOf returns the index of the first entry in entries value-equal to e,
// or -1.
func IndexOf(entries []Entry, e Entry) int {
	for i, candidate := range entries {
		if Equal(candidate, e) {
			return i
		}
	}
	return -1
}

// Base carries the framework-internal state of an entry: the owning
// container, the one-shot result future, the popped-by-container flag, and
// the value recorded by a pop. None of it participates in Equal.
//
// The zero value is ready to use; embed it by value.
type Base struct {
	mu     sync.Mutex
	result *Result
	owner  Container

	popped   bool
	popValue any

	params map[string]string
}

func (b *Base) frameworkState() *Base { return b }

// Result returns the entry's one-shot result future, creating it on first
// use.
func (b *Base) Result() *Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.result == nil {
		b.result = NewResult()
	}
	return b.result
}

// Owner returns the container the entry is currently bound to, or nil.
func (b *Base) Owner() Container {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owner
}

// PoppedByContainer reports whether the entry was removed by a pop (as
// opposed to a guard-free remove or a reset).
func (b *Base) PoppedByContainer() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.popped
}

// PopValue returns the result value recorded by the pop that removed this
// entry. The presentation layer reads it to complete the entry's Result
// once the popped content is actually gone from screen.
func (b *Base) PopValue() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.popValue
}

// RouteParams returns the entry's mutable route parameters.
func (b *Base) RouteParams() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.params
}

// SetRouteParams replaces the entry's mutable route parameters.
func (b *Base) SetRouteParams(params map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.params = params
}

// Attach binds the entry to a container. Called by the container when the
// entry joins its sequence.
func Attach(e Entry, c Container) {
	b := e.frameworkState()
	b.mu.Lock()
	b.owner = c
	b.popped = false
	b.mu.Unlock()
}

// Detach clears the entry's owning container. Called by the container when
// the entry permanently leaves its sequence.
func Detach(e Entry) {
	b := e.frameworkState()
	b.mu.Lock()
	b.owner = nil
	b.mu.Unlock()
}

// MarkPopped records that a pop removed the entry along with the
// caller-supplied result value.
func MarkPopped(e Entry, value any) {
	b := e.frameworkState()
	b.mu.Lock()
	b.owner = nil
	b.popped = true
	b.popValue = value
	b.mu.Unlock()
}
