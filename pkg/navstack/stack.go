package navstack

import (
	"context"
	"log/slog"
	"sync"

	"github.com/navstack-dev/navstack/pkg/route"
)

// PopOutcome is the tri-state result of Stack.Pop.
type PopOutcome int

const (
	// PopEmpty means there was nothing to pop.
	PopEmpty PopOutcome = iota

	// PopRejected means the top entry's guard vetoed the pop; the stack is
	// unchanged.
	PopRejected

	// PopDone means the top entry was removed.
	PopDone
)

// String returns a human-readable outcome name.
func (o PopOutcome) String() string {
	switch o {
	case PopEmpty:
		return "empty"
	case PopRejected:
		return "rejected"
	case PopDone:
		return "done"
	default:
		return "unknown"
	}
}

// Stack is the mutable navigation stack: index 0 is the bottom of history,
// the last index is the active entry. Mutations go through the guard and
// redirect protocols and notify subscribers synchronously.
//
// Methods are safe for concurrent use. Guards and redirects run outside
// the container lock, so a blocked operation leaves the stack observably
// unchanged until it resumes.
type Stack struct {
	label  string
	logger *slog.Logger

	mu      sync.Mutex
	entries []route.Entry

	notifier notifier
}

// StackOption configures a Stack.
type StackOption func(*Stack)

// WithDebugLabel sets an opaque label used in logs. No semantic effect.
func WithDebugLabel(label string) StackOption {
	return func(s *Stack) {
		s.label = label
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) StackOption {
	return func(s *Stack) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEntries seeds the stack with an initial history, bottom first. Seed
// entries do not go through redirect resolution.
func WithEntries(entries ...route.Entry) StackOption {
	return func(s *Stack) {
		for _, e := range entries {
			if e == nil {
				continue
			}
			route.Attach(e, s)
			s.entries = append(s.entries, e)
		}
	}
}

// NewStack creates a mutable stack, empty unless seeded via WithEntries.
func NewStack(opts ...StackOption) *Stack {
	s := &Stack{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DebugLabel returns the stack's opaque label.
func (s *Stack) DebugLabel() string { return s.label }

// Len returns the number of entries.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a snapshot copy of the sequence, bottom first.
func (s *Stack) Entries() []route.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]route.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ActiveEntry returns the top entry, or nil when empty.
func (s *Stack) ActiveEntry() route.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// Subscribe registers fn to run synchronously after every mutation. The
// returned cancel function removes the subscription.
func (s *Stack) Subscribe(fn func()) func() {
	return s.notifier.subscribe(fn)
}

// Push resolves e through the redirect protocol, appends the resolved
// target at the top, and returns the target's result future. Redirect
// errors propagate to the caller with the stack unchanged.
func (s *Stack) Push(ctx context.Context, e route.Entry) (*route.Result, error) {
	return s.Insert(ctx, -1, e)
}

// Insert is Push at a position: the entry goes through full redirect
// resolution and is spliced into the sequence at index (bottom-relative).
// An index of -1 or len appends. Used by the reconciler to apply
// mid-sequence insertions from an edit script.
func (s *Stack) Insert(ctx context.Context, index int, e route.Entry) (*route.Result, error) {
	target, err := resolveRedirects(ctx, e)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// The sequence never holds two reference-identical entries. If the
	// resolved target is already here, hand back its existing future.
	for _, existing := range s.entries {
		if existing == target {
			s.mu.Unlock()
			return target.Result(), nil
		}
	}

	if index < 0 || index > len(s.entries) {
		index = len(s.entries)
	}
	route.Attach(target, s)
	s.entries = append(s.entries, nil)
	copy(s.entries[index+1:], s.entries[index:])
	s.entries[index] = target
	depth := len(s.entries)
	s.mu.Unlock()

	s.logger.Debug("navstack: pushed route",
		"stack", s.label, "route", target.RouteName(), "depth", depth)
	s.notifier.notify()
	return target.Result(), nil
}

// PushOrMoveToTop resolves e through the redirect protocol and ensures the
// resolved target is the active entry.
//
// If a value-equal entry is already on top, the stack is untouched and the
// existing top's result future is returned, so the call site and the
// original pusher observe the same eventual completion. If a value-equal
// entry sits lower in the stack, that instance is removed — its result
// future completes silently — and the new target is appended at the top.
// Otherwise the target is simply appended.
func (s *Stack) PushOrMoveToTop(ctx context.Context, e route.Entry) (*route.Result, error) {
	target, err := resolveRedirects(ctx, e)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if n := len(s.entries); n > 0 && route.Equal(s.entries[n-1], target) {
		top := s.entries[n-1]
		s.mu.Unlock()
		return top.Result(), nil
	}

	if i := route.IndexOf(s.entries, target); i >= 0 {
		displaced := s.entries[i]
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		if displaced != target {
			route.Detach(displaced)
			displaced.Result().CompleteSilently()
		}
	}

	route.Attach(target, s)
	s.entries = append(s.entries, target)
	depth := len(s.entries)
	s.mu.Unlock()

	s.logger.Debug("navstack: moved route to top",
		"stack", s.label, "route", target.RouteName(), "depth", depth)
	s.notifier.notify()
	return target.Result(), nil
}

// Pop removes the top entry after consulting its guard, recording result
// on the removed entry for the presentation layer to deliver (see
// route.Base.PopValue). Returns PopEmpty when there is nothing to pop,
// PopRejected when the guard vetoed, PopDone on removal.
//
// The guard runs against the top entry as of call time. If another
// operation removed that entry while the guard was pending, Pop returns
// PopEmpty without mutating anything.
func (s *Stack) Pop(ctx context.Context, result any) PopOutcome {
	s.mu.Lock()
	if len(s.entries) == 0 {
		s.mu.Unlock()
		return PopEmpty
	}
	top := s.entries[len(s.entries)-1]
	s.mu.Unlock()

	if g, ok := top.(route.Guard); ok {
		if !g.PopGuard(ctx) {
			s.logger.Debug("navstack: pop vetoed by guard",
				"stack", s.label, "route", top.RouteName())
			return PopRejected
		}
	}

	s.mu.Lock()
	i := identityIndex(s.entries, top)
	if i < 0 {
		// The inspected entry left the stack while the guard ran.
		s.mu.Unlock()
		return PopEmpty
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	depth := len(s.entries)
	s.mu.Unlock()

	route.MarkPopped(top, result)
	s.logger.Debug("navstack: popped route",
		"stack", s.label, "route", top.RouteName(), "depth", depth)
	s.notifier.notify()
	return PopDone
}

// Remove unconditionally removes e (matched by reference identity) from
// any position, without consulting its guard and without completing its
// result future. Reports whether an entry was removed; subscribers are
// notified only on an actual removal.
func (s *Stack) Remove(e route.Entry) bool {
	s.mu.Lock()
	i := identityIndex(s.entries, e)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	depth := len(s.entries)
	s.mu.Unlock()

	route.Detach(e)
	s.logger.Debug("navstack: removed route",
		"stack", s.label, "route", e.RouteName(), "depth", depth)
	s.notifier.notify()
	return true
}

// Reset empties the stack. Every removed entry's result future completes
// silently.
func (s *Stack) Reset() {
	s.mu.Lock()
	removed := s.entries
	s.entries = nil
	s.mu.Unlock()

	if len(removed) == 0 {
		return
	}
	for _, e := range removed {
		route.Detach(e)
		e.Result().CompleteSilently()
	}
	s.logger.Debug("navstack: reset", "stack", s.label, "cleared", len(removed))
	s.notifier.notify()
}

// identityIndex returns the index of the entry reference-identical to e,
// or -1.
func identityIndex(entries []route.Entry, e route.Entry) int {
	for i, candidate := range entries {
		if candidate == e {
			return i
		}
	}
	return -1
}
