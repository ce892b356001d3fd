package navstack

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/navstack-dev/navstack/pkg/route"
)

// IndexedStack is a fixed-membership container with an active index,
// typically backing a tab bar or split navigation. Membership is immutable
// after construction; only the active index changes, through the same
// guard and redirect protocols as the mutable stack.
//
// Members are never individually popped, so every member's result future
// is completed silently at construction.
type IndexedStack struct {
	label  string
	logger *slog.Logger

	routes []route.Entry

	mu     sync.Mutex
	active int

	notifier notifier
}

// IndexedOption configures an IndexedStack.
type IndexedOption func(*IndexedStack)

// WithIndexedDebugLabel sets an opaque label used in logs.
func WithIndexedDebugLabel(label string) IndexedOption {
	return func(s *IndexedStack) {
		s.label = label
	}
}

// WithIndexedLogger sets the logger. Defaults to slog.Default().
func WithIndexedLogger(logger *slog.Logger) IndexedOption {
	return func(s *IndexedStack) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewIndexedStack creates an indexed stack over the given fixed members.
// The active index starts at 0. Returns ErrEmptyIndexedStack when entries
// is empty.
func NewIndexedStack(entries []route.Entry, opts ...IndexedOption) (*IndexedStack, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyIndexedStack
	}

	s := &IndexedStack{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	s.routes = make([]route.Entry, len(entries))
	copy(s.routes, entries)
	for _, e := range s.routes {
		route.Attach(e, s)
		e.Result().CompleteSilently()
	}
	return s, nil
}

// DebugLabel returns the stack's opaque label.
func (s *IndexedStack) DebugLabel() string { return s.label }

// Len returns the fixed number of members.
func (s *IndexedStack) Len() int { return len(s.routes) }

// Entries returns a snapshot copy of the members.
func (s *IndexedStack) Entries() []route.Entry {
	out := make([]route.Entry, len(s.routes))
	copy(out, s.routes)
	return out
}

// ActiveIndex returns the currently active index.
func (s *IndexedStack) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ActiveEntry returns the member at the active index.
func (s *IndexedStack) ActiveEntry() route.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routes[s.active]
}

// Subscribe registers fn to run synchronously after every index change.
// The returned cancel function removes the subscription.
func (s *IndexedStack) Subscribe(fn func()) func() {
	return s.notifier.subscribe(fn)
}

// GoToIndexed switches the active index to index. No-op when index is
// already active. The current active member's guard is consulted first;
// the target member then goes through redirect resolution, and the switch
// lands on the resolved target's index within the fixed membership.
//
// Returns false with a nil error when the guard vetoed, the redirect
// declined (nil target), or the redirect resolved outside the fixed
// membership; the index is unchanged in all three cases. Returns
// ErrIndexOutOfRange for an index outside [0, Len()). A redirect error
// propagates unchanged.
func (s *IndexedStack) GoToIndexed(ctx context.Context, index int) (bool, error) {
	if index < 0 || index >= len(s.routes) {
		return false, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.routes))
	}

	s.mu.Lock()
	current := s.routes[s.active]
	same := s.active == index
	s.mu.Unlock()

	if same {
		return true, nil
	}

	if g, ok := current.(route.Guard); ok {
		if !g.PopGuard(ctx) {
			s.logger.Debug("navstack: index switch vetoed by guard",
				"stack", s.label, "route", current.RouteName())
			return false, nil
		}
	}

	target, manual, err := resolveChain(ctx, s.routes[index])
	if err != nil {
		return false, err
	}
	if manual {
		// The redirect took over navigation; leave the index alone.
		return false, nil
	}

	resolved := route.IndexOf(s.routes, target)
	if resolved < 0 {
		// Redirect produced something outside the fixed membership.
		return false, nil
	}

	s.mu.Lock()
	s.active = resolved
	s.mu.Unlock()

	s.logger.Debug("navstack: switched index",
		"stack", s.label, "index", resolved, "route", target.RouteName())
	s.notifier.notify()
	return true, nil
}

// ActivateRoute makes the member value-equal to e active.
//
// When e equals the current active member and both carry route parameters,
// the live parameters are merged onto the active member without an index
// change. Otherwise the member's index is resolved by value equality and
// the call delegates to GoToIndexed. Returns ErrRouteNotFound when no
// member matches.
func (s *IndexedStack) ActivateRoute(ctx context.Context, e route.Entry) (bool, error) {
	i := route.IndexOf(s.routes, e)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrRouteNotFound, e.RouteName())
	}

	s.mu.Lock()
	activeIdx := s.active
	s.mu.Unlock()

	if i == activeIdx {
		incoming, inOK := e.(route.ParamCarrier)
		active, activeOK := s.routes[activeIdx].(route.ParamCarrier)
		if inOK && activeOK {
			if params := incoming.RouteParams(); params != nil {
				active.SetRouteParams(params)
				s.notifier.notify()
			}
		}
		return true, nil
	}

	return s.GoToIndexed(ctx, i)
}

// Reset returns the active index to 0. Member result futures are already
// completed and are not touched.
func (s *IndexedStack) Reset() {
	s.mu.Lock()
	changed := s.active != 0
	s.active = 0
	s.mu.Unlock()

	if changed {
		s.notifier.notify()
	}
}
