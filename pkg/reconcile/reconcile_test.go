package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/navstack-dev/navstack/pkg/navstack"
	"github.com/navstack-dev/navstack/pkg/route"
)

type testRoute struct {
	route.Base
	name string
}

func (r *testRoute) RouteName() string   { return r.name }
func (r *testRoute) IdentityArgs() []any { return nil }

type failingRedirect struct {
	testRoute
	err error
}

func (r *failingRedirect) Redirect(ctx context.Context) (route.Entry, error) {
	return nil, r.err
}

func names(entries []route.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.RouteName()
	}
	return out
}

func wantStack(t *testing.T, s *navstack.Stack, want ...string) {
	t.Helper()
	got := names(s.Entries())
	if len(got) != len(want) {
		t.Fatalf("stack = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stack = %v, want %v", got, want)
		}
	}
}

func TestReconcileNoChange(t *testing.T) {
	a := &testRoute{name: "a"}
	b := &testRoute{name: "b"}
	s := navstack.NewStack(navstack.WithEntries(a, b))

	desired := []route.Entry{&testRoute{name: "a"}, &testRoute{name: "b"}}
	if err := Reconcile(context.Background(), s, desired); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	wantStack(t, s, "a", "b")
	entries := s.Entries()
	if entries[0] != route.Entry(a) || entries[1] != route.Entry(b) {
		t.Errorf("kept entries were replaced; instances must be preserved")
	}
}

func TestReconcileMidSequenceReplace(t *testing.T) {
	a := &testRoute{name: "a"}
	b := &testRoute{name: "b"}
	s := navstack.NewStack(navstack.WithEntries(a, b))

	desired := []route.Entry{&testRoute{name: "a"}, &testRoute{name: "c"}}
	if err := Reconcile(context.Background(), s, desired); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	wantStack(t, s, "a", "c")
	if s.Entries()[0] != route.Entry(a) {
		t.Errorf("kept entry a was replaced")
	}
	if b.Result().Completed() {
		t.Errorf("deleted entry's future completed; reconcile deletes are guard-free removes")
	}
	if b.Owner() != nil {
		t.Errorf("deleted entry still owned by the stack")
	}
}

func TestReconcileGrowAndShrink(t *testing.T) {
	s := navstack.NewStack()
	ctx := context.Background()

	if err := Reconcile(ctx, s, []route.Entry{
		&testRoute{name: "home"},
		&testRoute{name: "list"},
		&testRoute{name: "detail"},
	}); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	wantStack(t, s, "home", "list", "detail")

	if err := Reconcile(ctx, s, []route.Entry{
		&testRoute{name: "home"},
	}); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	wantStack(t, s, "home")
}

func TestReconcileMidSequenceInsert(t *testing.T) {
	a := &testRoute{name: "a"}
	c := &testRoute{name: "c"}
	s := navstack.NewStack(navstack.WithEntries(a, c))

	desired := []route.Entry{
		&testRoute{name: "a"},
		&testRoute{name: "b"},
		&testRoute{name: "c"},
	}
	if err := Reconcile(context.Background(), s, desired); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	wantStack(t, s, "a", "b", "c")
	entries := s.Entries()
	if entries[0] != route.Entry(a) || entries[2] != route.Entry(c) {
		t.Errorf("kept entries were replaced around the insertion")
	}
}

func TestReconcileReversal(t *testing.T) {
	s := navstack.NewStack(navstack.WithEntries(
		&testRoute{name: "a"},
		&testRoute{name: "b"},
		&testRoute{name: "c"},
	))

	desired := []route.Entry{
		&testRoute{name: "c"},
		&testRoute{name: "b"},
		&testRoute{name: "a"},
	}
	if err := Reconcile(context.Background(), s, desired); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	wantStack(t, s, "c", "b", "a")
}

func TestReconcileReorderLiveInstances(t *testing.T) {
	a := &testRoute{name: "a"}
	b := &testRoute{name: "b"}
	c := &testRoute{name: "c"}
	s := navstack.NewStack(navstack.WithEntries(a, b, c))

	// Reorder using the live instances themselves, c moving ahead of its
	// delete in the script.
	if err := Reconcile(context.Background(), s, []route.Entry{c, a, b}); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	wantStack(t, s, "c", "a", "b")
	entries := s.Entries()
	if entries[0] != route.Entry(c) || entries[1] != route.Entry(a) || entries[2] != route.Entry(b) {
		t.Errorf("reorder replaced instances; moves must preserve them")
	}
	if c.Result().Completed() {
		t.Errorf("moved entry's future completed; a move is not a removal")
	}
	if c.Owner() != route.Container(s) {
		t.Errorf("moved entry lost its owner")
	}
}

func TestReconcileReorderLiveInstancesTowardTop(t *testing.T) {
	a := &testRoute{name: "a"}
	b := &testRoute{name: "b"}
	c := &testRoute{name: "c"}
	s := navstack.NewStack(navstack.WithEntries(a, b, c))

	// The opposite direction: a's delete precedes its insert.
	if err := Reconcile(context.Background(), s, []route.Entry{b, c, a}); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	wantStack(t, s, "b", "c", "a")
	entries := s.Entries()
	if entries[2] != route.Entry(a) {
		t.Errorf("moved entry was replaced; moves must preserve instances")
	}
	if a.Result().Completed() {
		t.Errorf("moved entry's future completed; a move is not a removal")
	}
}

func TestReconcileReverseLiveInstances(t *testing.T) {
	a := &testRoute{name: "a"}
	b := &testRoute{name: "b"}
	c := &testRoute{name: "c"}
	s := navstack.NewStack(navstack.WithEntries(a, b, c))

	if err := Reconcile(context.Background(), s, []route.Entry{c, b, a}); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	wantStack(t, s, "c", "b", "a")
	entries := s.Entries()
	if entries[0] != route.Entry(c) || entries[1] != route.Entry(b) || entries[2] != route.Entry(a) {
		t.Errorf("reversal replaced instances; moves must preserve them")
	}
	for _, e := range []*testRoute{a, b, c} {
		if e.Result().Completed() {
			t.Errorf("%s's future completed during reversal", e.name)
		}
	}
}

func TestReconcileInsertRedirectError(t *testing.T) {
	a := &testRoute{name: "a"}
	s := navstack.NewStack(navstack.WithEntries(a))
	boom := errors.New("redirect boom")

	desired := []route.Entry{
		route.Entry(a),
		&failingRedirect{testRoute: testRoute{name: "bad"}, err: boom},
	}
	err := Reconcile(context.Background(), s, desired)
	if !errors.Is(err, boom) {
		t.Fatalf("Reconcile error = %v, want %v", err, boom)
	}
	// Operations before the failing insert stay applied.
	wantStack(t, s, "a")
}
