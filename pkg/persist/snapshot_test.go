package persist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/navstack-dev/navstack/pkg/route"
)

type productRoute struct {
	route.Base
	id int
}

func (r *productRoute) RouteName() string   { return "product" }
func (r *productRoute) IdentityArgs() []any { return []any{r.id} }

type homeRoute struct {
	route.Base
}

func (r *homeRoute) RouteName() string   { return "home" }
func (r *homeRoute) IdentityArgs() []any { return nil }

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Register("home", func(raw RawEntry) (route.Entry, error) {
		return &homeRoute{}, nil
	})
	reg.Register("product", func(raw RawEntry) (route.Entry, error) {
		var args []int
		if err := json.Unmarshal(raw.Identity, &args); err != nil {
			return nil, err
		}
		return &productRoute{id: args[0]}, nil
	})
	return reg
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	p := &productRoute{id: 42}
	p.SetRouteParams(map[string]string{"ref": "email"})
	entries := []route.Entry{&homeRoute{}, p}

	data, err := Snapshot(entries)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	restored, err := Restore(testRegistry(), data)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("restored %d entries, want 2", len(restored))
	}
	if !route.Equal(restored[0], entries[0]) || !route.Equal(restored[1], entries[1]) {
		t.Errorf("restored entries not value-equal to originals")
	}
	if restored[1] == entries[1] {
		t.Errorf("restored entry is the original instance, want a fresh one")
	}
	if got := restored[1].(*productRoute).RouteParams()["ref"]; got != "email" {
		t.Errorf("restored param ref = %q, want email", got)
	}
	if restored[1].Result().Completed() {
		t.Errorf("restored entry's future completed, want pending")
	}
}

func TestRestoreUnknownRoute(t *testing.T) {
	data, err := Snapshot([]route.Entry{&homeRoute{}})
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	_, err = Restore(NewRegistry(), data)
	if !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("error = %v, want ErrUnknownRoute", err)
	}
}

func TestRestoreBadSnapshot(t *testing.T) {
	if _, err := Restore(testRegistry(), []byte("{not json")); !errors.Is(err, ErrBadSnapshot) {
		t.Errorf("error = %v, want ErrBadSnapshot", err)
	}
	if _, err := Restore(testRegistry(), []byte(`{"version":99,"routes":[]}`)); !errors.Is(err, ErrBadSnapshot) {
		t.Errorf("error = %v, want ErrBadSnapshot for a future version", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "main", []byte("snapshot")); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	data, err := store.Load(ctx, "main")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if string(data) != "snapshot" {
		t.Errorf("Load = %q, want snapshot", data)
	}

	missing, err := store.Load(ctx, "other")
	if err != nil || missing != nil {
		t.Errorf("Load(missing) = (%v, %v), want (nil, nil)", missing, err)
	}

	if err := store.Delete(ctx, "main"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if data, _ := store.Load(ctx, "main"); data != nil {
		t.Errorf("Load after Delete = %q, want nil", data)
	}

	store.Close()
	if err := store.Save(ctx, "x", nil); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Save after Close = %v, want ErrStoreClosed", err)
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("abc")
	store.Save(ctx, "k", buf)
	buf[0] = 'x'

	data, _ := store.Load(ctx, "k")
	if string(data) != "abc" {
		t.Errorf("Load = %q, want abc; store must copy on save", data)
	}
}
