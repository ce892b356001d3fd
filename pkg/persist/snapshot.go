package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/navstack-dev/navstack/pkg/route"
)

// snapshotVersion is bumped when the envelope layout changes.
const snapshotVersion = 1

var (
	// ErrUnknownRoute is returned by Restore for a route name with no
	// registered decoder.
	ErrUnknownRoute = errors.New("persist: unknown route name")

	// ErrBadSnapshot is returned for snapshot bytes that do not parse or
	// carry an unsupported version.
	ErrBadSnapshot = errors.New("persist: bad snapshot")
)

// Marshaler lets an entry override how its identity is encoded. Entries
// without it are encoded as the JSON array of their IdentityArgs.
type Marshaler interface {
	MarshalRoute() (json.RawMessage, error)
}

// RawEntry is one serialized route within a snapshot envelope.
type RawEntry struct {
	Name     string            `json:"name"`
	Identity json.RawMessage   `json:"identity,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

type envelope struct {
	Version int        `json:"version"`
	Routes  []RawEntry `json:"routes"`
}

// DecodeFunc reconstructs an entry from its serialized form.
type DecodeFunc func(raw RawEntry) (route.Entry, error)

// Decoder reconstructs entries from their serialized form. Registry is the
// standard implementation; custom decoders can substitute one (e.g. a
// permissive decoder in dev tooling).
type Decoder interface {
	Decode(raw RawEntry) (route.Entry, error)
}

// Registry maps route names to decode functions. It is a plain value
// constructed once and passed where needed; the zero value is unusable,
// use NewRegistry.
type Registry struct {
	decoders map[string]DecodeFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]DecodeFunc)}
}

// Register adds a decoder for name, replacing any previous one.
func (r *Registry) Register(name string, decode DecodeFunc) {
	r.decoders[name] = decode
}

// Decode reconstructs a single entry.
func (r *Registry) Decode(raw RawEntry) (route.Entry, error) {
	decode, ok := r.decoders[raw.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoute, raw.Name)
	}
	return decode(raw)
}

// Snapshot encodes entries, bottom first, into an opaque snapshot.
func Snapshot(entries []route.Entry) ([]byte, error) {
	env := envelope{Version: snapshotVersion, Routes: make([]RawEntry, 0, len(entries))}
	for _, e := range entries {
		raw := RawEntry{Name: e.RouteName()}

		if m, ok := e.(Marshaler); ok {
			identity, err := m.MarshalRoute()
			if err != nil {
				return nil, fmt.Errorf("persist: marshal %q: %w", raw.Name, err)
			}
			raw.Identity = identity
		} else if args := e.IdentityArgs(); len(args) > 0 {
			identity, err := json.Marshal(args)
			if err != nil {
				return nil, fmt.Errorf("persist: marshal %q: %w", raw.Name, err)
			}
			raw.Identity = identity
		}

		if p, ok := e.(route.ParamCarrier); ok {
			raw.Params = p.RouteParams()
		}
		env.Routes = append(env.Routes, raw)
	}
	return json.Marshal(env)
}

// Restore decodes a snapshot back into entries using decoder. Restored
// entries are fresh instances with pending result futures; params are
// reapplied to entries that carry them.
func Restore(decoder Decoder, data []byte) ([]route.Entry, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if env.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrBadSnapshot, env.Version)
	}

	entries := make([]route.Entry, 0, len(env.Routes))
	for _, raw := range env.Routes {
		e, err := decoder.Decode(raw)
		if err != nil {
			return nil, err
		}
		if p, ok := e.(route.ParamCarrier); ok && raw.Params != nil {
			p.SetRouteParams(raw.Params)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
