package remote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/navstack-dev/navstack/pkg/navstack"
	"github.com/navstack-dev/navstack/pkg/persist"
	"github.com/navstack-dev/navstack/pkg/route"
)

// Stack is the mutable-stack surface the handler drives. Implemented by
// *navstack.Stack and *middleware.InstrumentedStack.
type Stack interface {
	Push(ctx context.Context, e route.Entry) (*route.Result, error)
	PushOrMoveToTop(ctx context.Context, e route.Entry) (*route.Result, error)
	Pop(ctx context.Context, result any) navstack.PopOutcome
	Reset()
	Entries() []route.Entry
	ActiveEntry() route.Entry
	Len() int
	Subscribe(fn func()) func()
	DebugLabel() string
}

// Decoder reconstructs entries from their serialized form. Implemented by
// *persist.Registry.
type Decoder = persist.Decoder

// Handler serves a navigation engine over HTTP.
type Handler struct {
	stack    Stack
	tabs     *navstack.IndexedStack
	registry Decoder
	logger   *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithTabs exposes an indexed stack under /tabs.
func WithTabs(tabs *navstack.IndexedStack) HandlerOption {
	return func(h *Handler) {
		h.tabs = tabs
	}
}

// WithHandlerLogger sets the logger. Defaults to slog.Default().
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a handler driving stack, decoding pushed routes
// through registry.
func NewHandler(stack Stack, registry Decoder, opts ...HandlerOption) *Handler {
	h := &Handler{
		stack:    stack,
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the chi router for the handler.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/stack", h.getStack)
	r.Post("/stack/push", h.postPush)
	r.Post("/stack/move-to-top", h.postMoveToTop)
	r.Post("/stack/pop", h.postPop)
	r.Post("/stack/reset", h.postReset)

	r.Get("/tabs", h.getTabs)
	r.Post("/tabs/{index}", h.postTab)

	r.Get("/ws", h.serveWS)

	return r
}

// wireRoute is an entry as rendered in snapshot responses and change
// events.
type wireRoute struct {
	Name       string            `json:"name"`
	Params     map[string]string `json:"params,omitempty"`
	Transition string            `json:"transition,omitempty"`
	Active     bool              `json:"active"`
}

func wireRoutes(entries []route.Entry) []wireRoute {
	out := make([]wireRoute, len(entries))
	for i, e := range entries {
		out[i] = wireRoute{
			Name:   e.RouteName(),
			Active: i == len(entries)-1,
		}
		if p, ok := e.(route.ParamCarrier); ok {
			out[i].Params = p.RouteParams()
		}
		if tr, ok := e.(route.Transitioner); ok {
			out[i].Transition = tr.Transition()
		}
	}
	return out
}

type stackResponse struct {
	Label  string      `json:"label,omitempty"`
	Depth  int         `json:"depth"`
	Routes []wireRoute `json:"routes"`
}

func (h *Handler) getStack(w http.ResponseWriter, r *http.Request) {
	entries := h.stack.Entries()
	writeJSON(w, http.StatusOK, stackResponse{
		Label:  h.stack.DebugLabel(),
		Depth:  len(entries),
		Routes: wireRoutes(entries),
	})
}

type pushRequest struct {
	Route     persist.RawEntry `json:"route"`
	MoveToTop bool             `json:"moveToTop,omitempty"`
}

func (h *Handler) postPush(w http.ResponseWriter, r *http.Request) {
	h.push(w, r, false)
}

func (h *Handler) postMoveToTop(w http.ResponseWriter, r *http.Request) {
	h.push(w, r, true)
}

func (h *Handler) push(w http.ResponseWriter, r *http.Request, moveToTop bool) {
	var req pushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.registry.Decode(req.Route)
	if err != nil {
		if errors.Is(err, persist.ErrUnknownRoute) {
			writeError(w, http.StatusNotFound, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	if p, ok := entry.(route.ParamCarrier); ok && req.Route.Params != nil {
		p.SetRouteParams(req.Route.Params)
	}

	if moveToTop || req.MoveToTop {
		_, err = h.stack.PushOrMoveToTop(r.Context(), entry)
	} else {
		_, err = h.stack.Push(r.Context(), entry)
	}
	if err != nil {
		// A redirect failure surfaces to the caller; the stack is
		// untouched.
		h.logger.Warn("remote: push failed", "route", req.Route.Name, "error", err)
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	top := h.stack.ActiveEntry()
	writeJSON(w, http.StatusOK, map[string]any{
		"depth":  h.stack.Len(),
		"active": top.RouteName(),
	})
}

type popRequest struct {
	Result any `json:"result,omitempty"`
}

func (h *Handler) postPop(w http.ResponseWriter, r *http.Request) {
	var req popRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	outcome := h.stack.Pop(r.Context(), req.Result)
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome.String(),
		"depth":   h.stack.Len(),
	})
}

func (h *Handler) postReset(w http.ResponseWriter, r *http.Request) {
	h.stack.Reset()
	w.WriteHeader(http.StatusNoContent)
}

type tabsResponse struct {
	Active int         `json:"active"`
	Routes []wireRoute `json:"routes"`
}

func (h *Handler) getTabs(w http.ResponseWriter, r *http.Request) {
	if h.tabs == nil {
		writeError(w, http.StatusNotFound, "no indexed stack configured")
		return
	}
	entries := h.tabs.Entries()
	routes := wireRoutes(entries)
	active := h.tabs.ActiveIndex()
	for i := range routes {
		routes[i].Active = i == active
	}
	writeJSON(w, http.StatusOK, tabsResponse{Active: active, Routes: routes})
}

func (h *Handler) postTab(w http.ResponseWriter, r *http.Request) {
	if h.tabs == nil {
		writeError(w, http.StatusNotFound, "no indexed stack configured")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	ok, err := h.tabs.GoToIndexed(r.Context(), index)
	if err != nil {
		if errors.Is(err, navstack.ErrIndexOutOfRange) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusConflict, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"switched": ok,
		"active":   h.tabs.ActiveIndex(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
