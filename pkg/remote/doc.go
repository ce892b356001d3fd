// Package remote exposes a navigation engine over HTTP for an external
// presentation layer: REST endpoints for the stack operations and a
// WebSocket stream of change notifications.
//
// Routes cross the wire in the persist package's serialized form; a
// persist.Registry reconstructs concrete entries from push requests.
//
//	h := remote.NewHandler(stack, registry,
//	    remote.WithTabs(tabs),
//	)
//	http.ListenAndServe(":8400", h.Routes())
package remote
