// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, logging, tracing, and compression
// concerns are all handled at this layer before requests reach the
// document-sync and asset-storage components.
package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inkwell-dev/sync-core/internal/server/metrics"
)

// Init constructs and returns a fully configured [chi.Mux] router that
// serves all API endpoints of the application.
//
// # Global middleware
//
// Every request passes through the following middleware chain in order:
//   - [middleware.Recoverer] — catches panics in handlers, logs the stack
//     trace, and returns HTTP 500 to the client so the server stays alive.
//   - [Handler.withTraceID] — resolves or generates a trace ID and stores
//     an enriched logger in the request context for structured tracing.
//   - withLogging — emits a structured access-log entry (URI, method,
//     status, duration, response size) after each request completes.
//   - withGZip — transparently decompresses gzip-encoded request bodies and
//     compresses response bodies for clients that advertise gzip support.
//
// # Route groups
//
// All REST routes are nested under the "/api" prefix (spec §6):
//
//	/api/auth
//	  POST /register  — create a new account, returns a token pair (public).
//	  POST /login     — authenticate, returns a token pair (public).
//	  POST /refresh   — exchange a refresh token for a new access token (public).
//	  POST /logout    — best-effort refresh-token revocation (public).
//	  GET  /me        — the authenticated user's public projection (requires JWT).
//
//	/api/status       — liveness probe (public).
//
//	/api/documents
//	  GET /manifest   — {uuid, updatedAt} for every document the caller owns
//	                    (requires JWT).
//
//	/api/assets       — attachment storage (requires JWT):
//	  POST   /upload         — multipart upload of a new attachment.
//	  GET    /:id            — raw attachment bytes.
//	  GET    /:id/metadata   — attachment metadata.
//	  DELETE /:id            — delete an attachment.
//
// The document sync WebSocket (spec §4.10) is mounted at the router root
// so a client dials "ws(s)://host/?token=...&sessionId=...&name=..."; it
// performs its own token/rate-limit checks ahead of the upgrade and is not
// wrapped in [Handler.auth].
//
// # Method-not-allowed behaviour
//
// [CheckHTTPMethod] is registered as the MethodNotAllowed handler. It
// overrides chi's default HTTP 405 response and returns HTTP 404 instead,
// preventing callers from discovering which HTTP methods are supported on
// a given route through error-code enumeration.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, withLogging, withGZip)

	if h.ws != nil {
		router.Handle("/", h.ws)
	}

	router.Handle("/metrics", metrics.Handler())

	router.Route("/api", func(api chi.Router) {

		api.Get("/status", h.status)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.register)
			auth.Post("/login", h.login)
			auth.Post("/refresh", h.refresh)
			auth.Post("/logout", h.logout)

			auth.With(h.auth).Get("/me", h.me)
		})

		api.Route("/documents", func(documents chi.Router) {
			documents.Use(h.auth)

			documents.Get("/manifest", h.manifest)
		})

		api.Route("/assets", func(assets chi.Router) {
			assets.Use(h.auth)

			assets.Post("/upload", h.uploadAsset)
			assets.Get("/{id}", h.downloadAsset)
			assets.Get("/{id}/metadata", h.assetMetadata)
			assets.Delete("/{id}", h.deleteAsset)
		})
	})

	// Replace chi's default 405 Method Not Allowed with 404 Not Found so that
	// callers cannot enumerate supported HTTP methods through error codes.
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
