package http

import (
	"net/http"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/server/assetstore"
	"github.com/inkwell-dev/sync-core/internal/server/auth"
	"github.com/inkwell-dev/sync-core/internal/server/docstore"
)

// Handler is the root HTTP handler that wires together all route groups
// and middleware chains for the REST API.
//
// It holds direct references to the server-side domain components
// (authentication, document manifest, asset storage) rather than a single
// umbrella service container, since each REST route group maps onto
// exactly one of spec §6's external interfaces and nothing in this
// transport layer needs to see across that boundary.
//
// Handler is constructed once at application startup via [NewHandler] and
// its routes are registered by the setup methods defined in routes.go.
// It is not safe to copy a Handler after construction.
type Handler struct {
	// authService handles registration, login, token refresh/logout, and
	// bearer-token verification.
	authService auth.Service

	// docs serves the document manifest used by client-side reconciliation.
	docs docstore.Store

	// assets serves attachment upload, download, metadata, and deletion.
	assets assetstore.Store

	// ws is the WebSocket upgrade entrypoint for document synchronisation,
	// mounted at the router root alongside the "/api" REST tree.
	ws http.Handler

	// assetBaseURL is prefixed to an asset's ID to build the public byte-
	// serving URL returned in upload/metadata responses.
	assetBaseURL string

	// logger is the structured logger used by the handler and all middleware
	// for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] wired to the given domain components
// and returns a pointer to the initialised instance.
//
// Parameters:
//   - authService: register/login/refresh/logout/verify; must not be nil.
//   - docs: the document manifest store; must not be nil.
//   - assets: the asset metadata/content store; must not be nil.
//   - ws: the WebSocket upgrade handler mounted at "/"; must not be nil.
//   - assetBaseURL: base URL prefixed to an asset ID to build its byte-
//     serving URL, e.g. "https://sync.example.com/api/assets".
//   - logger: structured logger for request tracing and diagnostics; must not be nil.
func NewHandler(authService auth.Service, docs docstore.Store, assets assetstore.Store, ws http.Handler, assetBaseURL string, logger *logger.Logger) *Handler {
	logger.Debug().Msg("http handler created")
	return &Handler{
		authService:  authService,
		docs:         docs,
		assets:       assets,
		ws:           ws,
		assetBaseURL: assetBaseURL,
		logger:       logger,
	}
}
