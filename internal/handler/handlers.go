// Package handler provides initialization logic for the inbound transport
// adapters used by the sync-core server, bundling them so they can be
// started uniformly by the application's main entrypoint.
package handler

import (
	nethttp "net/http"

	"github.com/inkwell-dev/sync-core/internal/config"
	"github.com/inkwell-dev/sync-core/internal/handler/http"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/server/assetstore"
	"github.com/inkwell-dev/sync-core/internal/server/auth"
	"github.com/inkwell-dev/sync-core/internal/server/docstore"
)

// Handlers groups all initialized inbound transport handlers. The main
// application uses this structure to start the appropriate servers based on
// configuration.
type Handlers struct {
	// HTTP contains the initialized HTTP handler, which also owns the
	// WebSocket upgrade route.
	HTTP *http.Handler
}

// NewHandlers constructs the Handlers bundle from the server-side domain
// components, the WebSocket upgrade handler, and server configuration.
//
// Returns:
//   - (*Handlers, nil) if the HTTP handler was successfully created;
//   - (nil, error) if cfg.HTTPAddress is empty, since the application has
//     no inbound transport to serve requests with.
func NewHandlers(
	authService auth.Service,
	docs docstore.Store,
	assets assetstore.Store,
	wsHandler nethttp.Handler,
	assetBaseURL string,
	cfg config.Server,
	logger *logger.Logger,
) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(authService, docs, assets, wsHandler, assetBaseURL, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
