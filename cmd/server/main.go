// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/inkwell-dev/sync-core/internal/config"
	"github.com/inkwell-dev/sync-core/internal/handler"
	"github.com/inkwell-dev/sync-core/internal/handler/ws"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/server"
	"github.com/inkwell-dev/sync-core/internal/server/assetstore"
	"github.com/inkwell-dev/sync-core/internal/server/auditlog"
	"github.com/inkwell-dev/sync-core/internal/server/auth"
	"github.com/inkwell-dev/sync-core/internal/server/docstore"
	"github.com/inkwell-dev/sync-core/internal/server/ratelimiter"
	"github.com/inkwell-dev/sync-core/internal/server/wsgateway"
	"github.com/inkwell-dev/sync-core/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("sync-core-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Info().Msg("starting a server")
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	users := store.NewUserRepository(db, log)
	tokens := store.NewRefreshTokenRepository(db, log)
	ueks := store.NewUEKRepository(db, log)

	authService := auth.NewService(users, tokens, ueks, cfg.App.TokenSignKey, cfg.App.TokenIssuer, cfg.App.TokenDuration, log)
	docs := docstore.NewStore(db, log)

	assets, err := assetstore.NewStore(db, cfg.Storage.Files.BinaryDataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating asset store")
	}

	audit := auditlog.NewLog(db, log)
	gateway := wsgateway.NewGateway(docs, audit, log)
	limiter := ratelimiter.NewDefault()
	wsHandler := ws.NewHandler(authService, limiter, gateway, log)

	// assetBaseURL is the public byte-serving prefix embedded in every
	// upload/metadata response; it shares the REST API's own address since
	// assets are served from this same process at /api/assets/{id}.
	assetBaseURL := "http://" + cfg.Server.HTTPAddress + "/api/assets"

	handlers, err := handler.NewHandlers(authService, docs, assets, wsHandler, assetBaseURL, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	servers, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server(s)")
	}

	servers.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
