// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API (spec §6). Cross-cutting concerns such as authentication, request
// tracing, access logging, and response compression are handled in this
// package before requests reach the auth, docstore, and assetstore
// components it is wired to.
package http
