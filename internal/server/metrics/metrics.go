// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics exposes Prometheus gauges and counters for the server's
// WSGateway, RateLimiter, and DocumentStore, the ambient observability the
// rest of the server logs but does not meter (spec §5 resource model).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActiveWSConnections is the number of currently open WebSocket
	// sessions across all documents.
	ActiveWSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "synccore_ws_active_connections",
			Help: "Number of currently open WebSocket sessions",
		},
	)

	// WSMessagesRelayedTotal counts CRDT update frames WSGateway has
	// relayed between peers of a document.
	WSMessagesRelayedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "synccore_ws_messages_relayed_total",
			Help: "Total number of CRDT update frames relayed between peers",
		},
	)

	// RateLimiterRejectionsTotal counts connection attempts rejected by
	// the per-user sliding window.
	RateLimiterRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "synccore_ratelimiter_rejections_total",
			Help: "Total number of connection attempts rejected by the rate limiter",
		},
	)

	// DocumentUpsertsTotal counts successful writes to the documents
	// table, labeled by outcome (DocumentStore records "success").
	DocumentUpsertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synccore_document_upserts_total",
			Help: "Total number of document upserts by outcome",
		},
		[]string{"outcome"},
	)

	// DocumentAccessDeniedTotal counts ownership-check failures recorded
	// to the audit log.
	DocumentAccessDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "synccore_document_access_denied_total",
			Help: "Total number of document access attempts denied for ownership mismatch",
		},
	)
)

func init() {
	prometheus.MustRegister(ActiveWSConnections)
	prometheus.MustRegister(WSMessagesRelayedTotal)
	prometheus.MustRegister(RateLimiterRejectionsTotal)
	prometheus.MustRegister(DocumentUpsertsTotal)
	prometheus.MustRegister(DocumentAccessDeniedTotal)
}

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
