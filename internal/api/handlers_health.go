// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"
	"time"
)

// healthStatus is the body for GET /health.
type healthStatus struct {
	Status        string `json:"status"`
	EngineReady   bool   `json:"engine_ready"`
	TableCount    int    `json:"table_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Health reports overall service health, including whether the embedded
// engine is reachable and how many tables it has loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	engineReady := h.catalog.DB().PingContext(r.Context()) == nil
	status := "healthy"
	if !engineReady {
		status = "degraded"
	}

	rw.JSON(healthStatus{
		Status:        status,
		EngineReady:   engineReady,
		TableCount:    len(h.catalog.Tables()),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// HealthLive is the liveness probe: 200 OK whenever the process can serve
// HTTP at all, independent of the engine's state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HealthReady is the readiness probe: 200 only once the engine responds to
// a ping, so a load balancer won't route queries before startup finishes.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DB().PingContext(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
