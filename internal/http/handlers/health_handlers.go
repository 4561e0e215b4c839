package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// HealthHandler godoc
// @Summary Liveness and store check
// @Tags ops
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := healthCheck(r.Context()); err != nil {
		logger.Error("health check failed", zap.Error(err))
		respond(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	respond(w, http.StatusOK, HealthResponse{Status: "ok"})
}
