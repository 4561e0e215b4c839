package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for admin view
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {object} MessageResponse
// @Router /metrics/dashboard [get]
// @Security BearerAuth
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics(r.Context())
	if err != nil {
		logger.Error("failed to fetch metrics", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "failed to fetch metrics")
		return
	}
	respond(w, http.StatusOK, m)
}
