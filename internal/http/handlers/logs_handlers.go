package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// GetLogsHandler godoc
// @Summary List verification logs
// @Description Every verification, newest first, with its customer populated
// @Tags logs
// @Produce json
// @Success 200 {array} models.Verification
// @Failure 401 {string} string "Unauthorized when logs are protected"
// @Failure 500 {object} MessageResponse
// @Router /logs [get]
func GetLogsHandler(w http.ResponseWriter, r *http.Request) {
	logs, err := verificationRepo.ListWithCustomers(r.Context())
	if err != nil {
		logger.Error("could not fetch logs", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "Error fetching logs")
		return
	}
	respond(w, http.StatusOK, logs)
}

// StreamLogsHandler godoc
// @Summary Live verification feed
// @Description Websocket stream of {type, verification} events for every verification and scan
// @Tags logs
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {string} string "Unauthorized"
// @Router /logs/stream [get]
// @Security BearerAuth
func StreamLogsHandler(w http.ResponseWriter, r *http.Request) {
	if liveFeed == nil {
		respondMessage(w, http.StatusServiceUnavailable, "live feed is not available")
		return
	}
	liveFeed.ServeWS(w, r)
}
