package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// GenerateQRHandler godoc
// @Summary Encode an arbitrary payload as a QR code
// @Tags qr
// @Accept json
// @Produce json
// @Param payload body QRRequest true "Payload; data is JSON-encoded before rendering"
// @Success 200 {object} QRResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /qr [post]
func GenerateQRHandler(w http.ResponseWriter, r *http.Request) {
	var req QRRequest
	if err := readJSON(w, r, &req); err != nil || isEmptyPayload(req.Data) {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: "Missing data for QR"})
		return
	}

	qr, err := qrEncoder.EncodeJSON(req.Data)
	if err != nil {
		logger.Error("QR generation failed", zap.Error(err))
		respond(w, http.StatusInternalServerError, ErrorResponse{Error: "QR generation failed"})
		return
	}
	respond(w, http.StatusOK, QRResponse{QR: qr})
}

// isEmptyPayload matches the values a client would consider "no data".
func isEmptyPayload(v any) bool {
	switch d := v.(type) {
	case nil:
		return true
	case string:
		return d == ""
	case bool:
		return !d
	case float64:
		return d == 0
	}
	return false
}
