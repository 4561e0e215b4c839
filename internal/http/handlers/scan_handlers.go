package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	repo "github.com/rogerio-castellano/safekart/internal/repo"
	"github.com/rogerio-castellano/safekart/internal/verify"
	"go.uber.org/zap"
)

// ScanHandler godoc
// @Summary Redeem a scanned QR code
// @Description Target of the URL encoded in every PASS QR code. Each scan is counted until the scan limit is reached.
// @Tags verify
// @Produce html
// @Param id path string true "Verification ID"
// @Success 200 {string} string "Verified product page"
// @Failure 403 {string} string "QR code expired or item not verified"
// @Failure 404 {string} string "Verification not found"
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {string} string "Internal Server Error"
// @Router /scan/{id} [get]
func ScanHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := verifier.Redeem(r.Context(), id)
	switch {
	case errors.Is(err, repo.ErrVerificationNotFound):
		writeHTML(w, http.StatusNotFound, "<h1>Verification not found.</h1>")
	case errors.Is(err, verify.ErrNotRedeemable):
		renderScanView(w, http.StatusForbidden, "failed", res)
	case err != nil:
		logger.Error("scan failed", zap.String("id", id), zap.Error(err))
		writeHTML(w, http.StatusInternalServerError, "<h1>Internal Server Error</h1>")
	case !res.Accepted:
		renderScanView(w, http.StatusForbidden, "expired", res)
	default:
		renderScanView(w, http.StatusOK, "verified", res)
	}
}

func renderScanView(w http.ResponseWriter, status int, view string, res verify.Redemption) {
	var buf bytes.Buffer
	if err := scanViews.ExecuteTemplate(&buf, view, res); err != nil {
		logger.Error("failed to render scan view", zap.String("view", view), zap.Error(err))
		writeHTML(w, http.StatusInternalServerError, "<h1>Internal Server Error</h1>")
		return
	}
	writeHTML(w, status, buf.String())
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Error("failed to write HTML response", zap.Error(err))
	}
}
