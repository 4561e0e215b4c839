package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/safekart/internal/models"
	repo "github.com/rogerio-castellano/safekart/internal/repo"
	"github.com/rogerio-castellano/safekart/internal/verify"
	"go.uber.org/zap"
)

const statusError = "ERROR"

// VerifyHandler godoc
// @Summary Verify an item against the catalog
// @Description Compares weight and MRP with the catalog record. A PASS issues a QR code that can be scanned a limited number of times.
// @Tags verify
// @Accept json
// @Produce json
// @Param item body VerifyRequest true "Measured item"
// @Success 200 {object} VerifyResponse "PASS with the stored verification"
// @Failure 400 {object} VerifyResponse "FAIL with a reason, or ERROR for a malformed request"
// @Failure 404 {object} VerifyResponse "Unknown customerId"
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {object} VerifyResponse
// @Router /verify [post]
func VerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := readJSON(w, r, &req); err != nil {
		respond(w, http.StatusBadRequest, VerifyResponse{Status: statusError, Message: "Invalid request body: " + err.Error()})
		return
	}

	in := verify.Request{
		Barcode:    strings.TrimSpace(req.Barcode),
		Weight:     req.Weight,
		MRP:        req.MRP,
		CustomerID: strings.TrimSpace(req.CustomerID),
	}
	if req.Expiry != "" {
		expiry, err := time.Parse(time.RFC3339, req.Expiry)
		if err != nil {
			respond(w, http.StatusBadRequest, VerifyResponse{Status: statusError, Message: "Invalid expiry date, expected RFC3339."})
			return
		}
		in.Expiry = &expiry
	}

	v, err := verifier.Verify(r.Context(), in)
	if err != nil {
		if errors.Is(err, repo.ErrCustomerNotFound) {
			respond(w, http.StatusNotFound, VerifyResponse{Status: statusError, Message: "Customer not found."})
			return
		}
		logger.Error("verification failed", zap.String("barcode", in.Barcode), zap.Error(err))
		respond(w, http.StatusInternalServerError, VerifyResponse{Status: statusError, Message: "Internal Server Error"})
		return
	}

	if v.Status == models.StatusFail {
		respond(w, http.StatusBadRequest, VerifyResponse{Status: string(v.Status), Reason: v.Reason})
		return
	}
	respond(w, http.StatusOK, VerifyResponse{Status: string(v.Status), Verification: &v})
}
