package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/safekart/internal/models"
	repo "github.com/rogerio-castellano/safekart/internal/repo"
	"go.uber.org/zap"
)

// PurchaseHandler godoc
// @Summary Record a purchase
// @Description Creates the customer for a purchase of a catalog product. The returned customerId is passed to /verify.
// @Tags purchase
// @Accept json
// @Produce json
// @Param purchase body PurchaseRequest true "Customer and product"
// @Success 201 {object} PurchaseResponse
// @Failure 400 {object} PurchaseValidationResponse
// @Failure 404 {object} MessageResponse
// @Failure 429 {string} string "Too many requests"
// @Failure 500 {object} MessageResponse
// @Router /purchase [post]
func PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := readJSON(w, r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validatePurchase(req); len(errs) > 0 {
		respond(w, http.StatusBadRequest, PurchaseValidationResponse{
			Message: "Invalid purchase details",
			Errors:  errs,
		})
		return
	}

	ctx := r.Context()
	product, err := productRepo.GetByBarcode(ctx, strings.TrimSpace(req.ProductBarcode))
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			respondMessage(w, http.StatusNotFound, "Product not found in master database.")
			return
		}
		logger.Error("purchase product lookup failed", zap.String("barcode", req.ProductBarcode), zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "Server Error during purchase.")
		return
	}

	customer, err := customerRepo.Create(ctx, models.Customer{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.CustomerName),
		Email:        strings.TrimSpace(req.CustomerEmail),
		Mobile:       strings.TrimSpace(req.CustomerMobile),
		PurchaseDate: time.Now().UTC(),
	})
	if err != nil {
		logger.Error("could not create customer", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "Server Error during purchase.")
		return
	}

	logger.Info("purchase recorded", zap.String("customer_id", customer.ID), zap.String("barcode", product.Barcode))
	respond(w, http.StatusCreated, PurchaseResponse{
		Message:    "Purchase recorded",
		CustomerID: customer.ID,
		Product:    product,
	})
}
