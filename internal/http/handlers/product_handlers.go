package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	repo "github.com/rogerio-castellano/safekart/internal/repo"
	"go.uber.org/zap"
)

// SearchProductsHandler godoc
// @Summary Search the catalog by product name
// @Description Case-insensitive substring match on the product name
// @Tags products
// @Produce json
// @Param query path string true "Part of the product name"
// @Success 200 {array} models.Product
// @Failure 500 {object} MessageResponse
// @Router /search-products/{query} [get]
func SearchProductsHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(chi.URLParam(r, "query"))

	products, err := productRepo.SearchByName(r.Context(), query)
	if err != nil {
		logger.Error("product search failed", zap.String("query", query), zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "Error during product search.")
		return
	}
	respond(w, http.StatusOK, products)
}

// GetProductsHandler godoc
// @Summary List the catalog
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} MessageResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll(r.Context())
	if err != nil {
		logger.Error("could not fetch products", zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "could not fetch products")
		return
	}
	respond(w, http.StatusOK, products)
}

// GetProductByBarcodeHandler godoc
// @Summary Get a catalog record by barcode
// @Tags products
// @Produce json
// @Param barcode path string true "Product barcode"
// @Success 200 {object} models.Product
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /products/{barcode} [get]
func GetProductByBarcodeHandler(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	product, err := productRepo.GetByBarcode(r.Context(), barcode)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			respondMessage(w, http.StatusNotFound, "product not found")
			return
		}
		logger.Error("could not fetch product", zap.String("barcode", barcode), zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, "could not fetch product")
		return
	}
	respond(w, http.StatusOK, product)
}
