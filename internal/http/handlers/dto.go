package handlers

import (
	"github.com/rogerio-castellano/safekart/internal/models"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type PurchaseRequest struct {
	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerMobile string `json:"customerMobile,omitempty"`
	ProductBarcode string `json:"productBarcode"`
}

type PurchaseResponse struct {
	Message    string         `json:"message"`
	CustomerID string         `json:"customerId"`
	Product    models.Product `json:"product"`
}

type PurchaseValidationResponse struct {
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

type VerifyRequest struct {
	Barcode    string  `json:"barcode"`
	Weight     float64 `json:"weight"`
	MRP        float64 `json:"mrp"`
	CustomerID string  `json:"customerId,omitempty"`
	Expiry     string  `json:"expiry,omitempty"` // RFC3339
}

type VerifyResponse struct {
	Status       string               `json:"status"`
	Reason       string               `json:"reason,omitempty"`
	Message      string               `json:"message,omitempty"`
	Verification *models.Verification `json:"verification,omitempty"`
}

type QRRequest struct {
	Data any `json:"data"`
}

type QRResponse struct {
	QR string `json:"qr"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type AdminLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type ImportProductsResult struct {
	ImportedProductsCount int               `json:"imported"`
	Errors                []ValidationError `json:"errors"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
