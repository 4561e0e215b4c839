package handlers

import (
	"net/mail"
	"strings"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validatePurchase(p PurchaseRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(p.CustomerName) == "" {
		errs = append(errs, ValidationError{Field: "customerName", Description: "Customer name is required"})
	}
	email := strings.TrimSpace(p.CustomerEmail)
	if email == "" {
		errs = append(errs, ValidationError{Field: "customerEmail", Description: "Customer email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, ValidationError{Field: "customerEmail", Description: "Customer email is invalid"})
	}
	return errs
}

func validateProductRow(r csvRow) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(r.Barcode) == "" {
		errs = append(errs, ValidationError{Field: "barcode", Description: "Barcode is required"})
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Description: "Name is required"})
	}
	if r.Weight <= 0 {
		errs = append(errs, ValidationError{Field: "weight", Description: "Weight must be greater than zero"})
	}
	if r.MRP <= 0 {
		errs = append(errs, ValidationError{Field: "mrp", Description: "MRP must be greater than zero"})
	}
	return errs
}
