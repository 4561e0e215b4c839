package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	models "github.com/rogerio-castellano/safekart/internal/models"
	repo "github.com/rogerio-castellano/safekart/internal/repo"
	"go.uber.org/zap"
)

var csvColumns = []string{"barcode", "name", "weight", "mrp"}

type csvRow struct {
	Barcode string
	Name    string
	Weight  float64
	MRP     float64
}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", col)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Barcode: strings.TrimSpace(record[index["barcode"]]),
			Name:    strings.TrimSpace(record[index["name"]]),
			Weight:  parseFloat(record[index["weight"]]),
			MRP:     parseFloat(record[index["mrp"]]),
		})
	}
	return rows, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

// ImportProductsHandler godoc
// @Summary Import catalog records via CSV
// @Description Columns: barcode,name,weight,mrp. Existing barcodes are skipped unless mode=update.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} MessageResponse
// @Failure 401 {string} string "Unauthorized"
// @Router /products/import [post]
// @Security BearerAuth
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	imported := 0
	errorsList := []ValidationError{}
	rowError := func(row int, field, format string, args ...any) {
		errorsList = append(errorsList, ValidationError{
			Field:       field,
			Description: fmt.Sprintf("row %d: ", row) + fmt.Sprintf(format, args...),
		})
	}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		if errs := validateProductRow(rec); len(errs) > 0 {
			for _, e := range errs {
				rowError(rowNum, e.Field, "%s", e.Description)
			}
			continue
		}

		product := models.Product{Barcode: rec.Barcode, Name: rec.Name, Weight: rec.Weight, MRP: rec.MRP}

		_, err := productRepo.GetByBarcode(ctx, rec.Barcode)
		switch {
		case err == nil && mode == "skip":
			rowError(rowNum, "barcode", "product '%s' already exists", rec.Barcode)
			continue
		case err == nil:
			if _, err := productRepo.Update(ctx, product); err != nil {
				logger.Error("import update failed", zap.String("barcode", rec.Barcode), zap.Error(err))
				rowError(rowNum, "barcode", "failed to update '%s'", rec.Barcode)
				continue
			}
		case errors.Is(err, repo.ErrProductNotFound):
			if _, err := productRepo.Create(ctx, product); err != nil {
				logger.Error("import create failed", zap.String("barcode", rec.Barcode), zap.Error(err))
				rowError(rowNum, "barcode", "failed to create '%s'", rec.Barcode)
				continue
			}
		default:
			logger.Error("import lookup failed", zap.String("barcode", rec.Barcode), zap.Error(err))
			rowError(rowNum, "barcode", "failed to look up '%s'", rec.Barcode)
			continue
		}
		imported++
	}

	logger.Info("catalog import finished", zap.String("mode", mode), zap.Int("imported", imported), zap.Int("errors", len(errorsList)))
	respond(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}
