package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"voltgrid/internal/billing"
	"voltgrid/internal/ingest"
)

const maxImportSize = 10 << 20 // 10MB upload cap

// ImportHandler ingests charger CSV exports into the transaction history.
type ImportHandler struct {
	txRepo   billing.TransactionRepository
	catalogs billing.CatalogProvider
	logger   *zap.Logger
}

// NewImportHandler builds handler.
func NewImportHandler(txRepo billing.TransactionRepository, catalogs billing.CatalogProvider, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{txRepo: txRepo, catalogs: catalogs, logger: logger}
}

// ServeHTTP handles POST /billing/import with a multipart "csv" file.
func (h *ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("csv")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no csv file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read csv file")
		return
	}

	header, rows := ingest.SplitRecords(string(data))

	existing, err := h.txRepo.ExistingIDs(r.Context())
	if err != nil {
		h.logger.Error("failed to load existing transaction ids", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	cat, err := h.catalogs.Catalog(r.Context())
	if err != nil {
		h.logger.Error("failed to load rate catalog", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	result := ingest.Validate(header, rows, existing, cat)

	if len(result.Accepted) > 0 {
		if err := h.txRepo.CreateBatch(r.Context(), result.Accepted); err != nil {
			h.logger.Error("failed to persist imported transactions", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "import failed")
			return
		}
	}

	h.logger.Info("csv import processed",
		zap.Int("rows", len(rows)),
		zap.Int("imported", len(result.Accepted)),
		zap.Int("duplicates", result.DuplicateCount),
		zap.Int("zero_usage", result.ZeroUsageCount),
		zap.Int("errors", len(result.Errors)),
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported":   len(result.Accepted),
		"duplicates": result.DuplicateCount,
		"zero_usage": result.ZeroUsageCount,
		"errors":     result.Errors,
	})
}
