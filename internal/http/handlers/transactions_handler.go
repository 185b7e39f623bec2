package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"voltgrid/internal/billing"
	"voltgrid/internal/repository"
)

// TransactionsHandler serves transaction history and payment reconciliation.
type TransactionsHandler struct {
	service *billing.Service
	logger  *zap.Logger
}

// NewTransactionsHandler builds handler.
func NewTransactionsHandler(service *billing.Service, logger *zap.Logger) *TransactionsHandler {
	return &TransactionsHandler{service: service, logger: logger}
}

// List handles GET /billing/transactions?limit=.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	txs, err := h.service.Transactions(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list transactions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
}

type payRequest struct {
	ID          string `json:"id"`
	PaymentType string `json:"payment_type"`
}

// Pay handles POST /billing/transactions/pay.
func (h *TransactionsHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	if err := h.service.MarkPaid(r.Context(), req.ID, req.PaymentType); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.logger.Error("failed to mark transaction paid", zap.String("transaction_id", req.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to mark transaction paid")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"paid": req.ID})
}

// Delete handles DELETE /billing/transactions?id=.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.logger.Error("failed to delete transaction", zap.String("transaction_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
