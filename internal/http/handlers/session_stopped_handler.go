package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"voltgrid/internal/billing"
)

// SessionStoppedHandler receives session-end callbacks from the OCPP
// front-end and turns them into billed transactions.
type SessionStoppedHandler struct {
	service *billing.Service
	logger  *zap.Logger
}

// NewSessionStoppedHandler builds handler.
func NewSessionStoppedHandler(service *billing.Service, logger *zap.Logger) *SessionStoppedHandler {
	return &SessionStoppedHandler{service: service, logger: logger}
}

type sessionStoppedRequest struct {
	Account       string    `json:"account"`
	ConnectorType string    `json:"connector_type"`
	Station       string    `json:"station"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	EnergyKWh     float64   `json:"energy_kwh"`
}

// ServeHTTP handles POST /internal/ocpp/session-stopped.
func (h *SessionStoppedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req sessionStoppedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Station == "" {
		writeError(w, http.StatusBadRequest, "station required")
		return
	}

	tx, err := h.service.SessionStopped(r.Context(), billing.SessionStoppedInput{
		Account:       req.Account,
		ConnectorType: req.ConnectorType,
		Station:       req.Station,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		EnergyKWh:     req.EnergyKWh,
	})
	if err != nil {
		h.logger.Error("failed to create billing transaction", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "billing calculation failed")
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}
