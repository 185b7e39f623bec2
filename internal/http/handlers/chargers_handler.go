package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voltgrid/internal/models"
	"voltgrid/internal/repository"
)

// ChargersHandler manages the charger registry.
type ChargersHandler struct {
	repo   *repository.ChargerRepository
	logger *zap.Logger
}

// NewChargersHandler builds handler.
func NewChargersHandler(repo *repository.ChargerRepository, logger *zap.Logger) *ChargersHandler {
	return &ChargersHandler{repo: repo, logger: logger}
}

type chargerRequest struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Location   string             `json:"location"`
	Status     string             `json:"status"`
	Connectors []models.Connector `json:"connectors"`
}

// List handles GET /chargers.
func (h *ChargersHandler) List(w http.ResponseWriter, r *http.Request) {
	chargers, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list chargers", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list chargers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chargers": chargers})
}

// Create handles POST /chargers.
func (h *ChargersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req chargerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	charger := models.EVCharger{
		ID:         req.ID,
		Name:       req.Name,
		Location:   req.Location,
		Status:     req.Status,
		Connectors: req.Connectors,
	}
	if charger.ID == "" {
		charger.ID = uuid.NewString()
	}
	if charger.Status == "" {
		charger.Status = "Available"
	}

	if err := h.repo.Create(r.Context(), &charger); err != nil {
		h.logger.Error("failed to create charger", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create charger")
		return
	}
	writeJSON(w, http.StatusCreated, charger)
}

// Update handles PUT /chargers.
func (h *ChargersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req chargerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	charger := models.EVCharger{
		ID:         req.ID,
		Name:       req.Name,
		Location:   req.Location,
		Status:     req.Status,
		Connectors: req.Connectors,
	}
	if err := h.repo.Update(r.Context(), charger); err != nil {
		if errors.Is(err, repository.ErrChargerNotFound) {
			writeError(w, http.StatusNotFound, "charger not found")
			return
		}
		h.logger.Error("failed to update charger", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update charger")
		return
	}
	writeJSON(w, http.StatusOK, charger)
}

// Delete handles DELETE /chargers?id=.
func (h *ChargersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrChargerNotFound) {
			writeError(w, http.StatusNotFound, "charger not found")
			return
		}
		h.logger.Error("failed to delete charger", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete charger")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
