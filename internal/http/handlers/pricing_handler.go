package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voltgrid/internal/models"
	"voltgrid/internal/pricing"
	"voltgrid/internal/repository"
)

// PricingHandler manages pricing rules and account groups. Every mutation
// invalidates the cached catalog snapshot so the next resolution sees it.
type PricingHandler struct {
	repo     *repository.PricingRepository
	provider *pricing.Provider
	logger   *zap.Logger
}

// NewPricingHandler builds handler.
func NewPricingHandler(repo *repository.PricingRepository, provider *pricing.Provider, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{repo: repo, provider: provider, logger: logger}
}

type ruleRequest struct {
	ID         string  `json:"id"`
	TargetType string  `json:"target_type"`
	TargetID   string  `json:"target_id"`
	Connector  string  `json:"connector"`
	RatePerKWh float64 `json:"rate_per_kwh"`
}

func (req ruleRequest) validate() (models.PricingRule, error) {
	switch req.TargetType {
	case models.TargetAccount, models.TargetGroup:
		if req.TargetID == "" {
			return models.PricingRule{}, errors.New("target_id required")
		}
	case models.TargetDefault:
		req.TargetID = "Default"
	default:
		return models.PricingRule{}, errors.New("target_type must be ACCOUNT, GROUP or DEFAULT")
	}
	if req.Connector == "" {
		return models.PricingRule{}, errors.New("connector required")
	}
	if req.RatePerKWh <= 0 {
		return models.PricingRule{}, errors.New("rate_per_kwh must be positive")
	}
	return models.PricingRule{
		ID:         req.ID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Connector:  req.Connector,
		RatePerKWh: req.RatePerKWh,
	}, nil
}

// ListRules handles GET /pricing/rules.
func (h *PricingHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.repo.ListRules(r.Context())
	if err != nil {
		h.logger.Error("failed to list pricing rules", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list pricing rules")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rules": rules})
}

// CreateRule handles POST /pricing/rules.
func (h *PricingHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	rule, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}

	if err := h.repo.CreateRule(r.Context(), &rule); err != nil {
		h.logger.Error("failed to create pricing rule", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create pricing rule")
		return
	}
	h.provider.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, rule)
}

// UpdateRule handles PUT /pricing/rules.
func (h *PricingHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	rule, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rule.ID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	if err := h.repo.UpdateRule(r.Context(), rule); err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			writeError(w, http.StatusNotFound, "pricing rule not found")
			return
		}
		h.logger.Error("failed to update pricing rule", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update pricing rule")
		return
	}
	h.provider.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, rule)
}

// DeleteRule handles DELETE /pricing/rules?id=.
func (h *PricingHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	if err := h.repo.DeleteRule(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrRuleNotFound) {
			writeError(w, http.StatusNotFound, "pricing rule not found")
			return
		}
		h.logger.Error("failed to delete pricing rule", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete pricing rule")
		return
	}
	h.provider.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

type groupRequest struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// ListGroups handles GET /pricing/groups.
func (h *PricingHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.repo.ListGroups(r.Context())
	if err != nil {
		h.logger.Error("failed to list account groups", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list account groups")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// CreateGroup handles POST /pricing/groups.
func (h *PricingHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	group := models.AccountGroup{ID: req.ID, Name: req.Name, Members: req.Members}
	if group.ID == "" {
		group.ID = uuid.NewString()
	}

	if err := h.repo.CreateGroup(r.Context(), &group); err != nil {
		h.logger.Error("failed to create account group", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create account group")
		return
	}
	h.provider.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, group)
}

// UpdateGroup handles PUT /pricing/groups.
func (h *PricingHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	group := models.AccountGroup{ID: req.ID, Name: req.Name, Members: req.Members}
	if err := h.repo.UpdateGroup(r.Context(), group); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			writeError(w, http.StatusNotFound, "account group not found")
			return
		}
		h.logger.Error("failed to update account group", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update account group")
		return
	}
	h.provider.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, group)
}

// DeleteGroup handles DELETE /pricing/groups?id=.
func (h *PricingHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	if err := h.repo.DeleteGroup(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			writeError(w, http.StatusNotFound, "account group not found")
			return
		}
		h.logger.Error("failed to delete account group", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete account group")
		return
	}
	h.provider.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
