package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vietnoy/pantry/internal/domain"
	"github.com/vietnoy/pantry/internal/model"
	"github.com/vietnoy/pantry/internal/store"
)

type UnitHandler struct {
	units *store.UnitStore
}

func NewUnitHandler(us *store.UnitStore) *UnitHandler {
	return &UnitHandler{units: us}
}

type unitRequest struct {
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	BaseUnitID       *int64           `json:"base_unit_id"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
}

func (h *UnitHandler) validate(req *unitRequest) *domain.Error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Invalid("name is required")
	}
	if _, derr := domain.ParseUnitKind(req.Type); derr != nil {
		return derr
	}
	return domain.CheckUnitConversion(req.BaseUnitID, req.ConversionFactor)
}

func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if derr := h.validate(&req); derr != nil {
		writeDomainError(w, derr)
		return
	}

	if req.BaseUnitID != nil {
		base, err := h.units.GetByID(*req.BaseUnitID)
		if err != nil {
			writeError(w, err, "failed to check base unit")
			return
		}
		if base == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "base unit not found"})
			return
		}
	}

	existing, err := h.units.GetByName(req.Name)
	if err != nil {
		writeError(w, err, "failed to check unit")
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "unit already exists"})
		return
	}

	u, err := h.units.Create(req.Name, req.Type, req.BaseUnitID, req.ConversionFactor)
	if err != nil {
		writeError(w, err, "failed to create unit")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UnitHandler) List(w http.ResponseWriter, r *http.Request) {
	units, err := h.units.List()
	if err != nil {
		writeError(w, err, "failed to list units")
		return
	}
	if units == nil {
		units = []model.Unit{}
	}
	writeJSON(w, http.StatusOK, units)
}

func (h *UnitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.units.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get unit")
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unit not found"})
		return
	}

	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if derr := h.validate(&req); derr != nil {
		writeDomainError(w, derr)
		return
	}
	if req.BaseUnitID != nil && *req.BaseUnitID == id {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit cannot be its own base"})
		return
	}

	u, err := h.units.Update(id, req.Name, req.Type, req.BaseUnitID, req.ConversionFactor)
	if err != nil {
		writeError(w, err, "failed to update unit")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.units.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get unit")
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unit not found"})
		return
	}

	hasDeps, err := h.units.HasDependents(id)
	if err != nil {
		writeError(w, err, "failed to check dependent units")
		return
	}
	if hasDeps {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "other units derive from this unit"})
		return
	}

	inUse, err := h.units.InUse(id)
	if err != nil {
		writeError(w, err, "failed to check unit usage")
		return
	}
	if inUse {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit is still referenced by foods"})
		return
	}

	if err := h.units.Delete(id); err != nil {
		writeError(w, err, "failed to delete unit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
