package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vietnoy/pantry/internal/model"
	"github.com/vietnoy/pantry/internal/store"
)

type CategoryHandler struct {
	categories *store.CategoryStore
}

func NewCategoryHandler(cs *store.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categories: cs}
}

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	existing, err := h.categories.GetByName(req.Name)
	if err != nil {
		writeError(w, err, "failed to check category")
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "category already exists"})
		return
	}

	c, err := h.categories.Create(req.Name, req.Description)
	if err != nil {
		writeError(w, err, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List()
	if err != nil {
		writeError(w, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.categories.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get category")
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	c, err := h.categories.Update(id, req.Name, req.Description)
	if err != nil {
		writeError(w, err, "failed to update category")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.categories.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get category")
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
		return
	}

	inUse, err := h.categories.InUse(id)
	if err != nil {
		writeError(w, err, "failed to check category usage")
		return
	}
	if inUse {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category is still referenced by foods"})
		return
	}

	if err := h.categories.Delete(id); err != nil {
		writeError(w, err, "failed to delete category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
