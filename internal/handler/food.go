package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/domain"
	"github.com/vietnoy/pantry/internal/model"
	"github.com/vietnoy/pantry/internal/storage"
	"github.com/vietnoy/pantry/internal/store"
	"github.com/vietnoy/pantry/internal/websocket"
)

type FoodHandler struct {
	foods      *store.FoodStore
	categories *store.CategoryStore
	units      *store.UnitStore
	uploader   *storage.Uploader
	hub        *websocket.Hub
}

func NewFoodHandler(fs *store.FoodStore, cs *store.CategoryStore, us *store.UnitStore, uploader *storage.Uploader, hub *websocket.Hub) *FoodHandler {
	return &FoodHandler{foods: fs, categories: cs, units: us, uploader: uploader, hub: hub}
}

func (h *FoodHandler) broadcast(groupID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(groupID, msg)
	}
}

type foodRequest struct {
	Name                 string  `json:"name"`
	Description          *string `json:"description"`
	CategoryID           *int64  `json:"category_id"`
	UnitID               *int64  `json:"unit_id"`
	Brand                *string `json:"brand"`
	DefaultShelfLifeDays *int    `json:"default_shelf_life_days"`
	StorageInstructions  *string `json:"storage_instructions"`
}

// resolve checks the referenced category and unit exist and returns their
// names for the denormalized columns.
func (h *FoodHandler) resolve(req foodRequest) (in store.FoodInput, derr *domain.Error, err error) {
	in = store.FoodInput{
		Name:                 strings.TrimSpace(req.Name),
		Description:          req.Description,
		CategoryID:           req.CategoryID,
		UnitID:               req.UnitID,
		Brand:                req.Brand,
		DefaultShelfLifeDays: req.DefaultShelfLifeDays,
		StorageInstructions:  req.StorageInstructions,
	}
	if in.Name == "" {
		return in, domain.Invalid("name is required"), nil
	}
	if req.DefaultShelfLifeDays != nil && *req.DefaultShelfLifeDays < 0 {
		return in, domain.Invalid("default_shelf_life_days cannot be negative"), nil
	}

	if req.CategoryID != nil {
		c, err := h.categories.GetByID(*req.CategoryID)
		if err != nil {
			return in, nil, err
		}
		if c == nil {
			return in, domain.Invalid("category not found"), nil
		}
		in.CategoryName = &c.Name
	}
	if req.UnitID != nil {
		u, err := h.units.GetByID(*req.UnitID)
		if err != nil {
			return in, nil, err
		}
		if u == nil {
			return in, domain.Invalid("unit not found"), nil
		}
		in.UnitName = &u.Name
	}
	return in, nil, nil
}

func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.resolve(req)
	if err != nil {
		writeError(w, err, "failed to resolve references")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	dup, err := h.foods.GetActiveByName(ac.GroupID, in.Name)
	if err != nil {
		writeError(w, err, "failed to check food name")
		return
	}
	if dup != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a food with this name already exists in the group"})
		return
	}

	f, err := h.foods.Create(ac.GroupID, ac.UserID, in)
	if err != nil {
		writeError(w, err, "failed to create food")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("food", "created", f.ID))
	writeJSON(w, http.StatusCreated, f)
}

func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	filter := store.FoodFilter{Search: strings.TrimSpace(r.URL.Query().Get("search"))}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		filter.CategoryID = &id
	}

	foods, err := h.foods.ListByGroup(ac.GroupID, filter)
	if err != nil {
		writeError(w, err, "failed to list foods")
		return
	}
	if foods == nil {
		foods = []model.Food{}
	}
	writeJSON(w, http.StatusOK, foods)
}

func (h *FoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	f, err := h.foods.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get food")
		return
	}
	if derr := domain.CheckOwnership(f, ac.GroupID, "food"); derr != nil {
		writeDomainError(w, derr)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.foods.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get food")
		return
	}
	if derr := domain.CheckOwnership(existing, ac.GroupID, "food"); derr != nil {
		writeDomainError(w, derr)
		return
	}

	var req foodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.resolve(req)
	if err != nil {
		writeError(w, err, "failed to resolve references")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	if in.Name != existing.Name {
		dup, err := h.foods.GetActiveByName(ac.GroupID, in.Name)
		if err != nil {
			writeError(w, err, "failed to check food name")
			return
		}
		if dup != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a food with this name already exists in the group"})
			return
		}
	}
	in.ImageURL = existing.ImageURL

	f, err := h.foods.Update(id, in)
	if err != nil {
		writeError(w, err, "failed to update food")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("food", "updated", f.ID))
	writeJSON(w, http.StatusOK, f)
}

func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.foods.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get food")
		return
	}
	if derr := domain.CheckOwnership(existing, ac.GroupID, "food"); derr != nil {
		writeDomainError(w, derr)
		return
	}

	if err := h.foods.SoftDelete(id); err != nil {
		writeError(w, err, "failed to delete food")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("food", "deleted", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UploadImage replaces the food's image; the old object is deleted after a
// successful upload.
func (h *FoodHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.foods.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get food")
		return
	}
	if derr := domain.CheckOwnership(existing, ac.GroupID, "food"); derr != nil {
		writeDomainError(w, derr)
		return
	}

	url, derr := uploadImage(r, h.uploader, "foods")
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	if existing.ImageURL != nil {
		_ = h.uploader.Delete(r.Context(), *existing.ImageURL)
	}
	if err := h.foods.UpdateImageURL(id, url); err != nil {
		writeError(w, err, "failed to save image url")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("food", "updated", id))
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}
