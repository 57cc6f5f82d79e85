package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/domain"
	"github.com/vietnoy/pantry/internal/model"
	"github.com/vietnoy/pantry/internal/storage"
	"github.com/vietnoy/pantry/internal/store"
	"github.com/vietnoy/pantry/internal/websocket"
)

type RecipeHandler struct {
	recipes  *store.RecipeStore
	foods    *store.FoodStore
	uploader *storage.Uploader
	hub      *websocket.Hub
}

func NewRecipeHandler(rs *store.RecipeStore, foods *store.FoodStore, uploader *storage.Uploader, hub *websocket.Hub) *RecipeHandler {
	return &RecipeHandler{recipes: rs, foods: foods, uploader: uploader, hub: hub}
}

func (h *RecipeHandler) broadcast(groupID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(groupID, msg)
	}
}

type recipeRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	HTMLContent     string  `json:"html_content"`
	FoodID          *int64  `json:"food_id"`
	PrepTimeMinutes *int    `json:"prep_time_minutes"`
	CookTimeMinutes *int    `json:"cook_time_minutes"`
	Servings        *int    `json:"servings"`
	Difficulty      *string `json:"difficulty"`
	IsPublic        bool    `json:"is_public"`
}

func (h *RecipeHandler) validate(groupID int64, req recipeRequest) (store.RecipeInput, *domain.Error, error) {
	in := store.RecipeInput{
		Name:            req.Name,
		Description:     req.Description,
		HTMLContent:     req.HTMLContent,
		FoodID:          req.FoodID,
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Servings:        req.Servings,
		IsPublic:        req.IsPublic,
	}

	if req.Name == "" {
		return in, domain.Invalid("name is required"), nil
	}
	for _, v := range []*int{req.PrepTimeMinutes, req.CookTimeMinutes, req.Servings} {
		if v != nil && *v < 0 {
			return in, domain.Invalid("times and servings cannot be negative"), nil
		}
	}
	if req.Difficulty != nil {
		d, derr := domain.ParseDifficulty(*req.Difficulty)
		if derr != nil {
			return in, derr, nil
		}
		s := string(d)
		in.Difficulty = &s
	}
	if req.FoodID != nil {
		food, err := h.foods.GetByID(*req.FoodID)
		if err != nil {
			return in, nil, err
		}
		// A food link outside the group is dropped rather than rejected.
		if food == nil || food.GroupID != groupID {
			in.FoodID = nil
		}
	}
	return in, nil, nil
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.validate(ac.GroupID, req)
	if err != nil {
		writeError(w, err, "failed to validate recipe")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	recipe, err := h.recipes.Create(ac.GroupID, ac.UserID, in)
	if err != nil {
		writeError(w, err, "failed to create recipe")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("recipe", "created", recipe.ID))
	writeJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	filter := store.RecipeFilter{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("food_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid food_id"})
			return
		}
		filter.FoodID = &id
	}

	recipes, err := h.recipes.ListVisible(ac.GroupID, filter)
	if err != nil {
		writeError(w, err, "failed to list recipes")
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	recipe, err := h.recipes.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get recipe")
		return
	}
	// Public recipes are readable across groups; private ones are not.
	if recipe != nil && recipe.IsPublic {
		writeJSON(w, http.StatusOK, recipe)
		return
	}
	if derr := domain.CheckOwnership(recipe, ac.GroupID, "recipe"); derr != nil {
		writeDomainError(w, derr)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// ownedRecipe loads the recipe and checks the caller's group owns it.
// Public visibility grants reads only, never mutations.
func (h *RecipeHandler) ownedRecipe(w http.ResponseWriter, r *http.Request, groupID int64) *model.Recipe {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil
	}
	recipe, err := h.recipes.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get recipe")
		return nil
	}
	if derr := domain.CheckOwnership(recipe, groupID, "recipe"); derr != nil {
		writeDomainError(w, derr)
		return nil
	}
	return recipe
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	existing := h.ownedRecipe(w, r, ac.GroupID)
	if existing == nil {
		return
	}

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.validate(ac.GroupID, req)
	if err != nil {
		writeError(w, err, "failed to validate recipe")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}
	in.ImageURL = existing.ImageURL

	recipe, err := h.recipes.Update(existing.ID, in)
	if err != nil {
		writeError(w, err, "failed to update recipe")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("recipe", "updated", recipe.ID))
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	existing := h.ownedRecipe(w, r, ac.GroupID)
	if existing == nil {
		return
	}

	if err := h.recipes.Delete(existing.ID); err != nil {
		writeError(w, err, "failed to delete recipe")
		return
	}
	if existing.ImageURL != nil {
		_ = h.uploader.Delete(r.Context(), *existing.ImageURL)
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("recipe", "deleted", existing.ID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	existing := h.ownedRecipe(w, r, ac.GroupID)
	if existing == nil {
		return
	}

	url, derr := uploadImage(r, h.uploader, "recipes")
	if derr != nil {
		writeDomainError(w, derr)
		return
	}
	if existing.ImageURL != nil {
		// An orphaned object is not worth failing the upload over.
		_ = h.uploader.Delete(r.Context(), *existing.ImageURL)
	}

	if err := h.recipes.UpdateImageURL(existing.ID, url); err != nil {
		writeError(w, err, "failed to save image")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("recipe", "updated", existing.ID))
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}
