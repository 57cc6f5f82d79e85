package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/domain"
	"github.com/vietnoy/pantry/internal/model"
	"github.com/vietnoy/pantry/internal/store"
	"github.com/vietnoy/pantry/internal/websocket"
)

type MealPlanHandler struct {
	plans *store.MealPlanStore
	foods *store.FoodStore
	units *store.UnitStore
	hub   *websocket.Hub
}

func NewMealPlanHandler(ps *store.MealPlanStore, foods *store.FoodStore, us *store.UnitStore, hub *websocket.Hub) *MealPlanHandler {
	return &MealPlanHandler{plans: ps, foods: foods, units: us, hub: hub}
}

func (h *MealPlanHandler) broadcast(groupID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(groupID, msg)
	}
}

type mealPlanRequest struct {
	FoodID      int64            `json:"food_id"`
	MealType    string           `json:"meal_type"`
	MealDate    string           `json:"meal_date"`
	ServingSize *decimal.Decimal `json:"serving_size"`
	UnitID      *int64           `json:"unit_id"`
	Note        *string          `json:"note"`
}

func (h *MealPlanHandler) validate(groupID int64, req mealPlanRequest) (store.MealPlanInput, *domain.Error, error) {
	in := store.MealPlanInput{
		FoodID:      req.FoodID,
		MealDate:    req.MealDate,
		ServingSize: req.ServingSize,
		UnitID:      req.UnitID,
		Note:        req.Note,
	}

	mealType, derr := domain.ParseMealType(req.MealType)
	if derr != nil {
		return in, derr, nil
	}
	in.MealType = string(mealType)

	if _, err := time.Parse("2006-01-02", req.MealDate); err != nil {
		return in, domain.Invalid("meal_date must be YYYY-MM-DD"), nil
	}
	if req.ServingSize != nil && req.ServingSize.Sign() <= 0 {
		return in, domain.Invalid("serving_size must be positive"), nil
	}

	food, err := h.foods.GetByID(req.FoodID)
	if err != nil {
		return in, nil, err
	}
	if derr := domain.CheckOwnership(food, groupID, "food"); derr != nil {
		return in, derr, nil
	}
	if req.UnitID != nil {
		u, err := h.units.GetByID(*req.UnitID)
		if err != nil {
			return in, nil, err
		}
		if u == nil {
			return in, domain.Invalid("unit not found"), nil
		}
	}
	return in, nil, nil
}

func (h *MealPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	var req mealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.validate(ac.GroupID, req)
	if err != nil {
		writeError(w, err, "failed to validate meal plan")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	plan, err := h.plans.Create(ac.GroupID, ac.UserID, in)
	if err != nil {
		writeError(w, err, "failed to create meal plan")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("meal_plan", "created", plan.ID))
	writeJSON(w, http.StatusCreated, plan)
}

func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	filter := store.MealPlanFilter{
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
		MealType: r.URL.Query().Get("meal_type"),
	}
	for _, d := range []string{filter.DateFrom, filter.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dates must be YYYY-MM-DD"})
			return
		}
	}
	if filter.MealType != "" {
		if _, derr := domain.ParseMealType(filter.MealType); derr != nil {
			writeDomainError(w, derr)
			return
		}
	}

	plans, err := h.plans.ListByGroup(ac.GroupID, filter)
	if err != nil {
		writeError(w, err, "failed to list meal plans")
		return
	}
	if plans == nil {
		plans = []model.MealPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// ownedPlan loads the plan and checks it belongs to the caller's group.
func (h *MealPlanHandler) ownedPlan(w http.ResponseWriter, r *http.Request, groupID int64) *model.MealPlan {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil
	}
	plan, err := h.plans.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get meal plan")
		return nil
	}
	if derr := domain.CheckOwnership(plan, groupID, "meal plan"); derr != nil {
		writeDomainError(w, derr)
		return nil
	}
	return plan
}

func (h *MealPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	plan := h.ownedPlan(w, r, ac.GroupID)
	if plan == nil {
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *MealPlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	existing := h.ownedPlan(w, r, ac.GroupID)
	if existing == nil {
		return
	}

	var req mealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.validate(ac.GroupID, req)
	if err != nil {
		writeError(w, err, "failed to validate meal plan")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	plan, err := h.plans.Update(existing.ID, in)
	if err != nil {
		writeError(w, err, "failed to update meal plan")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("meal_plan", "updated", plan.ID))
	writeJSON(w, http.StatusOK, plan)
}

type mealPreparedRequest struct {
	IsPrepared bool `json:"is_prepared"`
}

func (h *MealPlanHandler) SetPrepared(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	existing := h.ownedPlan(w, r, ac.GroupID)
	if existing == nil {
		return
	}

	var req mealPreparedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	plan, err := h.plans.SetPrepared(existing.ID, req.IsPrepared)
	if err != nil {
		writeError(w, err, "failed to update meal plan")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("meal_plan", "updated", plan.ID))
	writeJSON(w, http.StatusOK, plan)
}

func (h *MealPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	existing := h.ownedPlan(w, r, ac.GroupID)
	if existing == nil {
		return
	}

	if err := h.plans.Delete(existing.ID); err != nil {
		writeError(w, err, "failed to delete meal plan")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("meal_plan", "deleted", existing.ID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
