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

type FridgeHandler struct {
	fridge *store.FridgeStore
	foods  *store.FoodStore
	units  *store.UnitStore
	hub    *websocket.Hub
}

func NewFridgeHandler(fs *store.FridgeStore, foods *store.FoodStore, us *store.UnitStore, hub *websocket.Hub) *FridgeHandler {
	return &FridgeHandler{fridge: fs, foods: foods, units: us, hub: hub}
}

func (h *FridgeHandler) broadcast(groupID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(groupID, msg)
	}
}

type fridgeItemRequest struct {
	FoodID        int64            `json:"food_id"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitID        *int64           `json:"unit_id"`
	Note          *string          `json:"note"`
	PurchaseDate  *string          `json:"purchase_date"`
	UseWithinDate string           `json:"use_within_date"`
	Location      *string          `json:"location"`
	Cost          *decimal.Decimal `json:"cost"`
}

func (h *FridgeHandler) validate(groupID int64, req fridgeItemRequest) (store.FridgeItemInput, *domain.Error, error) {
	in := store.FridgeItemInput{
		FoodID:        req.FoodID,
		Quantity:      req.Quantity,
		UnitID:        req.UnitID,
		Note:          req.Note,
		PurchaseDate:  req.PurchaseDate,
		UseWithinDate: req.UseWithinDate,
		Location:      req.Location,
		Cost:          req.Cost,
	}

	if req.Quantity.Sign() <= 0 {
		return in, domain.Invalid("quantity must be positive"), nil
	}
	if req.Cost != nil && req.Cost.Sign() < 0 {
		return in, domain.Invalid("cost cannot be negative"), nil
	}
	if _, err := time.Parse("2006-01-02", req.UseWithinDate); err != nil {
		return in, domain.Invalid("use_within_date must be YYYY-MM-DD"), nil
	}
	if req.PurchaseDate != nil {
		if _, err := time.Parse("2006-01-02", *req.PurchaseDate); err != nil {
			return in, domain.Invalid("purchase_date must be YYYY-MM-DD"), nil
		}
	}
	if req.Location != nil {
		if _, derr := domain.ParseFridgeLocation(*req.Location); derr != nil {
			return in, derr, nil
		}
	}

	food, err := h.foods.GetByID(req.FoodID)
	if err != nil {
		return in, nil, err
	}
	if derr := domain.CheckOwnership(food, groupID, "food"); derr != nil {
		return in, derr, nil
	}
	if !food.IsActive {
		return in, domain.Invalid("food is no longer active"), nil
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

func (h *FridgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	var req fridgeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.validate(ac.GroupID, req)
	if err != nil {
		writeError(w, err, "failed to validate item")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	item, err := h.fridge.Create(ac.GroupID, ac.UserID, in)
	if err != nil {
		writeError(w, err, "failed to create fridge item")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("fridge_item", "created", item.ID))
	writeJSON(w, http.StatusCreated, item)
}

func (h *FridgeHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	filter := store.FridgeFilter{
		Location:      r.URL.Query().Get("location"),
		ExpiringUntil: r.URL.Query().Get("expiring_until"),
	}
	if filter.Location != "" {
		if _, derr := domain.ParseFridgeLocation(filter.Location); derr != nil {
			writeDomainError(w, derr)
			return
		}
	}
	if filter.ExpiringUntil != "" {
		if _, err := time.Parse("2006-01-02", filter.ExpiringUntil); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expiring_until must be YYYY-MM-DD"})
			return
		}
	}

	items, err := h.fridge.ListByGroup(ac.GroupID, filter)
	if err != nil {
		writeError(w, err, "failed to list fridge items")
		return
	}
	if items == nil {
		items = []model.FridgeItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *FridgeHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	item, err := h.fridge.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get fridge item")
		return
	}
	if derr := domain.CheckOwnership(item, ac.GroupID, "fridge item"); derr != nil {
		writeDomainError(w, derr)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *FridgeHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	existing, err := h.fridge.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get fridge item")
		return
	}
	if derr := domain.CheckOwnership(existing, ac.GroupID, "fridge item"); derr != nil {
		writeDomainError(w, derr)
		return
	}

	var req fridgeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.validate(ac.GroupID, req)
	if err != nil {
		writeError(w, err, "failed to validate item")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	item, err := h.fridge.Update(id, in)
	if err != nil {
		writeError(w, err, "failed to update fridge item")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("fridge_item", "updated", item.ID))
	writeJSON(w, http.StatusOK, item)
}

func (h *FridgeHandler) MarkOpened(w http.ResponseWriter, r *http.Request) {
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

	existing, err := h.fridge.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get fridge item")
		return
	}
	if derr := domain.CheckOwnership(existing, ac.GroupID, "fridge item"); derr != nil {
		writeDomainError(w, derr)
		return
	}

	item, err := h.fridge.MarkOpened(id)
	if err != nil {
		writeError(w, err, "failed to mark item opened")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("fridge_item", "updated", item.ID))
	writeJSON(w, http.StatusOK, item)
}

func (h *FridgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	existing, err := h.fridge.GetByID(id)
	if err != nil {
		writeError(w, err, "failed to get fridge item")
		return
	}
	if derr := domain.CheckOwnership(existing, ac.GroupID, "fridge item"); derr != nil {
		writeDomainError(w, derr)
		return
	}

	if err := h.fridge.Delete(id); err != nil {
		writeError(w, err, "failed to delete fridge item")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("fridge_item", "deleted", id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
