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

type ShoppingHandler struct {
	shopping *store.ShoppingStore
	foods    *store.FoodStore
	groups   *store.GroupStore
	hub      *websocket.Hub
}

func NewShoppingHandler(ss *store.ShoppingStore, foods *store.FoodStore, gs *store.GroupStore, hub *websocket.Hub) *ShoppingHandler {
	return &ShoppingHandler{shopping: ss, foods: foods, groups: gs, hub: hub}
}

func (h *ShoppingHandler) broadcast(groupID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(groupID, msg)
	}
}

type shoppingListRequest struct {
	Name           string           `json:"name"`
	Description    *string          `json:"description"`
	AssignToUserID *int64           `json:"assign_to_user_id"`
	DueDate        *string          `json:"due_date"`
	Priority       *string          `json:"priority"`
	Status         *string          `json:"status"`
	Budget         *decimal.Decimal `json:"budget"`
	IsArchived     *bool            `json:"is_archived"`
}

func (h *ShoppingHandler) validateList(groupID int64, req shoppingListRequest) (store.ShoppingListInput, *domain.Error, error) {
	in := store.ShoppingListInput{
		Name:           req.Name,
		Description:    req.Description,
		AssignToUserID: req.AssignToUserID,
		DueDate:        req.DueDate,
		Priority:       string(domain.PriorityMedium),
		Budget:         req.Budget,
	}

	if req.Name == "" {
		return in, domain.Invalid("name is required"), nil
	}
	if req.Priority != nil {
		p, derr := domain.ParsePriority(*req.Priority)
		if derr != nil {
			return in, derr, nil
		}
		in.Priority = string(p)
	}
	if req.DueDate != nil {
		if _, err := time.Parse("2006-01-02", *req.DueDate); err != nil {
			return in, domain.Invalid("due_date must be YYYY-MM-DD"), nil
		}
	}
	if req.Budget != nil && req.Budget.Sign() < 0 {
		return in, domain.Invalid("budget cannot be negative"), nil
	}
	if req.AssignToUserID != nil {
		m, err := h.groups.ActiveMembership(groupID, *req.AssignToUserID)
		if err != nil {
			return in, nil, err
		}
		if m == nil {
			return in, domain.Invalid("assignee is not a member of this group"), nil
		}
	}
	return in, nil, nil
}

func (h *ShoppingHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	var req shoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.validateList(ac.GroupID, req)
	if err != nil {
		writeError(w, err, "failed to validate list")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	list, err := h.shopping.CreateList(ac.GroupID, ac.UserID, in)
	if err != nil {
		writeError(w, err, "failed to create shopping list")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("shopping_list", "created", list.ID))
	writeJSON(w, http.StatusCreated, list)
}

func (h *ShoppingHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	filter := store.ShoppingListFilter{
		Status:          r.URL.Query().Get("status"),
		IncludeArchived: r.URL.Query().Get("include_archived") == "true",
	}
	if filter.Status != "" {
		if _, derr := domain.ParseListStatus(filter.Status); derr != nil {
			writeDomainError(w, derr)
			return
		}
	}
	if r.URL.Query().Get("assigned_to_me") == "true" {
		uid := ac.UserID
		filter.AssignToUserID = &uid
	}

	lists, err := h.shopping.ListByGroup(ac.GroupID, filter)
	if err != nil {
		writeError(w, err, "failed to list shopping lists")
		return
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// ownedList loads the list and checks it belongs to the caller's group.
func (h *ShoppingHandler) ownedList(w http.ResponseWriter, r *http.Request, groupID int64) *model.ShoppingList {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil
	}
	list, err := h.shopping.GetList(id)
	if err != nil {
		writeError(w, err, "failed to get shopping list")
		return nil
	}
	if derr := domain.CheckOwnership(list, groupID, "shopping list"); derr != nil {
		writeDomainError(w, derr)
		return nil
	}
	return list
}

type shoppingListDetail struct {
	*model.ShoppingList
	Tasks []model.ShoppingTask `json:"tasks"`
}

func (h *ShoppingHandler) GetList(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	list := h.ownedList(w, r, ac.GroupID)
	if list == nil {
		return
	}

	tasks, err := h.shopping.ListTasks(list.ID)
	if err != nil {
		writeError(w, err, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.ShoppingTask{}
	}
	writeJSON(w, http.StatusOK, shoppingListDetail{ShoppingList: list, Tasks: tasks})
}

func (h *ShoppingHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	existing := h.ownedList(w, r, ac.GroupID)
	if existing == nil {
		return
	}

	var req shoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Name == "" {
		req.Name = existing.Name
	}
	if req.Priority == nil {
		req.Priority = &existing.Priority
	}

	in, derr, err := h.validateList(ac.GroupID, req)
	if err != nil {
		writeError(w, err, "failed to validate list")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	status := existing.Status
	if req.Status != nil {
		s, derr := domain.ParseListStatus(*req.Status)
		if derr != nil {
			writeDomainError(w, derr)
			return
		}
		status = string(s)
	}
	isArchived := existing.IsArchived
	if req.IsArchived != nil {
		isArchived = *req.IsArchived
	}

	list, err := h.shopping.UpdateList(existing.ID, in, status, isArchived)
	if err != nil {
		writeError(w, err, "failed to update shopping list")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("shopping_list", "updated", list.ID))
	writeJSON(w, http.StatusOK, list)
}

func (h *ShoppingHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	existing := h.ownedList(w, r, ac.GroupID)
	if existing == nil {
		return
	}

	if err := h.shopping.DeleteList(existing.ID); err != nil {
		writeError(w, err, "failed to delete shopping list")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("shopping_list", "deleted", existing.ID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type shoppingTaskRequest struct {
	FoodID        int64            `json:"food_id"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitID        *int64           `json:"unit_id"`
	Note          *string          `json:"note"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	ActualCost    *decimal.Decimal `json:"actual_cost"`
	Priority      *string          `json:"priority"`
}

func (h *ShoppingHandler) validateTask(groupID int64, req shoppingTaskRequest) (store.ShoppingTaskInput, *domain.Error, error) {
	in := store.ShoppingTaskInput{
		FoodID:        req.FoodID,
		Quantity:      req.Quantity,
		UnitID:        req.UnitID,
		Note:          req.Note,
		EstimatedCost: req.EstimatedCost,
		ActualCost:    req.ActualCost,
		Priority:      string(domain.PriorityMedium),
	}

	if req.Quantity.Sign() <= 0 {
		return in, domain.Invalid("quantity must be positive"), nil
	}
	if req.EstimatedCost != nil && req.EstimatedCost.Sign() < 0 {
		return in, domain.Invalid("estimated_cost cannot be negative"), nil
	}
	if req.ActualCost != nil && req.ActualCost.Sign() < 0 {
		return in, domain.Invalid("actual_cost cannot be negative"), nil
	}
	if req.Priority != nil {
		p, derr := domain.ParsePriority(*req.Priority)
		if derr != nil {
			return in, derr, nil
		}
		in.Priority = string(p)
	}

	food, err := h.foods.GetByID(req.FoodID)
	if err != nil {
		return in, nil, err
	}
	if derr := domain.CheckOwnership(food, groupID, "food"); derr != nil {
		return in, derr, nil
	}
	return in, nil, nil
}

func (h *ShoppingHandler) CreateTasks(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	list := h.ownedList(w, r, ac.GroupID)
	if list == nil {
		return
	}

	var reqs []shoppingTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(reqs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one task is required"})
		return
	}

	inputs := make([]store.ShoppingTaskInput, 0, len(reqs))
	for _, req := range reqs {
		in, derr, err := h.validateTask(ac.GroupID, req)
		if err != nil {
			writeError(w, err, "failed to validate task")
			return
		}
		if derr != nil {
			writeDomainError(w, derr)
			return
		}
		inputs = append(inputs, in)
	}

	tasks, err := h.shopping.CreateTasks(list.ID, inputs)
	if err != nil {
		writeError(w, err, "failed to create tasks")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("shopping_list", "updated", list.ID))
	writeJSON(w, http.StatusCreated, tasks)
}

// ownedTask loads the task from the {taskID} path segment and checks it
// belongs to the given list.
func (h *ShoppingHandler) ownedTask(w http.ResponseWriter, r *http.Request, listID int64) *model.ShoppingTask {
	taskID, err := parsePathInt(r, "taskID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task id"})
		return nil
	}
	task, err := h.shopping.GetTask(taskID)
	if err != nil {
		writeError(w, err, "failed to get task")
		return nil
	}
	if task == nil || task.ListID != listID {
		writeDomainError(w, domain.NotFound("task not found"))
		return nil
	}
	return task
}

func (h *ShoppingHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	list := h.ownedList(w, r, ac.GroupID)
	if list == nil {
		return
	}
	task := h.ownedTask(w, r, list.ID)
	if task == nil {
		return
	}

	var req shoppingTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	in, derr, err := h.validateTask(ac.GroupID, req)
	if err != nil {
		writeError(w, err, "failed to validate task")
		return
	}
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	updated, err := h.shopping.UpdateTask(task.ID, list.ID, in)
	if err != nil {
		writeError(w, err, "failed to update task")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("shopping_list", "updated", list.ID))
	writeJSON(w, http.StatusOK, updated)
}

type taskDoneRequest struct {
	IsDone     bool             `json:"is_done"`
	ActualCost *decimal.Decimal `json:"actual_cost"`
}

func (h *ShoppingHandler) SetTaskDone(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	list := h.ownedList(w, r, ac.GroupID)
	if list == nil {
		return
	}
	task := h.ownedTask(w, r, list.ID)
	if task == nil {
		return
	}

	var req taskDoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ActualCost != nil && req.ActualCost.Sign() < 0 {
		writeDomainError(w, domain.Invalid("actual_cost cannot be negative"))
		return
	}

	updated, err := h.shopping.SetTaskDone(task.ID, list.ID, req.IsDone, ac.UserID, req.ActualCost)
	if err != nil {
		writeError(w, err, "failed to update task")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("shopping_list", "updated", list.ID))
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShoppingHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	list := h.ownedList(w, r, ac.GroupID)
	if list == nil {
		return
	}
	task := h.ownedTask(w, r, list.ID)
	if task == nil {
		return
	}

	if err := h.shopping.DeleteTask(task.ID, list.ID); err != nil {
		writeError(w, err, "failed to delete task")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("shopping_list", "updated", list.ID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
