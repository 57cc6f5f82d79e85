package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/domain"
	"github.com/vietnoy/pantry/internal/model"
	"github.com/vietnoy/pantry/internal/store"
	"github.com/vietnoy/pantry/internal/websocket"
)

type GroupHandler struct {
	groups *store.GroupStore
	hub    *websocket.Hub
}

func NewGroupHandler(gs *store.GroupStore, hub *websocket.Hub) *GroupHandler {
	return &GroupHandler{groups: gs, hub: hub}
}

func (h *GroupHandler) broadcast(groupID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(groupID, msg)
	}
}

type groupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	existing, err := h.groups.GetOwnedByName(auth.UserID(r.Context()), req.Name)
	if err != nil {
		writeError(w, err, "failed to check group name")
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "you already own a group with this name"})
		return
	}

	g, err := h.groups.Create(req.Name, req.Description, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, err, "failed to create group")
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GroupHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListForUser(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, err, "failed to list groups")
		return
	}
	if groups == nil {
		groups = []model.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

type groupDetail struct {
	*model.Group
	Members []store.Member `json:"members"`
}

// Current returns the caller's active group with its member roster.
func (h *GroupHandler) Current(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	g, err := h.groups.GetByID(ac.GroupID)
	if err != nil {
		writeError(w, err, "failed to load group")
		return
	}
	if g == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "group not found"})
		return
	}
	members, err := h.groups.ListMembers(g.ID)
	if err != nil {
		writeError(w, err, "failed to list members")
		return
	}
	writeJSON(w, http.StatusOK, groupDetail{Group: g, Members: members})
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}
	if ac.Role != domain.RoleOwner && ac.Role != domain.RoleAdmin {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "only owners and admins can update the group"})
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	g, err := h.groups.Update(ac.GroupID, req.Name, req.Description)
	if err != nil {
		writeError(w, err, "failed to update group")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("group", "updated", ac.GroupID))
	writeJSON(w, http.StatusOK, g)
}

type joinRequest struct {
	InviteCode string `json:"invite_code"`
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.InviteCode = strings.TrimSpace(req.InviteCode)
	if req.InviteCode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invite_code is required"})
		return
	}

	g, err := h.groups.JoinByInviteCode(req.InviteCode, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, err, "failed to join group")
		return
	}
	h.broadcast(g.ID, websocket.NewMessage("member", "joined", auth.UserID(r.Context())))
	writeJSON(w, http.StatusOK, g)
}

func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}
	members, err := h.groups.ListMembers(ac.GroupID)
	if err != nil {
		writeError(w, err, "failed to list members")
		return
	}
	if members == nil {
		members = []store.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

// RemoveMember enforces the role matrix: owners remove anyone, admins
// remove plain members, everyone but the owner may remove themselves.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	targetID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	target, err := h.groups.ActiveMembership(ac.GroupID, targetID)
	if err != nil {
		writeError(w, err, "failed to load membership")
		return
	}
	if target == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member not found in this group"})
		return
	}
	targetRole, derr := domain.ParseRole(target.Role)
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	if derr := domain.CheckRemoval(ac.Role, targetRole, targetID == ac.UserID); derr != nil {
		writeDomainError(w, derr)
		return
	}

	if err := h.groups.RemoveMember(ac.GroupID, targetID); err != nil {
		writeError(w, err, "failed to remove member")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("member", "removed", targetID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Leave is self-removal from the active group.
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	ac, derr := auth.RequireGroup(r.Context())
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	if derr := domain.CheckRemoval(ac.Role, ac.Role, true); derr != nil {
		writeDomainError(w, derr)
		return
	}

	if err := h.groups.RemoveMember(ac.GroupID, ac.UserID); err != nil {
		writeError(w, err, "failed to leave group")
		return
	}
	h.broadcast(ac.GroupID, websocket.NewMessage("member", "removed", ac.UserID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}
