package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/storage"
	"github.com/vietnoy/pantry/internal/store"
)

type UserHandler struct {
	users    *store.UserStore
	uploader *storage.Uploader
}

func NewUserHandler(us *store.UserStore, uploader *storage.Uploader) *UserHandler {
	return &UserHandler{users: us, uploader: uploader}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, err, "failed to load profile")
		return
	}
	if u == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type updateProfileRequest struct {
	Name        *string `json:"name"`
	Username    *string `json:"username"`
	Language    *string `json:"language"`
	Gender      *string `json:"gender"`
	CountryCode *string `json:"country_code"`
	Timezone    *int    `json:"timezone"`
	BirthDate   *string `json:"birth_date"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Name != nil && *req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name cannot be empty"})
		return
	}

	if req.Username != nil {
		taken, err := h.users.GetByUsername(*req.Username)
		if err != nil {
			writeError(w, err, "failed to check username")
			return
		}
		if taken != nil && taken.ID != auth.UserID(r.Context()) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "username is already taken"})
			return
		}
	}

	u, err := h.users.UpdateProfile(auth.UserID(r.Context()), store.ProfileUpdate{
		Name:        req.Name,
		Username:    req.Username,
		Language:    req.Language,
		Gender:      req.Gender,
		CountryCode: req.CountryCode,
		Timezone:    req.Timezone,
		BirthDate:   req.BirthDate,
	})
	if err != nil {
		writeError(w, err, "failed to update profile")
		return
	}
	if u == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.NewPassword) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
		return
	}

	u, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, err, "failed to load user")
		return
	}
	if u == nil || !auth.VerifyPassword(req.CurrentPassword, u.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "current password is incorrect"})
		return
	}
	if req.NewPassword == req.CurrentPassword {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "new password must differ from the current one"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err, "failed to hash password")
		return
	}
	if err := h.users.UpdatePassword(u.ID, hash); err != nil {
		writeError(w, err, "failed to update password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// UploadAvatar replaces the profile photo. The previous object is removed
// once the new upload has landed.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, err, "failed to load user")
		return
	}
	if u == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	url, derr := uploadImage(r, h.uploader, "avatars")
	if derr != nil {
		writeDomainError(w, derr)
		return
	}

	if u.PhotoURL != nil {
		// An orphaned object is not worth failing the upload over.
		_ = h.uploader.Delete(r.Context(), *u.PhotoURL)
	}

	if err := h.users.UpdatePhotoURL(u.ID, url); err != nil {
		writeError(w, err, "failed to save photo url")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"photo_url": url})
}
