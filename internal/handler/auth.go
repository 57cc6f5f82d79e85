package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/mailer"
	"github.com/vietnoy/pantry/internal/model"
	"github.com/vietnoy/pantry/internal/store"
)

const (
	purposeRegister = "register"
	purposeReset    = "reset"
)

type AuthHandler struct {
	users  *store.UserStore
	codes  *store.VerificationStore
	tokens *auth.TokenIssuer
	mail   *mailer.Mailer
	logger *slog.Logger
}

func NewAuthHandler(us *store.UserStore, vs *store.VerificationStore, ti *auth.TokenIssuer, m *mailer.Mailer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: us, codes: vs, tokens: ti, mail: m, logger: logger.With("component", "auth")}
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Username *string `json:"username"`
	Language string  `json:"language"`
	Timezone int     `json:"timezone"`
	DeviceID *string `json:"device_id"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a valid email is required"})
		return
	}
	if len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	existing, err := h.users.GetByEmail(req.Email)
	if err != nil {
		writeError(w, err, "failed to check email")
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email is already registered"})
		return
	}
	if req.Username != nil {
		taken, err := h.users.GetByUsername(*req.Username)
		if err != nil {
			writeError(w, err, "failed to check username")
			return
		}
		if taken != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "username is already taken"})
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err, "failed to hash password")
		return
	}

	u, err := h.users.Create(store.NewUser{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Username:     req.Username,
		Language:     req.Language,
		Timezone:     req.Timezone,
		DeviceID:     req.DeviceID,
	})
	if err != nil {
		writeError(w, err, "failed to create user")
		return
	}

	code, err := h.codes.Issue(u.Email, purposeRegister)
	if err != nil {
		// The account exists; a new code can be requested later.
		h.logger.Error("issue verification code", "email", u.Email, "error", err)
	} else {
		h.mail.SendVerificationCode(u.Email, u.Name, code)
	}

	pair, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		writeError(w, err, "failed to issue tokens")
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{
		User:         u,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

type registerResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.codes.Verify(req.Email, purposeRegister, req.Code); err != nil {
		writeError(w, err, "failed to verify code")
		return
	}
	if err := h.users.MarkVerified(req.Email); err != nil {
		writeError(w, err, "failed to mark verified")
		return
	}

	if u, err := h.users.GetByEmail(req.Email); err == nil && u != nil {
		h.mail.SendWelcome(u.Email, u.Name)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

type resendCodeRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req resendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Same response whether or not the account exists.
	if u, err := h.users.GetByEmail(req.Email); err == nil && u != nil && !u.IsVerified {
		if code, err := h.codes.Issue(u.Email, purposeRegister); err == nil {
			h.mail.SendVerificationCode(u.Email, u.Name, code)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "code sent if the account exists"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	u, err := h.lookupForLogin(req)
	if err != nil {
		writeError(w, err, "failed to look up user")
		return
	}
	if u == nil || !auth.VerifyPassword(req.Password, u.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect email or password"})
		return
	}
	if !u.IsActivated {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "account is deactivated"})
		return
	}

	pair, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		writeError(w, err, "failed to issue tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *AuthHandler) lookupForLogin(req loginRequest) (*model.User, error) {
	if req.Email != "" {
		return h.users.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	}
	if req.Username != "" {
		return h.users.GetByUsername(strings.TrimSpace(req.Username))
	}
	return nil, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	userID, err := h.tokens.Verify(req.RefreshToken, auth.TokenRefresh)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		return
	}
	u, err := h.users.GetByID(userID)
	if err != nil {
		writeError(w, err, "failed to load user")
		return
	}
	if u == nil || !u.IsActivated {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "account not available"})
		return
	}

	pair, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		writeError(w, err, "failed to issue tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req resendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Same response whether or not the account exists.
	if u, err := h.users.GetByEmail(req.Email); err == nil && u != nil {
		if code, err := h.codes.Issue(u.Email, purposeReset); err == nil {
			h.mail.SendVerificationCode(u.Email, u.Name, code)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "code sent if the account exists"})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.NewPassword) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
		return
	}

	if err := h.codes.Verify(req.Email, purposeReset, req.Code); err != nil {
		writeError(w, err, "failed to verify code")
		return
	}

	u, err := h.users.GetByEmail(req.Email)
	if err != nil {
		writeError(w, err, "failed to load user")
		return
	}
	if u == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
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
