package middleware

import (
	"net/http"
	"strings"

	"github.com/vietnoy/pantry/internal/auth"
	"github.com/vietnoy/pantry/internal/domain"
	"github.com/vietnoy/pantry/internal/store"
)

// RequireAuth validates the bearer access token and populates AuthContext.
// The active group and role are resolved per request from the user's
// active_group_id pointer, so a removed member loses access on their next
// call even with a live token.
func RequireAuth(tokens *auth.TokenIssuer, users *store.UserStore, groups *store.GroupStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, err := tokens.Verify(token, auth.TokenAccess)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			u, err := users.GetByID(userID)
			if err != nil || u == nil || !u.IsActivated {
				unauthorized(w, "account not available")
				return
			}

			ac := auth.AuthContext{UserID: u.ID}
			if u.ActiveGroupID != nil {
				m, err := groups.ActiveMembership(*u.ActiveGroupID, u.ID)
				if err != nil {
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				if m != nil {
					role, derr := domain.ParseRole(m.Role)
					if derr != nil {
						http.Error(w, "internal error", http.StatusInternalServerError)
						return
					}
					ac.GroupID = *u.ActiveGroupID
					ac.Role = role
					ac.HasGroup = true
				}
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
