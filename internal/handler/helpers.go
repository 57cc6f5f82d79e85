package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vietnoy/pantry/internal/domain"
)

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func parsePathInt(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindNotAuthenticated:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAccessDenied:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalid, domain.KindBusinessRule:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeDomainError(w http.ResponseWriter, derr *domain.Error) {
	writeJSON(w, statusForKind(derr.Kind), map[string]string{"error": derr.Msg})
}

// writeError translates a failure for the client: domain errors carry their
// own status and message, anything else is an opaque 500 described by msg.
func writeError(w http.ResponseWriter, err error, msg string) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		writeDomainError(w, derr)
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
}
