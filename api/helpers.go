package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/aiktc/portal/internal/campus"
	"github.com/aiktc/portal/internal/session"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeDomainError maps the domain error taxonomy to HTTP statuses. Unknown
// errors become 500 without leaking detail.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campus.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, campus.ErrRoleViolation):
		http.Error(w, "role not permitted", http.StatusForbidden)
	case errors.Is(err, campus.ErrNotCourseOwner):
		http.Error(w, "not the course owner", http.StatusForbidden)
	case errors.Is(err, campus.ErrNotEnrolled):
		http.Error(w, "not enrolled in course", http.StatusForbidden)
	case errors.Is(err, campus.ErrDuplicateEnrollment):
		http.Error(w, "already enrolled", http.StatusConflict)
	case errors.Is(err, campus.ErrDuplicateAttendance):
		http.Error(w, "attendance already marked for that day", http.StatusConflict)
	case errors.Is(err, campus.ErrInvalidRating):
		http.Error(w, "rating must be between 1 and 5", http.StatusBadRequest)
	case errors.Is(err, session.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, session.ErrEmailTaken):
		http.Error(w, "email already registered", http.StatusConflict)
	default:
		logger.Error("request failed", slog.Any("err", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
