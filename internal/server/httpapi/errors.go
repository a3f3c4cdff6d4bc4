package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lumenfest/lumen/internal/common"
	"github.com/lumenfest/lumen/internal/protocol"
)

// httpError maps a sentinel error onto a status code and a machine-readable
// error code for the JSON body.
func httpError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "userNotFound"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "notFound"
	case errors.Is(err, common.ErrIncorrectPassword):
		return http.StatusForbidden, "incorrectPassword"
	case errors.Is(err, common.ErrIncorrectHardPassword):
		return http.StatusForbidden, "incorrectHardPassword"
	case errors.Is(err, common.ErrIncorrectAnswer):
		return http.StatusForbidden, "incorrectAnswer"
	case errors.Is(err, common.ErrTooManyRequests):
		return http.StatusTooManyRequests, "tooManyRequests"
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, common.ErrUnknownQuest):
		return http.StatusBadRequest, "unknownQuest"
	case errors.Is(err, common.ErrQuestNotEnabled):
		return http.StatusBadRequest, "questNotEnabled"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := httpError(err)
	writeJSON(w, status, protocol.ErrorResponse{Error: code, Message: err.Error()})
}

func writeRateLimited(w http.ResponseWriter, retryAfterSeconds int) {
	writeJSON(w, http.StatusTooManyRequests, protocol.ErrorResponse{
		Error:      "tooManyRequests",
		Message:    common.ErrTooManyRequests.Error(),
		RetryAfter: retryAfterSeconds,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
