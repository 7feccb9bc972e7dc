package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/reelmatch/reelmatch-server-go/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    apperrors.ErrorCode `json:"code"`
	Details any                 `json:"details,omitempty"`
}

// WriteError writes an AppError as an HTTP response with appropriate status code
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal("An unexpected error occurred")
	}

	status := statusFromCode(appErr.Code)
	response := ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}

	WriteJSON(w, status, response)
}

// statusFromCode maps ErrorCode to HTTP status code
func statusFromCode(code apperrors.ErrorCode) int {
	switch code {
	// 400 Bad Request
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeMissingRequired,
		apperrors.ErrCodeInvalidSource:
		return http.StatusBadRequest

	// 403 Forbidden
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden

	// 404 Not Found
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound

	// 409 Conflict: state-precondition violations map here so a polling
	// client can distinguish them from malformed requests
	case apperrors.ErrCodeAlreadyExists,
		apperrors.ErrCodeConflict,
		apperrors.ErrCodeAlreadyStarted,
		apperrors.ErrCodeNotInLobby,
		apperrors.ErrCodeNotSwiping:
		return http.StatusConflict

	// 422 Unprocessable Entity
	case apperrors.ErrCodeEmptyDeck:
		return http.StatusUnprocessableEntity

	// 429 Too Many Requests
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests

	// 502 Bad Gateway
	case apperrors.ErrCodeExternal:
		return http.StatusBadGateway

	// 500 Internal Server Error
	case apperrors.ErrCodeInternal,
		apperrors.ErrCodeDatabase:
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
