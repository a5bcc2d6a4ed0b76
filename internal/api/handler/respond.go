package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"loan-portal/internal/api/handler/dto"
	"loan-portal/internal/api/middleware"
	"loan-portal/internal/pkg/apperrors"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%w: no request body", apperrors.ErrInvalidArgument)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", apperrors.ErrInvalidArgument, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, code, message, field := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Default().Error("Request failed", "status", status, "error", err)
	}
	respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	})
}

func statusFor(err error) (status int, code, message, field string) {
	var validationErr *apperrors.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message, validationErr.Field
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), ""
	case errors.Is(err, apperrors.ErrInvalidPeriod):
		return http.StatusBadRequest, "INVALID_PERIOD", err.Error(), "repaymentPeriod"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusBadRequest, "INVALID_TRANSITION", err.Error(), ""
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), ""
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", ""
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error(), ""
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS", err.Error(), ""
	case errors.Is(err, apperrors.ErrAccountCreationFailed):
		return http.StatusBadGateway, "ACCOUNT_CREATION_FAILED", "Failed to create account. Please try again.", ""
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusServiceUnavailable, "STORE_ERROR", "Could not save your progress. Please try again.", ""
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred.", ""
	}
}

// requireOwner returns the session owner resolved by the auth middleware.
func requireOwner(r *http.Request) (string, error) {
	owner, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		return "", fmt.Errorf("%w: no session owner", apperrors.ErrUnauthorized)
	}
	return owner, nil
}
