package handler

import (
	"customer-api/internal/api/handler/dto"
	"customer-api/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const internalServerErrorMessage = "Internal server error"

var errInvalidBody = apperrors.New("INVALID_BODY", "Invalid request body", apperrors.ErrInvalidArgument)

// Result is the success variant of an operation: a status and an optional
// JSON body. A nil Body writes no body.
type Result struct {
	Status int
	Body   any
}

// HandlerFunc is an operation that either succeeds with a Result or fails
// with an error classified by respondError.
type HandlerFunc func(r *http.Request) (Result, error)

// Handle adapts an operation to net/http. Every error goes through
// respondError so failures are mapped to status codes in one place.
func Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r)
		if err != nil {
			respondError(w, r, err)
			return
		}
		if res.Body == nil {
			w.WriteHeader(res.Status)
			return
		}
		respondJSON(w, res.Status, res.Body)
	}
}

// decodeJSON treats an empty body as an empty object.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err), internalServerErrorMessage
	if status == http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "Unhandled internal error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	} else if msg, ok := apperrors.PublicMessage(err); ok {
		message = msg
	} else {
		message = http.StatusText(status)
	}

	respondJSON(w, status, dto.ErrorResponse{Error: message})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
