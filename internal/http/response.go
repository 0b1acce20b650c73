package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fjod/jazzys-box/internal/customizer"
	"github.com/fjod/jazzys-box/internal/engine"
	"github.com/fjod/jazzys-box/internal/service"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeJSON reads the request body into v. It answers 413 when the body
// exceeds the router's size limit and 400 for any other decode failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, "request_too_large",
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return false
	}
	respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
	return false
}

// handleBoxError maps engine and service errors to HTTP statuses.
func handleBoxError(w http.ResponseWriter, r *http.Request, err error) {
	var httpStatus int
	var code string

	switch {
	case errors.Is(err, engine.ErrItemNotFound), errors.Is(err, engine.ErrIndexOutOfRange):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, engine.ErrInvalidCode):
		httpStatus = http.StatusUnprocessableEntity
		code = "invalid_code"
	case errors.Is(err, customizer.ErrNoSession):
		httpStatus = http.StatusConflict
		code = "no_session"
	case errors.Is(err, service.ErrEmptyBoxID):
		httpStatus = http.StatusUnauthorized
		code = "no_box"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	default:
		log.Error().Err(err).
			Str("box_id", getBoxIDFromContext(r.Context())).
			Str("request_id", getRequestID(r.Context())).
			Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, httpStatus, code, err.Error())
}
