/*
errors.go - Domain error to HTTP mapping

PURPOSE:
  One place that turns depreciation errors into status codes and the
  JSON error envelope the frontend reads.

MAPPING:
  ValidationError         400  validation_error  (fields listed)
  NotFoundError           404  not_found
  ConflictError           409  conflict
  InvalidStateError       409  invalid_state
  InvalidTransitionError  409  invalid_transition
  NotImplementedError     501  not_implemented
  anything else           500  internal_error    (logged, message hidden)

SEE ALSO:
  - depreciation/errors.go: the taxonomy
  - dto.go: ErrorResponse
*/
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/warp/asset-depreciation/depreciation"
)

// writeDomainError maps err onto the error envelope.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *depreciation.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
	case errors.Is(err, depreciation.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, depreciation.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, depreciation.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", err)
	case errors.Is(err, depreciation.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err)
	case errors.Is(err, depreciation.ErrNotImplemented):
		writeError(w, http.StatusNotImplemented, "not_implemented", err)
	default:
		log.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
	}
}

// writeBadRequest reports a malformed request that never reached the domain.
func writeBadRequest(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: field + ": " + message,
		Fields:  []depreciation.FieldError{{Field: field, Message: message}},
	})
}
