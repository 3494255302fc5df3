package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"skyutilities-dashboard/internal/domain"

	"github.com/rs/zerolog"
)

// errorResponse is the JSON body of every failed API call
type errorResponse struct {
	Message  string `json:"message"`
	Details  string `json:"details,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// statusFor maps an error kind to its HTTP status
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotAuthenticated, domain.KindSessionInvalid:
		return http.StatusUnauthorized
	case domain.KindBotNotReady, domain.KindUnavailable:
		return http.StatusServiceUnavailable
	case domain.KindNotFound, domain.KindNotConfigured:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindValidationFailed, domain.KindAuthExchangeFailed:
		return http.StatusBadRequest
	case domain.KindUpstreamFailure:
		return http.StatusBadGateway
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"message": ...} with the status of its kind.
// Unclassified errors are logged and replaced by fallback.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error, fallback string) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error().Err(err).Msg("Unhandled error")
		writeMessage(w, http.StatusInternalServerError, fallback)
		return
	}

	body := errorResponse{Message: de.Message}
	if de.Kind == domain.KindAuthExchangeFailed {
		body.Details = de.Details
	}
	if de.Message == "" {
		body.Message = fallback
	}
	writeJSON(w, statusFor(de.Kind), body)
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
