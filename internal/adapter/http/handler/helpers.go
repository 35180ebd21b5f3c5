package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/adapter/http/dto"
	"github.com/iho/ctacte/internal/domain"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 8 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it. Errors that carry
// extra context (the existing movement, the ambiguous candidates) put it in
// the body.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)

	var confirmed *domain.AlreadyConfirmedError
	if errors.As(err, &confirmed) {
		writeJSON(w, status, dto.AlreadyConfirmedResponse{
			Error:    message,
			Message:  err.Error(),
			Movement: dto.MovementFromDomain(confirmed.Movement),
		})
		return
	}

	var ambiguous *domain.AmbiguousCustomerError
	if errors.As(err, &ambiguous) {
		writeJSON(w, status, dto.AmbiguousCustomerResponse{
			Error:      message,
			Message:    err.Error(),
			TaxID:      ambiguous.TaxID,
			Candidates: ambiguous.Candidates,
		})
		return
	}

	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(message)
		writeError(w, status, message, "internal error")
		return
	}

	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotConfirmedYet):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoOp):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(v)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parsePage reads page and limit, clamped to the allowed range.
func parsePage(r *http.Request) domain.Page {
	return domain.NewPage(parseIntQuery(r, "page", 1), parseIntQuery(r, "limit", domain.DefaultPageSize))
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(val)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// parseDecimalQuery parses an optional decimal query parameter.
func parseDecimalQuery(r *http.Request, key string) (*decimal.Decimal, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a decimal", domain.ErrValidation, key)
	}
	return &d, nil
}

// parseBoolQuery parses an optional boolean query parameter.
func parseBoolQuery(r *http.Request, key string) (*bool, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrValidation, key)
	}
	return &b, nil
}
