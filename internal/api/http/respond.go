package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/service"
)

const maxJSONBody = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// statusFor maps the domain error taxonomy onto HTTP.
func statusFor(err error) (int, errorBody) {
	var (
		ve *domain.ValidationError
		re *domain.InvalidRangeError
		te *domain.InvalidTransitionError
		ro *domain.RemoteOperationError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorBody{Error: ve.Message, Field: ve.Field}
	case errors.As(err, &re):
		return http.StatusBadRequest, errorBody{Error: re.Error(), Field: "end_date"}
	case errors.As(err, &te):
		return http.StatusConflict, errorBody{Error: te.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: "not found"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorBody{Error: "authentication required"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorBody{Error: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorBody{Error: "you are not allowed to do that"}
	case errors.As(err, &ro):
		return http.StatusBadGateway, errorBody{Error: "something went wrong, please try again"}
	}
	return http.StatusInternalServerError, errorBody{Error: "internal error"}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= 500 {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be a number")
	}
	return int32(v), nil
}

func queryInt32(r *http.Request, name string, def int32) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, domain.NewValidationError(name, fmt.Sprintf("must be a number, got %q", raw))
	}
	return int32(v), nil
}

type page[T any] struct {
	Items    []T   `json:"items"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

func newPage[T any](items []T, total, pageNum, pageSize int32) page[T] {
	if items == nil {
		items = []T{}
	}
	return page[T]{Items: items, Total: total, Page: pageNum, PageSize: pageSize}
}
