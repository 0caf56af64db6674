package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"futurama-api/internal/auth"
	"futurama-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Detail string               `json:"detail"`
	Errors []service.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, detail string, statusCode int) {
	writeJSON(w, ErrorResponse{Detail: detail}, statusCode)
}

func writeValidation(w http.ResponseWriter, fields ...service.FieldError) {
	writeJSON(w, ErrorResponse{Detail: "Validation error", Errors: fields}, http.StatusUnprocessableEntity)
}

// fail переводит ошибку сервиса в HTTP ответ. Неизвестные ошибки логируются
// и отдаются клиенту как 500 без подробностей.
func fail(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeValidation(w, verr.Fields...)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, service.ErrIntegrity):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, "Internal server error", status)
		return
	}

	detail := http.StatusText(status)
	var serr *service.Error
	if errors.As(err, &serr) {
		detail = serr.Detail
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeError(w, detail, status)
}

// decodeJSON читает тело запроса; ошибка уже записана в ответ.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeValidation(w, service.FieldError{Field: "body", Message: "invalid JSON"})
		return false
	}
	return true
}

// pathID читает положительный числовой параметр пути.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		writeValidation(w, service.FieldError{Field: name, Message: "should be a positive integer"})
		return 0, false
	}
	return id, true
}

// parseListQuery разбирает limit, offset, order_by, direction, query и
// перечисленные фильтры. Значения вне диапазона дают 422.
func parseListQuery(w http.ResponseWriter, r *http.Request, filters ...string) (service.ListQuery, bool) {
	values := r.URL.Query()
	q := service.ListQuery{
		Limit:     defaultLimit,
		OrderBy:   values.Get("order_by"),
		Direction: values.Get("direction"),
		Query:     strings.TrimSpace(values.Get("query")),
	}

	var fields []service.FieldError
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			fields = append(fields, service.FieldError{Field: "limit", Message: "should be between 1 and " + strconv.Itoa(maxLimit)})
		}
		q.Limit = limit
	}
	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			fields = append(fields, service.FieldError{Field: "offset", Message: "should be greater than or equal to 0"})
		}
		q.Offset = offset
	}
	if len(fields) > 0 {
		writeValidation(w, fields...)
		return q, false
	}

	for _, name := range filters {
		if v := values.Get(name); v != "" {
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			q.Filters[name] = v
		}
	}
	return q, true
}

func currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
	}
	return userID, ok
}
