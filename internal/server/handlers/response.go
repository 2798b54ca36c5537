package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/iudanet/userkeeper/internal/server/apperr"
	"github.com/iudanet/userkeeper/internal/validation"
	"github.com/iudanet/userkeeper/pkg/api"
)

// maxBodySize ограничивает размер тела запроса
const maxBodySize = 1 << 20

// sendJSON отправляет JSON ответ
func sendJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(w http.ResponseWriter, logger *slog.Logger, message string, fields map[string]string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Fields:  fields,
	}
	sendJSON(w, logger, resp, statusCode)
}

// StatusFor переводит класс ошибки в HTTP статус.
// Единственное место, где ошибки бизнес-логики превращаются в статусы.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrInvalidInput):
		if len(apperr.Fields(err)) > 0 {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError отправляет ошибку клиенту. Детали внутренних ошибок только логируются.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusFor(err)

	switch status {
	case http.StatusInternalServerError:
		logger.ErrorContext(r.Context(), "Request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		sendError(w, logger, "internal server error", nil, status)
		return
	case http.StatusServiceUnavailable:
		logger.WarnContext(r.Context(), "Request aborted", slog.Any("error", err))
		sendError(w, logger, "request aborted", nil, status)
		return
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	sendError(w, logger, apperr.Detail(err, http.StatusText(status)), apperr.Fields(err), status)
}

// decodeJSON читает тело запроса в dst и проверяет теги validate
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.InvalidInput(fmt.Sprintf("invalid request body: %v", err))
	}

	if fields := validation.Struct(dst); len(fields) > 0 {
		return apperr.Validation(fields)
	}

	return nil
}
