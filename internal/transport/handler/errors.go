package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/niklvrr/issuetracker/internal/usecase/service"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleError маппит доменные ошибки на HTTP коды и ErrorResponse
func HandleError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusOK, ErrorResponse{}
	}

	var domainErr *service.DomainError
	if errors.As(err, &domainErr) {
		// Маппим код ошибки на HTTP статус
		statusCode := mapErrorCodeToHTTPStatus(domainErr.Code)

		// Причину отдаём клиенту только для клиентских ошибок, детали сбоев хранилища остаются в логах
		message := domainErr.Message
		if statusCode < http.StatusInternalServerError {
			message = domainErr.Error()
		}
		return statusCode, ErrorResponse{
			Error: ErrorDetail{
				Code:    domainErr.Code,
				Message: message,
			},
		}
	}

	// Неизвестная ошибка - возвращаем 500
	return http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    service.CodeInternalError,
			Message: "internal server error",
		},
	}
}

func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound // 404
	case service.CodeVersionConflict:
		return http.StatusConflict // 409
	case service.CodeInvalidTransition:
		return http.StatusBadRequest // 400
	case service.CodeInvalidFormat:
		return http.StatusBadRequest // 400
	case service.CodeValidationError:
		return http.StatusBadRequest // 400
	case service.CodeInvalidInput:
		return http.StatusBadRequest // 400
	case service.CodeAlreadyExists:
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

// WriteError отправляет ErrorResponse клиенту
func WriteError(w http.ResponseWriter, statusCode int, errResp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errResp)
}

func writeErr(w http.ResponseWriter, err error) {
	statusCode, errResp := HandleError(err)
	WriteError(w, statusCode, errResp)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return service.WrapError(service.ErrInvalidInput, fmt.Errorf("malformed JSON body: %w", err))
	}
	return nil
}

// pathID достаёт положительный числовой идентификатор из пути
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.WrapError(service.ErrInvalidInput, fmt.Errorf("invalid %s %q", name, raw))
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, service.WrapError(service.ErrInvalidInput, fmt.Errorf("invalid %s %q", name, raw))
	}
	return v, nil
}
