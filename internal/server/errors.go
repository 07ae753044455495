package server

import (
	"encoding/json"
	"net/http"

	"evacuation/pkg/apperror"
	"evacuation/pkg/logger"
)

// errorResponse тело ответа с ошибкой
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// httpStatus сопоставляет код приложения с HTTP статусом
func httpStatus(err error) int {
	switch apperror.GetCode(err) {
	case apperror.CodeInvalidTopology,
		apperror.CodeUnknownNode,
		apperror.CodeNegativeCapacity,
		apperror.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperror.CodeUnknownCorridor, apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{
		Error: errorBody{
			Code:    string(apperror.GetCode(err)),
			Message: err.Error(),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Заголовки уже ушли, остаётся только залогировать
		logger.Error("failed to encode response", "error", err)
	}
}
