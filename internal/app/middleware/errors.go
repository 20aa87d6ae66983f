package middleware

import (
	"encoding/json"
	"net/http"

	"reviewer-service/internal/domain"

	"go.uber.org/zap"
)

// ErrorResponse represents the OpenAPI error response format
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents the error details
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const internalErrorMessage = "internal server error"

// WriteErrorResponse writes an error response in OpenAPI format
func WriteErrorResponse(w http.ResponseWriter, err error, logger *zap.Logger) {
	statusCode := domain.GetHTTPStatus(err)
	errorCode := domain.GetErrorCode(err)

	response := ErrorResponse{
		Error: ErrorDetail{
			Code:    string(errorCode),
			Message: err.Error(),
		},
	}

	// Internal details stay in the log
	if statusCode == http.StatusInternalServerError {
		logger.Error("Internal server error", zap.Error(err))
		response.Error.Message = internalErrorMessage
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(response); encErr != nil {
		logger.Error("Failed to encode error response", zap.Error(encErr))
	}
}
