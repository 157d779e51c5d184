package rest

import (
	"encoding/json"
	"net/http"

	"github.com/ugconnect/wifi-voucher-gateway/internal/application"
)

// ErrorResponse is the uniform failure body: success is always false,
// error carries the message, details/status appear where the endpoint
// contract requires them.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	Status  string `json:"status,omitempty"`
}

// BuildErrorResponse maps an application error to a status code and body.
func BuildErrorResponse(err error) (int, ErrorResponse) {
	statusCode := application.ToHTTPStatus(err)

	response := ErrorResponse{
		Success: false,
		Error:   err.Error(),
	}

	if svcErr, ok := application.IsServiceError(err); ok {
		response.Error = svcErr.Message
		if svcErr.Code == application.ErrCodeProvider && svcErr.Err != nil {
			response.Details = svcErr.Err.Error()
		}
	}

	return statusCode, response
}

// WriteError maps application errors to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	statusCode, response := BuildErrorResponse(err)
	WriteJSON(w, statusCode, response)
}

// WriteJSON writes v as a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
