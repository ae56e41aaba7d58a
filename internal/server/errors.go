package server

import (
	"encoding/json"
	"net/http"
)

// Stable error codes for machine consumers.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeBadRequest        = "BAD_REQUEST"
	CodeSubmissionFailed  = "SUBMISSION_FAILED"
	CodeSubmissionSkipped = "SUBMISSION_SKIPPED"
	CodeCancelFailed      = "CANCEL_FAILED"
	CodeSchedulerTimeout  = "SCHEDULER_TIMEOUT"
	CodeInternal          = "INTERNAL"
)

// HTTPErrorResponse is the JSON envelope for all error responses.
type HTTPErrorResponse struct {
	Error HTTPErrorBody `json:"error"`
}

// HTTPErrorBody carries a stable code plus a human-readable message.
type HTTPErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{
		Error: HTTPErrorBody{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
