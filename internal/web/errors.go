package web

// errors.go provides the unified JSON error envelope for the web layer.
// Technical details are logged server-side with the request id; clients get
// a short message.

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)

	msg := err.Error()
	if statusCode >= http.StatusInternalServerError {
		// Internal details stay in the log.
		msg = "internal error"
	}
	respondJSON(w, ErrorResponse{Error: msg}, statusCode)
}
