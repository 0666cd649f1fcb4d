// Package api - HTTP surface of the dashboard backend.
// The API is only responsible for input validation, engine
// orchestration and output serialization; aggregation logic lives in
// core/series.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"cloudcost/internal/errors"
)

// maxWindowDays bounds the lookback window, matching the dashboard
// form's limit.
const maxWindowDays = 365

// RunAgentRequest is the body of POST /run-agent.
type RunAgentRequest struct {
	ProjectID string `json:"project_id"`
	Days      int    `json:"days"`
}

// TicketRequest is the body of POST /tickets.
type TicketRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ErrorBody is the error envelope of every non-2xx response.
type ErrorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// parseDays validates the lookback window: a positive integer no
// larger than maxWindowDays. Validation happens before any computation
// or network call.
func parseDays(raw string) (int, *errors.Error) {
	if strings.TrimSpace(raw) == "" {
		return 0, errors.Input("days is required")
	}
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days <= 0 {
		return 0, errors.Input("days must be a positive integer")
	}
	if days > maxWindowDays {
		return 0, errors.Newf(errors.TypeInput, "days must not exceed %d", maxWindowDays)
	}
	return days, nil
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err *errors.Error) int {
	switch err.Type {
	case errors.TypeInput:
		return http.StatusBadRequest
	case errors.TypeSchema:
		return http.StatusUnprocessableEntity
	case errors.TypeNotFound:
		return http.StatusNotFound
	case errors.TypeNetwork, errors.TypeUpstream, errors.TypeParsing:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
