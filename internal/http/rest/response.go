package rest

import (
	"encoding/json"
	"net/http"

	"github.com/ccloudinthesky/journee/util"
	"github.com/ccloudinthesky/journee/util/tracing"
)

// ServerResponse is the envelope every endpoint answers with.
type ServerResponse struct {
	Success    bool        `json:"success"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Status     string      `json:"-"`
	StatusCode int         `json:"-"`

	err error
}

func respondWithError(err error, message, status string, tc *tracing.Context) *ServerResponse {
	resp := &ServerResponse{
		Error:      status,
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		err:        err,
	}
	if err != nil && tc != nil {
		resp.err = &tracedError{err: err, tc: *tc}
	}
	return resp
}

func respond(data interface{}, status, message string) *ServerResponse {
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       data,
	}
}

type tracedError struct {
	err error
	tc  tracing.Context
}

func (e *tracedError) Error() string { return e.err.Error() + " (" + e.tc.String() + ")" }
func (e *tracedError) Unwrap() error { return e.err }

func writeErrorResponse(w http.ResponseWriter, _ error, status, message string) {
	resp := ServerResponse{
		Success: false,
		Error:   status,
		Message: message,
	}
	body, _ := json.Marshal(resp)
	writeJSONResponse(w, body, util.StatusCode(status))
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}
