package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"minutebook/internal/apperr"
	"minutebook/internal/metrics"
)

// errorBody is the JSON error envelope every failed request returns.
type errorBody struct {
	Error *apperr.Error `json:"error"`
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError maps err onto its HTTP status and writes the error envelope.
// Internal failures are logged and reported without their cause.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := apperr.HTTPStatus(err)
	e := apperr.As(err)

	if status >= http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err, "path", r.URL.Path)
		e = &apperr.Error{Code: e.Code, Message: "internal error"}
	}

	writeJSON(w, status, errorBody{Error: e})
}

// rejectInput reports a request that failed boundary decoding.
func rejectInput(w http.ResponseWriter, r *http.Request, err error) {
	metrics.IncValidationFailures("request")
	writeError(w, r, "decode request", err)
}

// decodeJSON reads a bounded JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.Validation("request body too large", fmt.Sprintf("limit %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is required", "")
		default:
			return apperr.Validation("malformed JSON body", err.Error())
		}
	}
	return nil
}
