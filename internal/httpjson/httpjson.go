// Package httpjson holds the JSON request and response helpers shared by the
// API handlers. Errors are always {"error": "..."}.
package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/middleware"
)

// DefaultMaxBody bounds request bodies that carry no document.
const DefaultMaxBody = 64 << 10

var ErrBadBody = errors.New("invalid request body")

type errorBody struct {
	Error string `json:"error"`
}

func Write(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorBody{Error: msg})
}

// Decode reads at most limit bytes of JSON into dst. A body that fails to
// decode is reported as ErrBadBody.
func Decode(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(dst); err != nil {
		return errors.Join(ErrBadBody, err)
	}
	return nil
}

// Status maps a sentinel error to a response. An empty Message sends the
// error text itself.
type Status struct {
	Err     error
	Code    int
	Message string
}

// Fail writes the first matching status for err. Unmatched errors are
// logged with the request id and answered with a 500.
func Fail(w http.ResponseWriter, r *http.Request, op string, err error, statuses ...Status) {
	if errors.Is(err, ErrBadBody) {
		Error(w, http.StatusBadRequest, ErrBadBody.Error())
		return
	}
	for _, s := range statuses {
		if errors.Is(err, s.Err) {
			msg := s.Message
			if msg == "" {
				msg = err.Error()
			}
			Error(w, s.Code, msg)
			return
		}
	}
	slog.ErrorContext(r.Context(), op+" failed",
		"error", err,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	)
	Error(w, http.StatusInternalServerError, "internal error")
}
