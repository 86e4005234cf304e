package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errGone = errors.New("gone")

func TestFail(t *testing.T) {
	statuses := []Status{
		{Err: errGone, Code: http.StatusNotFound, Message: "not found"},
		{Err: errors.ErrUnsupported, Code: http.StatusUnprocessableEntity},
	}
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"mapped with message", fmt.Errorf("load: %w", errGone), http.StatusNotFound, "not found"},
		{"mapped with error text", fmt.Errorf("check: %w", errors.ErrUnsupported), http.StatusUnprocessableEntity, "check: unsupported operation"},
		{"bad body", errors.Join(ErrBadBody, errors.New("eof")), http.StatusBadRequest, "invalid request body"},
		{"unmapped", errors.New("db down"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), "load", tt.err, statuses...)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		limit   int64
		want    string
		wantErr bool
	}{
		{"ok", `{"name":"orders"}`, DefaultMaxBody, "orders", false},
		{"malformed", `{"name":`, DefaultMaxBody, "", true},
		{"too large", `{"name":"orders"}`, 4, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := Decode(httptest.NewRecorder(), req, tt.limit, &p)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name)
		})
	}
}
