package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		method string
		header string
		want   int
	}{
		{name: "disabled", key: "", method: http.MethodPost, want: http.StatusNoContent},
		{name: "reads pass", key: "s3cret", method: http.MethodGet, want: http.StatusNoContent},
		{name: "missing key", key: "s3cret", method: http.MethodPost, want: http.StatusUnauthorized},
		{name: "wrong key", key: "s3cret", method: http.MethodPost, header: "nope", want: http.StatusUnauthorized},
		{name: "valid key", key: "s3cret", method: http.MethodDelete, header: "s3cret", want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/reconcile", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			rec := httptest.NewRecorder()

			APIKeyAuth(tt.key)(okHandler()).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
