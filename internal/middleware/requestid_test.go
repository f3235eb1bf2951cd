package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Get("X-Request-ID")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		if seen == "" {
			t.Error("Expected a generated request id")
		}
		if rec.Header().Get("X-Request-ID") != seen {
			t.Error("Expected request id echoed on response")
		}
	})

	t.Run("preserves client id", func(t *testing.T) {
		handler := RequestID(okHandler())
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "client-chosen")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get("X-Request-ID") != "client-chosen" {
			t.Errorf("Expected client id preserved, got %q", rec.Header().Get("X-Request-ID"))
		}
	})
}
