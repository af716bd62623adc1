package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// APIKeyAuth rejects requests whose X-API-Key header does not match key.
// An empty key disables the check. Read-only requests (GET, HEAD) always pass
// so the dashboard stays viewable.
func APIKeyAuth(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				apiKey = r.FormValue("api_key")
			}
			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) != 1 {
				slog.Warn("auth: rejected request",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"key_present", apiKey != "",
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"missing or invalid API key","code":"AUTH001"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
