package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// CORS lets a browser upload tables to /link and read the run counters
// from the response headers.
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	allowAll := slices.Contains(allowOrigins, "*")
	expose := strings.Join([]string{HeaderRequestID, HeaderLinkageRows, HeaderLinkageMatched}, ", ")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				h.Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowOrigins, origin):
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID)
			h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			h.Set("Access-Control-Expose-Headers", expose)
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
