package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Recover turns a panicking handler into a plain-text 500 without the
// linkage counters.
func Recover(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.Error().
					Str("rid", GetRequestID(r)).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("handler panic")
				w.Header().Del(HeaderLinkageRows)
				w.Header().Del(HeaderLinkageMatched)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
