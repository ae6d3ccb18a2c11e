package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// statusRecorder remembers what the handler sent back.
type statusRecorder struct {
	http.ResponseWriter
	status int
	sent   int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.sent += n
	return n, err
}

// Logging writes one "request" line per call and puts a logger carrying
// "rid" into the context for handlers. 4xx lines go out as warn, 5xx as
// error. A finished linkage run adds its row and match counts.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := logger.With().Str("rid", GetRequestID(r)).Logger()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(l.WithContext(r.Context())))

			ev := l.Info()
			switch {
			case rec.status >= http.StatusInternalServerError:
				ev = l.Error()
			case rec.status >= http.StatusBadRequest:
				ev = l.Warn()
			}
			ev = ev.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int64("bytes_in", r.ContentLength).
				Int("bytes_out", rec.sent)
			if rows, err := strconv.Atoi(rec.Header().Get(HeaderLinkageRows)); err == nil {
				matched, _ := strconv.Atoi(rec.Header().Get(HeaderLinkageMatched))
				ev = ev.Int("linked_rows", rows).Int("linked_matched", matched)
			}
			ev.Dur("dur", time.Since(start)).Msg("request")
		})
	}
}
