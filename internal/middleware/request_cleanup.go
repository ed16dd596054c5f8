package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes fits a raw camera frame with some headroom.
const DefaultMaxBodyBytes int64 = 8 << 20

// LimitAndDrainBody caps the request body at maxBytes, and drains and closes
// whatever the handler left unread.
func LimitAndDrainBody(maxBytes int64) func(next http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
