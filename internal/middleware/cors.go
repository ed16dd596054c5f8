package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var DefaultAllowedOrigins = []string{
	"https://dadhichi.app",
	"https://www.dadhichi.app",
	"http://localhost:8501",
	"http://localhost:3000",
	"test",
}

// Cors lets through the listed origins (DefaultAllowedOrigins when empty),
// native app clients and the curl and test user agents. Everything else gets a 403.
func Cors(origins []string) func(next http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	allowedOrigins := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowedOrigins[strings.TrimSuffix(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")

			switch {
			case
				allowedOrigins[origin],
				// native clients send no origin
				origin == "" && strings.HasPrefix(userAgent, "Dadhichi/"),
				strings.HasPrefix(userAgent, "curl/"),
				strings.HasPrefix(userAgent, "test-agent"):
				{
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Headers",
						"Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-DADHICHI-TOKEN",
					)
					w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
				}
			default:
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
