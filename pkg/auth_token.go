package pkg

import (
	"net/http"
	"strings"
)

const AuthTokenHeader = "X-DADHICHI-TOKEN"

// AuthToken reads the session token from the Authorization bearer header,
// falling back to the custom token header.
func AuthToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(AuthTokenHeader))
}
