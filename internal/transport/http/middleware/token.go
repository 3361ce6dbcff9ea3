package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"paydesk/internal/transport/http/api"
)

const UpdateTokenHeader = "X-Update-Token"

// RequireToken rejects requests whose header does not carry token. The
// check runs before the handler reads the body. An empty token disables
// the gate.
func RequireToken(header, token string) func(http.Handler) http.Handler {
	expected := []byte(strings.TrimSpace(token))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(expected) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			got := []byte(strings.TrimSpace(r.Header.Get(header)))
			if subtle.ConstantTimeCompare(got, expected) != 1 {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "missing or invalid "+header, GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
