package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests whose access token is missing or
// invalid. Pair with jwtauth.Verifier on the route group.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil || token.Subject() == "" {
				response.Unauthorized(w, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// CurrentUser returns the authenticated subject, or "" on public routes.
func CurrentUser(r *http.Request) string {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return ""
	}
	return token.Subject()
}
