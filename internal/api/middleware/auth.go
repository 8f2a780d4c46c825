package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/mythcatalog/internal/api/apierr"
	"github.com/mcoot/mythcatalog/internal/services/auth"
)

// TokenHeader carries the bearer token on requests and on the login response
const TokenHeader = "auth-token"

type contextKey string

const claimsContextKey contextKey = "claims"

// TokenVerifier checks a raw token and returns its claims
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// Auth creates authentication middleware.
// A missing token and an invalid token are reported differently; nothing
// downstream runs in either case.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verifier.VerifyToken(r.Header.Get(TokenHeader))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims returns the verified claims from the request context
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims
}

// MustGetClaims returns the verified claims or panics
func MustGetClaims(ctx context.Context) *auth.Claims {
	claims := GetClaims(ctx)
	if claims == nil {
		panic("no claims in context - auth middleware not applied?")
	}
	return claims
}
