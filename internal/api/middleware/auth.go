package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rohits-web03/notely/internal/auth"
	"github.com/rohits-web03/notely/internal/utils"
)

type contextKey string

const principalKey contextKey = "principal"

type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

type FailureRecorder interface {
	AuthFailure(reason string)
}

// Auth only lets requests with a valid bearer token through. A missing token
// is answered with 401 and a token that fails verification with 403.
func Auth(tokens TokenVerifier, rec FailureRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := bearerToken(r)
			if tokenStr == "" {
				rec.AuthFailure("missing_token")
				utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			p, err := tokens.Verify(tokenStr)
			if err != nil {
				rec.AuthFailure("invalid_token")
				utils.ErrorResponse(w, http.StatusForbidden, "Forbidden")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// PrincipalFromContext returns the identity Auth attached to the request.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}

// WithPrincipal is used by tests that call handlers without the middleware.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
