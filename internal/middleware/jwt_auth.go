package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated dealership account, extracted from the
// access token issued at login.
type Principal struct {
	UserID string
	Email  string
}

type ctxKey int

const principalKey ctxKey = 0

// PrincipalFrom returns the authenticated principal attached by JWTAuth, if
// any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

const clockLeeway = 30 * time.Second

// JWTAuth verifies the Bearer token and attaches the resulting Principal to
// the request context.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := verifyRequest(r, secret)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verifyRequest(r *http.Request, secret string) (Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Principal{}, errors.New("missing Authorization header")
	}
	scheme, tokenString, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return Principal{}, errors.New("invalid Authorization header")
	}

	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockLeeway),
	)
	if err != nil || !token.Valid {
		return Principal{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid token claims")
	}

	// sub and email match the claims written by the login handler.
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, errors.New("invalid token subject")
	}
	email, _ := claims["email"].(string)

	return Principal{UserID: sub, Email: email}, nil
}
