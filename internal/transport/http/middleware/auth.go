package httpmw

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/internxt/meet-server/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// ParseBearer extracts the caller from an externally issued HS256 token.
// Tokens are minted by the gateway; only the shared-secret signature and the
// identity claims are checked here.
func ParseBearer(secret, header string) (*domain.UserPayload, error) {
	if !strings.HasPrefix(header, "Bearer ") || len(header) <= 7 {
		return nil, fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimSpace(header[7:])

	token, err := jwt.ParseWithClaims(raw, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	user := &domain.UserPayload{}
	if v, ok := claims["uuid"].(string); ok {
		user.UUID = v
	}
	if v, ok := claims["email"].(string); ok {
		user.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		user.Name = v
	}
	if v, ok := claims["lastname"].(string); ok {
		user.LastName = v
	}
	if user.UUID == "" {
		return nil, fmt.Errorf("token has no uuid claim")
	}
	return user, nil
}

// Auth requires a valid bearer token on every request.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := ParseBearer(secret, r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous requests through. Used on the join path, where participants
// without an account are admitted under a generated identity.
func OptionalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("Authorization"); header != "" {
				if user, err := ParseBearer(secret, header); err == nil {
					r = r.WithContext(withUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withUser(ctx context.Context, user *domain.UserPayload) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

func UserFromCtx(ctx context.Context) *domain.UserPayload {
	if v := ctx.Value(ctxKeyUser); v != nil {
		if u, ok := v.(*domain.UserPayload); ok {
			return u
		}
	}
	return nil
}
