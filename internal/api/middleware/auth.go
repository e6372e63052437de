package middleware

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"

	UserIDHeader = "x-user-id"
)

// Identity attaches the caller's id to the request context when one is
// present. A bearer token wins over the x-user-id header; requests with
// neither pass through anonymously.
func Identity(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					log.Printf("ERROR [middleware.Identity] invalid authorization header format")
					http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
					return
				}

				sub, err := subject(parts[1], jwtSecret)
				if err != nil {
					log.Printf("ERROR [middleware.Identity] token validation failed: %v", err)
					http.Error(w, "Invalid token", http.StatusUnauthorized)
					return
				}
				userID = sub
			}

			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func subject(tokenString, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("bearer tokens are not accepted")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", fmt.Errorf("missing 'sub' claim in token")
	}
	return sub, nil
}

// InternalSecret rejects requests that do not carry the shared secret header.
func InternalSecret(headerName, headerValue string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(headerName)
			if headerValue == "" || subtle.ConstantTimeCompare([]byte(got), []byte(headerValue)) != 1 {
				log.Printf("ERROR [middleware.InternalSecret] missing or invalid %s header", headerName)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID returns the caller's id, or false for anonymous requests.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
