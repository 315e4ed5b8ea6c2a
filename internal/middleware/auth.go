package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const SubjectKey contextKey = "subject"

const roleAdmin = "admin"

type JWTAuth struct {
	Secret []byte
}

func NewJWTAuth(secret string) *JWTAuth {
	return &JWTAuth{Secret: []byte(secret)}
}

// GenerateAdminToken creates an HS256 token carrying the admin role.
func (j *JWTAuth) GenerateAdminToken(ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  roleAdmin,
		"role": roleAdmin,
		"exp":  expires.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Middleware rejects requests without a valid admin bearer token.
func (j *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(j.Secret) == 0 {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Admin access is not configured", r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return j.Secret, nil
		}, jwt.WithExpirationRequired())

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", r)
			return
		}

		if role, _ := claims["role"].(string); role != roleAdmin {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin role required", r)
			return
		}

		sub, _ := claims.GetSubject()
		ctx := context.WithValue(r.Context(), SubjectKey, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidAdminToken reports whether tokenStr is an unexpired admin token.
func (j *JWTAuth) ValidAdminToken(tokenStr string) bool {
	if len(j.Secret) == 0 || tokenStr == "" {
		return false
	}
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.Secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == roleAdmin
}

// GetSubject extracts the token subject from request context.
func GetSubject(ctx context.Context) string {
	sub, _ := ctx.Value(SubjectKey).(string)
	return sub
}
