package services

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs admin tokens; *middleware.JWTAuth implements it.
type TokenIssuer interface {
	GenerateAdminToken(ttl time.Duration) (string, time.Time, error)
}

const adminTokenTTL = time.Hour

// AdminService exchanges the shared admin key for a short-lived JWT.
type AdminService struct {
	keyHash []byte
	tokens  TokenIssuer
}

func NewAdminService(keyHash string, tokens TokenIssuer) *AdminService {
	return &AdminService{keyHash: []byte(keyHash), tokens: tokens}
}

func (s *AdminService) Enabled() bool {
	return len(s.keyHash) > 0 && s.tokens != nil
}

func (s *AdminService) IssueToken(key string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, &UnauthorizedError{Message: "Admin access is not configured"}
	}
	if key == "" {
		return "", time.Time{}, &ValidationError{Message: "key is required", Fields: map[string]string{"key": "required"}}
	}
	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(key)); err != nil {
		return "", time.Time{}, &UnauthorizedError{Message: "Invalid admin key"}
	}
	return s.tokens.GenerateAdminToken(adminTokenTTL)
}
