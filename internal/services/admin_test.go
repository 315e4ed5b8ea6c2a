package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubIssuer struct{ ttl time.Duration }

func (s *stubIssuer) GenerateAdminToken(ttl time.Duration) (string, time.Time, error) {
	s.ttl = ttl
	return "signed", time.Unix(0, 0).Add(ttl), nil
}

func TestAdminService_IssueToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	issuer := &stubIssuer{}
	svc := NewAdminService(string(hash), issuer)

	token, _, err := svc.IssueToken("open-sesame")
	require.NoError(t, err)
	assert.Equal(t, "signed", token)
	assert.Equal(t, time.Hour, issuer.ttl)

	_, _, err = svc.IssueToken("wrong")
	var unauthorized *UnauthorizedError
	assert.ErrorAs(t, err, &unauthorized)

	_, _, err = svc.IssueToken("")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAdminService_DisabledWithoutHash(t *testing.T) {
	svc := NewAdminService("", &stubIssuer{})

	assert.False(t, svc.Enabled())
	_, _, err := svc.IssueToken("anything")
	var unauthorized *UnauthorizedError
	assert.ErrorAs(t, err, &unauthorized)
}
