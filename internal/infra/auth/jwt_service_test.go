package auth

import (
	"testing"
	"time"

	"docvault/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T, secret string) *jwtService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Session = secret

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestJWTService_IssueAndParse(t *testing.T) {
	svc := newTestJWTService(t, "test_session_secret_key_very_long_for_testing")
	userID := uuid.New()

	token, err := svc.IssueSessionToken("raw-secret", userID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "raw-secret", claims.ID)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := newTestJWTService(t, "test_session_secret_key_very_long_for_testing")

	token, err := svc.IssueSessionToken("raw-secret", uuid.New(), time.Now().Add(-time.Minute))
	require.NoError(t, err)

	claims, err := svc.ParseSessionToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer := newTestJWTService(t, "first_secret_key_for_testing_purposes")
	verifier := newTestJWTService(t, "second_secret_key_for_testing_purposes")

	token, err := issuer.IssueSessionToken("raw-secret", uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = verifier.ParseSessionToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newTestJWTService(t, "test_session_secret_key_very_long_for_testing")

	claims, err := svc.ParseSessionToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "failed to parse session token")
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
