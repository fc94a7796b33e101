package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key-for-session-tokens-only"

func TestSessionTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret)

	token, err := tm.GenerateSessionToken("sess-abc-123", time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	sessionID, err := tm.ValidateSessionToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "sess-abc-123", sessionID)
}

func TestValidateSessionToken_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret)

	token, err := tm.GenerateSessionToken("sess-abc-123", -time.Minute)
	assert.NoError(t, err)

	_, err = tm.ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret).GenerateSessionToken("sess-abc-123", time.Hour)
	assert.NoError(t, err)

	_, err = NewTokenManager("a-completely-different-secret-value").ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSessionToken_Garbage(t *testing.T) {
	tm := NewTokenManager(testSecret)

	for _, s := range []string{"", "not-a-jwt", "aaaa.bbbb.cccc"} {
		_, err := tm.ValidateSessionToken(s)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", s)
	}
}
