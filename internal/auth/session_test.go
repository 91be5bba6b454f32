package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
)

func TestCreateAndVerifyToken(t *testing.T) {
	sm := NewSessionManager([]byte("test-signing-key"))

	token, err := sm.CreateToken(42, time.Hour)
	assert.NoError(t, err, "expected no error creating token")
	assert.NotEmpty(t, token, "expected a non-empty token")

	userId, err := sm.VerifyToken(token)
	assert.NoError(t, err, "expected token to verify")
	assert.Equal(t, 42, userId, "expected user id to round-trip")
}

func TestVerifyToken_rejections(t *testing.T) {
	sm := NewSessionManager([]byte("test-signing-key"))

	t.Run("garbage token", func(t *testing.T) {
		_, err := sm.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken, "expected garbage token to be rejected")
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := sm.VerifyToken("")
		assert.ErrorIs(t, err, ErrInvalidToken, "expected empty token to be rejected")
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := sm.CreateToken(1, -time.Minute)
		assert.NoError(t, err)

		_, err = sm.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "expected expired token to be rejected")
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewSessionManager([]byte("other-key"))
		token, err := other.CreateToken(1, time.Hour)
		assert.NoError(t, err)

		_, err = sm.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "expected foreign token to be rejected")
	})

	t.Run("missing user id claim", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			expClaim: time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-signing-key"))
		assert.NoError(t, err)

		_, err = sm.VerifyToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken, "expected token without user id to be rejected")
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			userIdClaim: 1,
			expClaim:    time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		assert.NoError(t, err)

		_, err = sm.VerifyToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken, "expected alg=none token to be rejected")
	})
}
