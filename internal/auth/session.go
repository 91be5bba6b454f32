package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	userIdClaim = "user-id"
	expClaim    = "exp"
)

// ErrInvalidToken is returned for any credential that fails verification,
// whether malformed, expired or signed with the wrong key.
var ErrInvalidToken = errors.New("invalid token")

// SessionManager mints and verifies the HS256 tokens used both for the
// session cookie and for the per-frame credential on the websocket.
// It holds no mutable state and is safe for concurrent use.
type SessionManager struct {
	signingKey []byte
}

func NewSessionManager(signingKey []byte) *SessionManager {
	return &SessionManager{signingKey: signingKey}
}

func (sm *SessionManager) CreateToken(userId int, exp time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		userIdClaim: userId,
		expClaim:    time.Now().Add(exp).Unix(),
	})

	return token.SignedString(sm.signingKey)
}

// VerifyToken parses and validates tokenString and returns the user id it
// was minted for. Any failure is reported as ErrInvalidToken.
func (sm *SessionManager) VerifyToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return sm.signingKey, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	userId, ok := claims[userIdClaim].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}

	return int(userId), nil
}
