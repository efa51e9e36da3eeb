package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/moringadesk/moringadesk/config"
)

// Credential errors surfaced by token verification. The middleware maps each
// to its own response code so clients can distinguish an expired session from
// a tampered one.
var (
	ErrCredentialMissing          = errors.New("credential missing")
	ErrCredentialMalformed        = errors.New("credential malformed")
	ErrCredentialExpired          = errors.New("credential expired")
	ErrCredentialInvalidSignature = errors.New("credential signature invalid")
)

// Claims defines JWT claims used in the application. Role travels in the
// token; a role change takes effect when the user's next token is issued.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a JWT for the specified user identity.
func GenerateToken(userID uint, username, role string, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrCredentialMissing
	}

	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrCredentialInvalidSignature
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrCredentialExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrCredentialInvalidSignature):
			return nil, ErrCredentialInvalidSignature
		default:
			return nil, ErrCredentialMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrCredentialMalformed
	}

	return claims, nil
}
