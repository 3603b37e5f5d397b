package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClientClaims represents the claims in a listener token. Listeners are
// browser or terminal clients subscribed to processing progress.
type ClientClaims struct {
	ClientID string `json:"client_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned when a token fails validation.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and validates listener tokens.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// GenerateListenerToken generates a token for a progress listener.
func (i *TokenIssuer) GenerateListenerToken(clientID string) (string, error) {
	claims := &ClientClaims{
		ClientID: clientID,
		Role:     "listener",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken validates a token and returns the claims.
func (i *TokenIssuer) ValidateToken(tokenString string) (*ClientClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ClientClaims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ClientClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
