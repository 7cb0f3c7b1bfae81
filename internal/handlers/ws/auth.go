package ws

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken      = errors.New("missing token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidSigningAlg = errors.New("invalid signing algorithm")
)

// Authenticator resolves the session identity of a connecting client from an
// HS256 token whose subject is the member id
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator for tokens signed with secret
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}

	return &Authenticator{secret: []byte(secret)}, nil
}

// Authenticate returns the session identity carried by the request, read from
// the token query parameter or a bearer Authorization header
func (a *Authenticator) Authenticate(r *http.Request) (string, error) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		tokenString, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if tokenString == "" {
		return "", ErrMissingToken
	}

	return a.Verify(tokenString)
}

// Verify checks the token signature and expiry and returns its subject
func (a *Authenticator) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningAlg
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
