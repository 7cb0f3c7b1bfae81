package ws

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func memberToken(t *testing.T, memberID string) string {
	return signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   memberID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
}

func TestNewAuthenticator_RequiresSecret(t *testing.T) {
	auth, err := NewAuthenticator("")
	assert.Error(t, err)
	assert.Nil(t, auth)
}

func TestAuthenticator_Authenticate(t *testing.T) {
	auth, err := NewAuthenticator(testSecret)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		query    string
		header   string
		memberID string
		err      error
	}{
		{
			name:     "query token",
			query:    "?token=" + memberToken(t, "alice"),
			memberID: "alice",
		},
		{
			name:     "bearer header",
			header:   "Bearer " + memberToken(t, "bob"),
			memberID: "bob",
		},
		{
			name: "missing token",
			err:  ErrMissingToken,
		},
		{
			name:  "wrong secret",
			query: "?token=" + signToken(t, "other", jwt.RegisteredClaims{Subject: "alice"}),
			err:   ErrInvalidToken,
		},
		{
			name: "expired",
			query: "?token=" + signToken(t, testSecret, jwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			}),
			err: ErrInvalidToken,
		},
		{
			name:  "missing subject",
			query: "?token=" + signToken(t, testSecret, jwt.RegisteredClaims{}),
			err:   ErrInvalidToken,
		},
		{
			name:  "garbage",
			query: "?token=not-a-token",
			err:   ErrInvalidToken,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws"+tc.query, nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			memberID, err := auth.Authenticate(r)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.memberID, memberID)
		})
	}
}
