package admin

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() *Claims {
	return &Claims{
		Scope: []string{ScopeStats},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestCheckPassword(t *testing.T) {
	s, err := NewSessions("correct horse", "secret")
	require.NoError(t, err)

	assert.NoError(t, s.CheckPassword("correct horse"))
	assert.ErrorIs(t, s.CheckPassword("battery staple"), ErrInvalidPassword)
}

func TestIssueAndVerify(t *testing.T) {
	s, err := NewSessions("pw", "")
	require.NoError(t, err)
	assert.Len(t, s.secret, 32)

	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	session, err := s.Issue()
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(24*time.Hour), session.ExpiresAt)

	claims, err := s.Verify(session.Token, ScopeStats)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, "tempmailgen", claims.Issuer)
	assert.True(t, claims.Allows(ScopeStats))
}

func TestVerifyExpired(t *testing.T) {
	s, err := NewSessions("pw", "secret")
	require.NoError(t, err)

	session, err := s.Issue()
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err = s.Verify(session.Token, ScopeStats)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejects(t *testing.T) {
	s, err := NewSessions("pw", "secret")
	require.NoError(t, err)

	noScope := validClaims()
	noScope.Scope = nil

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	cases := map[string]string{
		"other secret":  signed(t, jwt.SigningMethodHS256, []byte("secret-b"), validClaims()),
		"other method":  signed(t, jwt.SigningMethodHS512, []byte("secret"), validClaims()),
		"missing scope": signed(t, jwt.SigningMethodHS256, []byte("secret"), noScope),
		"wrong issuer":  signed(t, jwt.SigningMethodHS256, []byte("secret"), wrongIssuer),
		"no expiry":     signed(t, jwt.SigningMethodHS256, []byte("secret"), noExpiry),
		"garbage":       "abc.def.ghi",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(token, ScopeStats)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = s.Verify(signed(t, jwt.SigningMethodHS256, []byte("secret"), validClaims()), ScopeStats)
	assert.NoError(t, err)
}
