package admin

import (
	"crypto/rand"
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

const (
	sessionTTL = 24 * time.Hour
	issuer     = "tempmailgen"
	operator   = "operator"

	// ScopeStats grants read access to the usage counters.
	ScopeStats = "stats:read"
)

// Claims describe an operator session.
type Claims struct {
	Scope []string `json:"scope"`
	jwt.RegisteredClaims
}

func (c *Claims) Allows(scope string) bool {
	return slices.Contains(c.Scope, scope)
}

// Session is an issued operator token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sessions checks the operator password and issues and verifies session
// tokens.
type Sessions struct {
	passwordHash []byte
	secret       []byte
	now          func() time.Time
}

// NewSessions hashes password with bcrypt. A random secret is generated when
// secret is empty, so sessions do not survive a restart.
func NewSessions(password, secret string) (*Sessions, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	key := []byte(secret)
	if secret == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}

	return &Sessions{
		passwordHash: hash,
		secret:       key,
		now:          time.Now,
	}, nil
}

func (s *Sessions) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

func (s *Sessions) Issue() (*Session, error) {
	now := s.now()
	expires := now.Add(sessionTTL)

	claims := &Claims{
		Scope: []string{ScopeStats},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: expires.UTC().Truncate(time.Second)}, nil
}

// Verify parses an HS256 session token and requires it to carry scope.
func (s *Sessions) Verify(token, scope string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || !claims.Allows(scope) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
