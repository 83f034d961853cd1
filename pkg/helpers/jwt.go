package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSigningKeyBytes = 32

// ErrInvalidArgument is returned by Issue when identity fields are empty.
var ErrInvalidArgument = errors.New("invalid argument")

// JWTManager issues and validates signed session tokens (HS256).
// Signing parameters are validated once, at construction; a manager that
// was built successfully cannot fail issuance on configuration grounds.
type JWTManager struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewJWTManager(key, issuer, audience string, ttl time.Duration) (*JWTManager, error) {
	if len(key) < minSigningKeyBytes {
		return nil, fmt.Errorf("jwt: signing key must be at least %d bytes", minSigningKeyBytes)
	}
	if issuer == "" {
		return nil, errors.New("jwt: issuer must not be empty")
	}
	if audience == "" {
		return nil, errors.New("jwt: audience must not be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt: token lifetime must be positive")
	}
	return &JWTManager{key: []byte(key), issuer: issuer, audience: audience, ttl: ttl}, nil
}

type Claims struct {
	Username string `json:"unique_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a fresh token for a validated identity. Each token carries a
// random jti; issued-at and not-before are set to the current time.
func (m *JWTManager) Issue(userID, username, role string) (string, time.Time, error) {
	if userID == "" || username == "" || role == "" {
		return "", time.Time{}, fmt.Errorf("%w: user id, username and role are required", ErrInvalidArgument)
	}

	now := time.Now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.key)
	return s, exp, err
}

// Verify parses tokenStr with the same key, issuer, and audience used for
// issuance and returns the decoded claims.
func (m *JWTManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.key, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithAudience(m.audience))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// TTL reports the configured token lifetime.
func (m *JWTManager) TTL() time.Duration { return m.ttl }
