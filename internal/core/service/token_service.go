package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

// DefaultTokenTTL matches ACCESS_TOKEN_EXPIRE_MINUTES=1440.
const DefaultTokenTTL = 1440 * time.Minute

// TokenType is returned to clients alongside every access token.
const TokenType = "bearer"

// TokenClaims is the single claim schema for access tokens. Only sub and role
// are used for authorization; email is informational.
type TokenClaims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HMAC-signed access tokens. The secret is
// fixed for the lifetime of the process.
type JWTService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService validates the signing configuration. Only the HMAC family
// (HS256, HS384, HS512) is accepted since the secret is symmetric.
func NewJWTService(secret, algorithm string, ttl time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token service: unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns how long issued tokens stay valid.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token asserting principal's subject and role.
func (s *JWTService) Issue(principal domain.Principal) (string, error) {
	if principal.Subject == "" || !principal.Role.Valid() {
		return "", fmt.Errorf("%w: token subject and role are required", domain.ErrInvalidInput)
	}

	now := s.now()
	claims := TokenClaims{
		Role:  string(principal.Role),
		Email: principal.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of token. A token is
// rejected once the current time reaches its expiry.
func (s *JWTService) Verify(token string) (domain.Principal, error) {
	claims := &TokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return domain.Principal{}, fmt.Errorf("%w: missing subject or role", domain.ErrInvalidToken)
	}

	return domain.Principal{Subject: claims.Subject, Role: role, Email: claims.Email}, nil
}
