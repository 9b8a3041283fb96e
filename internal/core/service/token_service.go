package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = 2 * time.Hour

// ErrInsecureSecret is returned when the signing secret is absent or a known
// placeholder. Callers must treat it as fatal.
var ErrInsecureSecret = errors.New("token signing secret is missing or a placeholder value")

var placeholderSecrets = []string{
	"your-secret-key",
	"your-very-secure-jwt-secret-key-change-in-production-123!",
	"secret",
	"changeme",
	"change-me",
	"jwt-secret",
	"jwt_secret",
}

// CheckSigningSecret reports ErrInsecureSecret for an empty or placeholder
// secret.
func CheckSigningSecret(secret string) error {
	s := strings.ToLower(strings.TrimSpace(secret))
	if s == "" {
		return ErrInsecureSecret
	}
	for _, p := range placeholderSecrets {
		if s == p {
			return ErrInsecureSecret
		}
	}
	return nil
}

type identityClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 identity tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService returns ErrInsecureSecret instead of a service when the
// secret cannot be trusted.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if err := CheckSigningSecret(secret); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

// TTL is the lifetime given to new tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for the identity's user id, username and role.
// IssuedAt and ExpiresAt on the input are ignored.
func (s *TokenService) Issue(id domain.Identity) (string, error) {
	if id.UserID == "" || !id.Role.Valid() {
		return "", errors.New("issue token: identity requires a user id and a known role")
	}
	now := s.now().UTC()
	claims := identityClaims{
		Username: id.Username,
		Role:     string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify rebuilds the identity from a token. Any defect rejects the token as
// a whole.
func (s *TokenService) Verify(raw string) (domain.Identity, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.Identity{}, domain.NewTokenRequiredError()
	}

	var claims identityClaims
	tkn, err := s.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.Identity{}, domain.NewTokenInvalidError()
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return domain.Identity{}, domain.NewTokenInvalidError()
	}

	id := domain.Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     role,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	id.ExpiresAt = claims.ExpiresAt.Time
	return id, nil
}
