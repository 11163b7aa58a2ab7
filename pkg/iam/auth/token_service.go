package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matchbox-hr/matchbox/pkg/errx"
	"github.com/matchbox-hr/matchbox/pkg/iam"
	"github.com/matchbox-hr/matchbox/pkg/kernel"
)

// TokenService issues and validates the bearer tokens that carry a
// principal. Everything downstream consumes the decoded iam.Principal;
// no other package touches the raw credential.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

func NewTokenService(secretKey string, ttl time.Duration, issuer string) *TokenService {
	return &TokenService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		issuer:    issuer,
	}
}

type principalClaims struct {
	Role        string   `json:"role"`
	EmployerIDs []string `json:"employer_ids,omitempty"`
	jwt.RegisteredClaims
}

// Generate issues a signed access token for a principal
func (s *TokenService) Generate(p iam.Principal) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	now := time.Now()
	claims := principalClaims{
		Role: p.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	for _, e := range p.EmployerIDs {
		claims.EmployerIDs = append(claims.EmployerIDs, e.String())
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", errx.Wrap(err, "failed to sign access token", errx.TypeInternal)
	}
	return signed, nil
}

// Validate parses a token and rebuilds the request principal
func (s *TokenService) Validate(tokenString string) (iam.Principal, error) {
	var claims principalClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, iam.ErrUnauthenticated().WithDetail("alg", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return iam.Principal{}, iam.ErrUnauthenticated().WithCause(err)
	}

	role, err := iam.ParseRole(claims.Role)
	if err != nil {
		return iam.Principal{}, iam.ErrUnauthenticated().WithDetail("role", claims.Role)
	}

	p := iam.Principal{
		ID:   kernel.UserID(claims.Subject),
		Role: role,
	}
	for _, e := range claims.EmployerIDs {
		p.EmployerIDs = append(p.EmployerIDs, kernel.EmployerID(e))
	}

	if err := p.Validate(); err != nil {
		return iam.Principal{}, iam.ErrUnauthenticated().WithCause(err)
	}
	return p, nil
}
