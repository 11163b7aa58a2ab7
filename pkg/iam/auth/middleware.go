package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/matchbox-hr/matchbox/pkg/iam"
)

const principalLocalKey = "principal"

// Middleware validates the bearer token and stores the decoded principal
// in the request context
func Middleware(tokenService *TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return iam.ErrUnauthenticated().WithDetail("header", "missing")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return iam.ErrUnauthenticated().WithDetail("header", "malformed")
		}

		principal, err := tokenService.Validate(parts[1])
		if err != nil {
			return err
		}

		c.Locals(principalLocalKey, principal)
		return c.Next()
	}
}

// GetPrincipal extracts the request principal set by Middleware
func GetPrincipal(c *fiber.Ctx) (iam.Principal, bool) {
	p, ok := c.Locals(principalLocalKey).(iam.Principal)
	return p, ok
}

// RequireEmployerLike rejects principals that cannot act on job postings
func RequireEmployerLike() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return iam.ErrUnauthenticated()
		}
		if !p.Role.IsEmployerLike() {
			return iam.ErrPermissionDenied()
		}
		return c.Next()
	}
}
