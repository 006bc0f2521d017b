package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
	apperrors "github.com/Wadangzz/Dessert-Gemini/pkg/util"
)

const callerKey = "auth_caller"

// AuthMiddleware validates bearer tokens and reconstructs the caller context.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	caller := domain.CallerContext{
		EmployeeID: claims.EmployeeID,
		Name:       claims.Name,
		Role:       claims.Role,
	}
	c.Locals(callerKey, caller)
	return c.Next()
}

// CallerFromContext retrieves the authenticated caller.
func CallerFromContext(c *fiber.Ctx) (domain.CallerContext, bool) {
	val := c.Locals(callerKey)
	if val == nil {
		return domain.CallerContext{}, false
	}
	caller, ok := val.(domain.CallerContext)
	return caller, ok
}
