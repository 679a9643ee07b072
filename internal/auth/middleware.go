package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/motofleet/courier-rental/internal/domain"
	"github.com/motofleet/courier-rental/internal/repository"
	apperrors "github.com/motofleet/courier-rental/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectID string
	Role      domain.Role
	Courier   *domain.Courier
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	couriers repository.CourierRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, couriers repository.CourierRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, couriers: couriers}
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

	principal := &Principal{SubjectID: claims.SubjectID, Role: claims.Role}

	if claims.Role == domain.RoleCourier {
		courier, err := m.couriers.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, domain.ErrCourierNotFound) {
				return apperrors.NewUnauthorized("courier not found")
			}
			return apperrors.MapError(err)
		}
		principal.Courier = courier
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
