package server

import (
	"strings"

	"socialapi/internal/middleware"
	"socialapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired verifies the bearer token, checks that its user still exists
// and stores the caller's id in locals ("userID") and in the request context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Not authenticated"))
		}

		userID, err := s.tokens.Verify(token)
		if err != nil {
			return invalidToken(c)
		}
		if _, err := s.userService.GetUser(c.UserContext(), userID); err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				return invalidToken(c)
			}
			return respondError(c, err)
		}

		c.Locals("userID", userID)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

func invalidToken(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
	return models.RespondWithError(c, fiber.StatusUnauthorized,
		models.NewUnauthorizedError("Could not validate credentials"))
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
