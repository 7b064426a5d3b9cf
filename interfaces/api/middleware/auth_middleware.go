package middleware

import (
	"github.com/gofiber/fiber/v2"

	"topic-tasks/pkg/logger"
	"topic-tasks/pkg/utils"
)

// Optional sets the user context when a valid bearer token is present and
// otherwise lets the request through untouched. An empty secret disables it.
func Optional(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if jwtSecret == "" {
			return c.Next()
		}

		token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
		if token == "" {
			return c.Next()
		}

		userCtx, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			logger.DebugContext(c.UserContext(), "Ignoring bearer token", "error", err)
			return c.Next()
		}

		utils.SetUserInContext(c, userCtx)
		return c.Next()
	}
}
