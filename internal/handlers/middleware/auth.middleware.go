package middleware

import (
	"context"
	"strings"

	"estimator/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User"
)

// RequireAuth accepts "Authorization: Bearer <jwt>" and loads the user through
// the cached user repository.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token := tokenParts[1]
		if token == "" {
			log.Info("empty token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}

		userID, err := m.auth.ValidateToken(token)
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		user, err := m.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			log.Info("user not found", "userID", userID, "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		if !user.IsActive {
			log.Info("inactive user", "userID", userID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "User is inactive",
			})
		}

		c.Locals(UserKeyFiber, user)
		c.SetUserContext(context.WithValue(c.UserContext(), UserKey, user))

		log.Debug("user authenticated", "userID", user.ID)
		return c.Next()
	}
}

func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}
