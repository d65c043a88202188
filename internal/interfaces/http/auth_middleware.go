package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pharmstock/pharmstock-api/internal/application/dto"
	"github.com/pharmstock/pharmstock-api/internal/domain/entity"
	"github.com/pharmstock/pharmstock-api/pkg/jwt"
)

// Locals keys for the resolved actor.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
)

// Fallback actor when the deployment runs without an auth gateway.
var systemActor = entity.Actor{ID: 0, Name: "System"}

// ActorMiddleware resolves who is calling. A Bearer token is validated and
// wins; a present-but-invalid token is rejected. Without a token, trusted
// X-User-ID / X-User-Name headers (set by the internal gateway) are used,
// and without those the system actor.
func ActorMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format: Bearer <token>"})
			}
			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "empty token"})
			}
			userID, userName, err := jwt.Parse(jwtSecret, tokenString)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "invalid or expired token"})
			}
			c.Locals(LocalUserID, userID)
			c.Locals(LocalUserName, userName)
			return c.Next()
		}

		if raw := c.Get("X-User-ID"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "X-User-ID must be numeric"})
			}
			c.Locals(LocalUserID, id)
			c.Locals(LocalUserName, c.Get("X-User-Name"))
			return c.Next()
		}

		c.Locals(LocalUserID, systemActor.ID)
		c.Locals(LocalUserName, systemActor.Name)
		return c.Next()
	}
}

// GetActor returns the actor resolved by ActorMiddleware.
func GetActor(c *fiber.Ctx) entity.Actor {
	actor := systemActor
	if v, ok := c.Locals(LocalUserID).(int64); ok {
		actor.ID = v
	}
	if v, ok := c.Locals(LocalUserName).(string); ok && v != "" {
		actor.Name = v
	}
	return actor
}
