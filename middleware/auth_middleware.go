package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/urbanrent/urban_rent/configs"
	"github.com/urbanrent/urban_rent/models"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// TokenRole reads the numeric role claim. The token payload is the single
// source of truth for authorization.
func TokenRole(c *fiber.Ctx) int {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	role, ok := claims["role"].(float64)
	if !ok {
		return 0
	}
	return int(role)
}

// TokenUserID reads the user_id claim as a string.
func TokenUserID(c *fiber.Ctx) string {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := claims["user_id"].(string)
	return id
}

func RoleRequired(role int, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if TokenRole(c) != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": message,
			})
		}
		return c.Next()
	}
}

func TenantRequired() fiber.Handler {
	return RoleRequired(models.RoleTenant, "Forbidden: Tenant access required")
}

func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdmin, "Forbidden: Admin access required")
}

// ListerRequired admits property owners and brokers.
func ListerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := TokenRole(c)
		if role != models.RoleOwner && role != models.RoleBroker {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Owner or broker access required",
			})
		}
		return c.Next()
	}
}
