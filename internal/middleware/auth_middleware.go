package middleware

import (
	"strings"

	"go-news-api/internal/model"
	"go-news-api/internal/repository"
	"go-news-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "current_user"

// RequireAuth validates the JWT, enforces the single-session token version
// and stores the freshly loaded user (with role) in the request context.
// Permission checks read the stored role, not the token, so a role change
// takes effect on the next request.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// RequirePermission guards a route behind a permission bit. Must run after
// RequireAuth.
func RequirePermission(perm model.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(403).JSON(fiber.Map{"error": "No authenticated user"})
		}
		if !user.Can(perm) {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: missing required permission"})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(currentUserKey).(*model.User)
	return user
}
