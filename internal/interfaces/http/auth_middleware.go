package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/opencms-api/internal/application/auth"
	"github.com/jhoicas/opencms-api/internal/application/dto"
	"github.com/jhoicas/opencms-api/internal/domain/access"
	"github.com/jhoicas/opencms-api/pkg/jwt"
)

// Locals keys para la sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalClaims = "session_claims"
)

// AuthMiddleware valida el Bearer Token JWT y deja UserID y claims de sesión en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalClaims, auth.FromTokenClaims(claims))
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetClaims devuelve los claims de sesión; ok=false si la ruta no pasó por AuthMiddleware.
func GetClaims(c *fiber.Ctx) (access.SessionClaims, bool) {
	claims, ok := c.Locals(LocalClaims).(access.SessionClaims)
	return claims, ok
}

// GetRole devuelve el rol primario del token.
func GetRole(c *fiber.Ctx) string {
	claims, _ := GetClaims(c)
	return claims.PrimaryRole
}

// RequireRole permite el paso si el token tiene alguno de los roles (en cualquier tenant).
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 MISSING_ROLE → token sin rol primario.
//   - 403 FORBIDDEN    → ninguno de los roles coincide.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetClaims(c)
		if !ok || claims.PrimaryRole == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no contiene rol"})
		}
		for _, r := range roles {
			if claims.HasRole(r) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permisos para este recurso"})
	}
}
