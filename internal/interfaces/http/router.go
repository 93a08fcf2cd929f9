package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/opencms-api/internal/application/auth"
	"github.com/jhoicas/opencms-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	Sessions       *auth.SessionIssuer
	OrganizationUC *usecase.OrganizationUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Sessions)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Auth con sesión
	requireSession := AuthMiddleware(deps.JWTSecret)
	authGroup.Post("/change-password", requireSession, authHandler.ChangePassword)
	authGroup.Get("/me", requireSession, authHandler.Me)

	// Organizaciones (protegido, acotado por el alcance del token)
	organizations := api.Group("/organizations", requireSession)
	organizationHandler := NewOrganizationHandler(deps.OrganizationUC)
	organizations.Get("/", organizationHandler.List)
}
